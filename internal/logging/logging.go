package logging

import (
	"context"
	"maps"
	"strings"

	"github.com/goliatone/go-translated/pkg/interfaces"
)

const (
	rootModule     = "translated"
	formsModule    = "translated.forms"
	entitiesModule = "translated.entities"
	rolesModule    = "translated.roles"
)

// ModuleLogger returns a logger scoped to module. A nil provider, or one that
// returns nil, yields the no-op logger. The module name is attached as the
// "module" field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	module = strings.TrimSpace(module)
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// FormsLogger returns the logger namespace used by the form service.
func FormsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, formsModule)
}

// EntitiesLogger returns the logger namespace used by entity stores.
func EntitiesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, entitiesModule)
}

// RolesLogger returns the logger namespace used by the role store.
func RolesLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, rolesModule)
}

// WithFields attaches fields when logger implements interfaces.FieldsLogger,
// otherwise it returns logger unchanged. The map is copied.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		copied := make(map[string]any, len(fields))
		maps.Copy(copied, fields)
		return fieldsLogger.WithFields(copied)
	}
	return logger
}

// WithEntityContext adds the entity class, id and locale tab to logger,
// skipping blank values.
func WithEntityContext(logger interfaces.Logger, class, id, locale string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(class); trimmed != "" {
		fields["class"] = trimmed
	}
	if trimmed := strings.TrimSpace(id); trimmed != "" {
		fields["entity_id"] = trimmed
	}
	if trimmed := strings.TrimSpace(locale); trimmed != "" {
		fields["locale"] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
