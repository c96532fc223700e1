package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-translated/internal/logging"
	"github.com/goliatone/go-translated/pkg/interfaces"
)

// TelemetryStatus is the outcome of one command run.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
	// TelemetryStatusDenied means the session lacked the rights for the entity class.
	TelemetryStatusDenied TelemetryStatus = "denied"
	// TelemetryStatusRejected means the submitted record or target was refused
	// before anything was stored.
	TelemetryStatusRejected TelemetryStatus = "rejected"
)

// TelemetryInfo describes one command run.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Telemetry is called once after every command run.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// statusFor derives the outcome from a categorised execution error.
func statusFor(err error) TelemetryStatus {
	switch {
	case err == nil:
		return TelemetryStatusSuccess
	case goerrors.IsCategory(err, goerrors.CategoryAuthz):
		return TelemetryStatusDenied
	case goerrors.IsCategory(err, goerrors.CategoryValidation),
		goerrors.IsCategory(err, goerrors.CategoryNotFound),
		goerrors.IsCategory(err, goerrors.CategoryBadInput):
		return TelemetryStatusRejected
	default:
		return TelemetryStatusFailed
	}
}

// DefaultTelemetry logs the outcome with logger. Denied and rejected runs are
// warnings since they come from the caller, not from the module.
func DefaultTelemetry[T command.Message](logger interfaces.Logger) Telemetry[T] {
	if logger == nil {
		logger = logging.NoOp()
	}
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := logger
		if info.Fields != nil {
			entry = logging.WithFields(entry, info.Fields)
		}
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		var typed *goerrors.Error
		if goerrors.As(info.Error, &typed) {
			args = append(args, "category", string(typed.Category), "text_code", typed.TextCode)
		}
		switch info.Status {
		case TelemetryStatusSuccess:
			entry.Info("command.execute.success", args...)
		case TelemetryStatusDenied:
			entry.Warn("command.execute.denied", append(args, "error", info.Error)...)
		case TelemetryStatusRejected:
			entry.Warn("command.execute.rejected", append(args, "error", info.Error)...)
		case TelemetryStatusContextError:
			entry.Error("command.execute.context_error", append(args, "error", info.Error)...)
		default:
			entry.Error("command.execute.failed", append(args, "error", info.Error)...)
		}
	}
}
