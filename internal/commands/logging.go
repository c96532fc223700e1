package commands

import (
	"strings"

	"github.com/goliatone/go-translated/internal/logging"
	"github.com/goliatone/go-translated/pkg/interfaces"
)

const commandModuleRoot = "translated.commands"

// CommandLogger returns the logger for a group of entity commands, such as
// "import" or "submit". Entries carry the group so a run can be traced
// across handlers.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	group = strings.ToLower(strings.TrimSpace(group))
	if group == "" {
		group = "entity"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+group), map[string]any{
		"command_group": group,
	})
}
