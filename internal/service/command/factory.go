package command

import (
	"time"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

// NewHandlers returns the built-in handlers in registration order.
func NewHandlers(
	settings core.SettingsRepository,
	grants core.GrantsRepository,
	started time.Time,
) []subcmd.Handler {
	return []subcmd.Handler{
		NewServerCommand(settings, started),
		NewPermsCommand(grants),
	}
}
