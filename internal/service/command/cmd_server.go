package command

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sandevgo/tuskcmd/internal/core"
	"github.com/sandevgo/tuskcmd/pkg/subcmd"
)

const (
	motdKey     = "motd"
	defaultMOTD = "Welcome!"
	maxMOTDLen  = 256 // runes

	PermMOTDSet = "tusk.motd.set"
)

// ServerCommand answers status queries and manages the message of the day.
type ServerCommand struct {
	settings  core.SettingsRepository
	started   time.Time
	now       func() time.Time
	formatter *ResponseFormatter
}

func NewServerCommand(settings core.SettingsRepository, started time.Time) *ServerCommand {
	return &ServerCommand{
		settings:  settings,
		started:   started,
		now:       time.Now,
		formatter: NewResponseFormatter(),
	}
}

func (c *ServerCommand) Operations() []subcmd.Operation {
	return []subcmd.Operation{
		subcmd.Op(subcmd.Meta{
			AllowConsole: true,
			Description:  "Show server status",
		}, c.status),
		subcmd.Op(subcmd.Meta{
			Names:        []string{"version", "ver"},
			AllowConsole: true,
			Description:  "Show the running version",
		}, c.version),
		subcmd.Op(subcmd.Meta{
			Names:        []string{"ping"},
			AllowConsole: true,
			Description:  "Check that the server responds",
		}, c.ping),
		// Both motd operations share a name; the bare form must come first.
		subcmd.Op(subcmd.Meta{
			Names:        []string{"motd"},
			AllowConsole: true,
			Description:  "Show the message of the day",
		}, c.showMOTD),
		subcmd.Op(subcmd.Meta{
			Names:        []string{"motd"},
			Permission:   PermMOTDSet,
			Usage:        []string{"motd <text...>"},
			Min:          1,
			Max:          32,
			AllowConsole: true,
			Description:  "Set the message of the day",
		}, c.setMOTD),
	}
}

func (c *ServerCommand) status(ctx context.Context, s subcmd.Sender, _ []string) (subcmd.Result, error) {
	motd, err := c.motd(ctx)
	if err != nil {
		return subcmd.Handled, err
	}

	s.SendMessage(
		c.formatter.Info(core.TuskName),
		c.formatter.Label("Version", core.TuskVersion),
		c.formatter.Label("Uptime", c.uptime().String()),
		c.formatter.Label("MOTD", motd),
	)
	return subcmd.Handled, nil
}

func (c *ServerCommand) version(ctx context.Context, s subcmd.Sender, _ []string) (subcmd.Result, error) {
	s.SendMessage(fmt.Sprintf("%s %s", core.TuskName, core.TuskVersion))
	return subcmd.Handled, nil
}

func (c *ServerCommand) ping(ctx context.Context, s subcmd.Sender, _ []string) (subcmd.Result, error) {
	s.SendMessage("pong")
	return subcmd.Handled, nil
}

func (c *ServerCommand) showMOTD(ctx context.Context, s subcmd.Sender, _ []string) (subcmd.Result, error) {
	motd, err := c.motd(ctx)
	if err != nil {
		return subcmd.Handled, err
	}
	s.SendMessage(motd)
	return subcmd.Handled, nil
}

func (c *ServerCommand) setMOTD(ctx context.Context, s subcmd.Sender, args []string) (subcmd.Result, error) {
	motd := strings.Join(args, " ")
	if utf8.RuneCountInString(motd) > maxMOTDLen {
		return subcmd.NotYetMatched, nil
	}
	if err := c.settings.SetSetting(ctx, motdKey, motd); err != nil {
		return subcmd.Handled, fmt.Errorf("failed to save motd: %w", err)
	}
	s.SendMessage(c.formatter.Success("Message of the day updated."))
	return subcmd.Handled, nil
}

func (c *ServerCommand) motd(ctx context.Context) (string, error) {
	motd, ok, err := c.settings.GetSetting(ctx, motdKey)
	if err != nil {
		return "", err
	}
	if !ok {
		return defaultMOTD, nil
	}
	return motd, nil
}

func (c *ServerCommand) uptime() time.Duration {
	return c.now().Sub(c.started).Truncate(time.Second)
}
