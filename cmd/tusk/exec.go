package main

import (
	"errors"
	"os"
	"strings"

	"github.com/sandevgo/tuskcmd/internal/transport/cli"
	"github.com/sandevgo/tuskcmd/pkg/log"
	"github.com/spf13/cobra"
)

var errNotHandled = errors.New("command was not handled")

var execCmd = &cobra.Command{
	Use:           "exec <args...>",
	Short:         "Run one command as the console",
	Example:       "  tusk exec grant @alice tusk.motd.set",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a, err := initApp(ctx)
		if err != nil {
			log.FromCtx(ctx).Error().Err(err).Msg("failed to initialize")
			return err
		}
		defer a.Close()

		console := cli.NewConsole(os.Stdout)
		if !cli.Execute(ctx, a.router, console, strings.Join(args, " ")) {
			return errNotHandled
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
}
