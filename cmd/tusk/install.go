package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/tuskcmd/internal/config"
	"github.com/sandevgo/tuskcmd/internal/service/installer"
	"github.com/sandevgo/tuskcmd/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Write the TuskCmd configuration",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		envPath := config.GetEnvPath()
		if _, err := installer.RunWizard(envPath); err != nil {
			return err
		}

		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		// Creates the database and applies migrations.
		a, err := initApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		logger.Info().Msgf("initialized runtime directory at: %s", config.GetRuntimePath())
		logger.Info().Msg("Installation complete! You can now run 'tusk start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
