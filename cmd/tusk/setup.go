package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sandevgo/tuskcmd/internal/config"
	"github.com/sandevgo/tuskcmd/internal/service/access"
	"github.com/sandevgo/tuskcmd/internal/service/command"
	"github.com/sandevgo/tuskcmd/internal/storage/sqlite"
	"github.com/sandevgo/tuskcmd/internal/transport/cli"
	"github.com/sandevgo/tuskcmd/internal/transport/telegram"
	"github.com/sandevgo/tuskcmd/pkg/log"
	"github.com/sandevgo/tuskcmd/pkg/srv"
)

// app holds what every entry point needs: config, storage and the router.
type app struct {
	cfg     *config.AppConfig
	db      *sql.DB
	router  *command.Router
	checker *access.Checker
}

func (a *app) Close() error {
	return a.db.Close()
}

func NewServices(ctx context.Context, stop context.CancelFunc) []srv.Service {
	logger := log.FromCtx(ctx)
	services := make([]srv.Service, 0)

	a, err := initApp(ctx)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize")
	}
	services = append(services, srv.NewCleanup(a.Close))

	transports, err := initTransports(ctx, a, stop)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize transports")
	}
	if len(transports) == 0 {
		logger.Fatal().Msg("no transport enabled, set TUSK_ENABLE_CLI or TUSK_ENABLE_TELEGRAM")
	}
	services = append(services, transports...)

	return services
}

func initApp(ctx context.Context) (*app, error) {
	logger := log.FromCtx(ctx)

	if err := initEnv(ctx, config.GetEnvPath()); err != nil {
		return nil, fmt.Errorf("failed to init env: %w", err)
	}

	cfg := config.NewAppConfig(ctx)

	db, err := sqlite.NewDB(ctx, cfg.GetDatabasePath())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	grants := sqlite.NewGrantsRepo(db)
	settings := sqlite.NewSettingsRepo(db)

	router := command.New(cfg.GetRootCommand(), command.NewHandlers(settings, grants, time.Now()))
	if err := router.Validate(); err != nil {
		logger.Warn().Err(err).Msg("command declarations need attention")
	}

	return &app{
		cfg:     cfg,
		db:      db,
		router:  router,
		checker: access.NewChecker(grants),
	}, nil
}

func initTransports(ctx context.Context, a *app, stop context.CancelFunc) ([]srv.Service, error) {
	var services []srv.Service

	if a.cfg.IsTelegramSelected() {
		tgCfg := config.NewTelegramConfig(ctx)
		bot, err := telegram.NewBot(ctx, tgCfg, a.router, a.checker)
		if err != nil {
			return nil, err
		}
		services = append(services, bot)
	}

	if a.cfg.IsCLISelected() {
		rl, err := cli.NewReadLine(a.router, a.cfg)
		if err != nil {
			return nil, err
		}
		// Leaving the console ends the process.
		services = append(services, srv.StopOnExit(rl, stop))
	}

	return services, nil
}

func initEnv(ctx context.Context, envFile string) error {
	logger := log.FromCtx(ctx)

	if _, err := os.Stat(envFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := godotenv.Load(envFile); err != nil {
		logger.Warn().Err(err).Str("path", envFile).Msg("failed to load .env file")
		return err
	}

	logger.Debug().Str("path", envFile).Msg("loaded .env file")
	return nil
}
