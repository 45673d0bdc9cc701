package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/csg33k/employee-directory/internal/adapters/pdf"
	"github.com/csg33k/employee-directory/internal/adapters/restapi"
	"github.com/csg33k/employee-directory/internal/adapters/xlsx"
	"github.com/csg33k/employee-directory/internal/config"
	"github.com/csg33k/employee-directory/internal/directory"
	"github.com/csg33k/employee-directory/internal/handlers"
	"github.com/csg33k/employee-directory/internal/keepalive"
	"github.com/csg33k/employee-directory/internal/live"
	"github.com/csg33k/employee-directory/internal/logger"
	"github.com/csg33k/employee-directory/internal/ports"
	"github.com/csg33k/employee-directory/internal/server"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "optional YAML config file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Logger().Warn().Err(err).Msg("error loading .env file")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("invalid configuration")
	}
	logger.InitLogging(cfg.LogLevel, cfg.LogFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := restapi.New(cfg.API.BaseURL)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("invalid employee API URL")
	}
	fetcher := directory.NewFetcher(api, cfg.PageSize)
	sessions := live.NewManager(fetcher, live.Options{Debounce: cfg.Debounce, TTL: cfg.SessionTTL})
	profiles := pdf.New()
	h := handlers.New(handlers.Deps{
		Fetcher:   fetcher,
		Sessions:  sessions,
		Profiles:  profiles,
		Exporters: []ports.PageExporter{xlsx.New(), profiles},
	})
	pinger := keepalive.New(cfg.KeepAlive.URL, cfg.KeepAlive.Interval)

	logger.Logger().Info().
		Str("env", cfg.Env).
		Str("api", api.BaseURL()).
		Int("page_size", cfg.PageSize).
		Dur("debounce", cfg.Debounce).
		Msgf("Employee directory running on http://localhost:%s", cfg.Port)

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return server.Serve(gctx, ":"+cfg.Port, h.Routes())
	})
	group.Go(func() error {
		return sessions.Run(gctx)
	})
	group.Go(func() error {
		return pinger.Run(gctx)
	})

	if err := group.Wait(); err != nil {
		logger.Logger().Fatal().Err(err).Msg("server stopped with error")
	}
	logger.Logger().Info().Msg("all services stopped")
}
