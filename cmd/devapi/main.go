package main

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/csg33k/employee-directory/internal/adapters/sqlite"
	"github.com/csg33k/employee-directory/internal/config"
	"github.com/csg33k/employee-directory/internal/devapi"
	"github.com/csg33k/employee-directory/internal/logger"
	"github.com/csg33k/employee-directory/internal/server"
)

func main() {
	reseed := flag.Bool("reseed", false, "replace the stored employees with the sample set")
	seedOnly := flag.Bool("seed-only", false, "seed the database and exit without serving")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logger.Logger().Warn().Err(err).Msg("error loading .env file")
	}
	cfg := config.LoadDevAPI()
	logger.InitLogging(cfg.LogLevel, "")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := sqlite.New(ctx, cfg.DBPath)
	if err != nil {
		logger.Logger().Fatal().Err(err).Str("db", cfg.DBPath).Msg("failed to open database")
	}
	defer repo.Close()

	n, err := repo.Seed(ctx, *reseed)
	if err != nil {
		logger.Logger().Fatal().Err(err).Msg("failed to seed database")
	}
	if n > 0 {
		logger.InfoLog(ctx, "seeded %d sample employees", n)
	}
	if *seedOnly {
		return
	}

	logger.Logger().Info().
		Str("db", cfg.DBPath).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Msgf("Employee API running on http://localhost:%s%s", cfg.Port, devapi.Prefix)

	if err := server.Serve(ctx, ":"+cfg.Port, devapi.New(repo, cfg.AllowedOrigins).Routes()); err != nil {
		logger.Logger().Error().Err(err).Msg("server stopped with error")
	}
}
