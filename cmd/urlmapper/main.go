package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/go-chi/httplog/v2"
	"github.com/joho/godotenv"

	"urlmapper/internal/app"
	"urlmapper/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx); err != nil {
		panic(err)
	}
}

func run(ctx context.Context) error {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		return err
	}

	logger := httplog.NewLogger("urlmapper", httplog.Options{
		JSON:     cfg.Env == config.EnvProd,
		LogLevel: logLevel(cfg.Env),
		Concise:  cfg.Env != config.EnvProd,
	})

	return app.Run(ctx, cfg, logger)
}

func logLevel(env string) slog.Level {
	if env == config.EnvDev {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}
