package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"userapi/internal/config"
	"userapi/internal/http/handlers"
	applog "userapi/internal/log"
	"userapi/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			applog.Logger().Warn().Err(err).Str("file", cfg.LogFile).Msg("could not open log file")
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	applog.Setup(cfg.LogLevel, cfg.LogFormat, out)

	db, err := repos.OpenDB(cfg)
	if err != nil {
		applog.Logger().Fatal().Err(err).Str("driver", cfg.DBDriver).Msg("failed to open database")
	}
	defer db.Close()

	deps, err := handlers.NewDeps(db, cfg)
	if err != nil {
		applog.Logger().Fatal().Err(err).Msg("invalid configuration")
	}
	app := handlers.NewApp(cfg, deps)

	go func() {
		applog.Logger().Info().Str("port", cfg.Port).Msg("server starting")
		if err := app.Listen(":" + cfg.Port); err != nil {
			applog.Logger().Fatal().Err(err).Msg("listen")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	applog.Logger().Info().Msg("shutting down server")

	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		applog.Logger().Error().Err(err).Msg("forced shutdown")
	}
	applog.Logger().Info().Msg("server exiting")
}
