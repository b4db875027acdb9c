// Package main Hexagonal Auth API
//
// @title           Hexagonal Auth API
// @version         1.0
// @description     Аутентификация по сессиям и конвертация PEN в USD

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name JSESSIONID
// @description Cookie сессии, выдаётся при входе.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	hexagonalauth "github.com/magabrotheeeer/hexagonal-auth/internal/app/hexagonal-auth"
	"github.com/magabrotheeeer/hexagonal-auth/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting hexagonal-auth", slog.String("env", cfg.Env))
	logger.Debug("loaded config\n" + cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := hexagonalauth.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("hexagonal-auth stopped gracefully")
}
