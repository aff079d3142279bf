package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Grupp05-AI/Admin-sida/app"
	"github.com/Grupp05-AI/Admin-sida/config"
	log "github.com/Grupp05-AI/Admin-sida/pkg/logger"
	"go.uber.org/zap"
)

// @title						Tips Dashboard API
// @version					    1.0
// @description				    Tips map dashboard: tip listing, categories and dashboard sessions.
// @BasePath					/
// @schemes					    https http
// @securityDefinitions.apiKey	ApiKeyAuth
// @in							header
// @name						X-Api-Key
func main() {
	defer log.Sync()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to start: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT)
	signal.Notify(c, syscall.SIGTERM)

	go func() {
		<-c
		log.Logger().Info("application gracefully shutting down..")
		_ = application.Shutdown()
	}()

	if err := application.Listen(); err != nil {
		log.Logger().Error("app error", zap.Error(err))
	}
}
