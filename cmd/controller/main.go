package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/brightlane/uctl/internal/config"
	"github.com/brightlane/uctl/internal/controller"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "config file path")
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()
	sugar := logger.Sugar()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctrl := controller.New(cfg, sugar)
	defer ctrl.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Register signal handler in the main goroutine BEFORE connecting
	// so no signal can be lost between program start and Notify registration.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		sugar.Info("received shutdown signal")
		cancel()
	}()

	if err := ctrl.Connect(ctx); err != nil {
		sugar.Fatalf("controller connect: %v", err)
	}
	for _, w := range ctrl.TakeWarnings() {
		sugar.Warn(w)
	}

	<-ctx.Done()
	if err := ctrl.Disconnect(context.Background()); err != nil {
		sugar.Errorf("controller disconnect: %v", err)
	}
}
