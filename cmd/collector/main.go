// Collector is a local sink for the measurement client, useful when running
// quantcast-demo without a real backend.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Tap30/quantcast-go/internal/collector"
)

const defaultAddr = ":3000"

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	addr := defaultAddr
	if a := os.Getenv("COLLECTOR_ADDR"); a != "" {
		addr = a
	}

	app := collector.New(logger, os.Getenv("API_KEY_HEADER")).App()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	go func() {
		logger.Info("Collector listening", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Collector server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down collector")
	if err := app.Shutdown(); err != nil {
		logger.Error("Shutdown failed", zap.Error(err))
	}
}
