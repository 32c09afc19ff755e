// ABOUTME: Main entry point for the standalone TripNARA mock backend
// ABOUTME: Serves fixture trips and drafts over HTTP for frontend and CLI development
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tripnara/tripnara-go/internal/logging"
	"github.com/tripnara/tripnara-go/internal/mockserver"
)

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	logger := logging.New(logging.Config{Level: getEnv("TRIPNARA_LOG_LEVEL", "info")})
	defer func() { _ = logger.Sync() }()

	addr := getEnv("TRIPNARA_MOCK_ADDR", "127.0.0.1:3000")
	latency, err := time.ParseDuration(getEnv("TRIPNARA_MOCK_LATENCY", "0s"))
	if err != nil {
		logger.Fatal("invalid TRIPNARA_MOCK_LATENCY", zap.Error(err))
	}

	run, err := mockserver.Start(addr, mockserver.Options{
		Logger:   logger,
		OpenAuth: os.Getenv("TRIPNARA_MOCK_OPEN_AUTH") == "true",
		Latency:  latency,
	})
	if err != nil {
		logger.Fatal("failed to start mock backend", zap.Error(err))
	}
	logger.Info("mock backend listening", zap.String("url", run.URL), zap.Duration("latency", latency))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := run.Stop(shutdown); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	logger.Info("mock backend stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
