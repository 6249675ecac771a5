// Command mock-platform serves a local fake of the Okteto agent API and
// the GitHub issue comment API for dry runs of create-agent.
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/rlamana/create-agent/internal/logging"
	"github.com/rlamana/create-agent/internal/platformtest"
)

var (
	loadDotEnv         = godotenv.Load
	defaultListenServe = http.ListenAndServe
)

func main() {
	if err := run(defaultListenServe); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func run(serve func(string, http.Handler) error) error {
	// Load .env file (ignore error if file doesn't exist)
	_ = loadDotEnv()

	logger, err := logging.NewLogger(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console"))
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	platform := platformtest.New()
	addr := ":" + getEnv("PORT", "8080")

	logger.Info("mock platform listening", zap.String("addr", addr))
	logger.Info("point create-agent at it",
		zap.String("OKTETO_CONTEXT", "http://localhost"+addr),
		zap.String("GITHUB_API_URL", "http://localhost"+addr))

	if err := serve(addr, logRequests(platform, logger)); err != nil {
		return fmt.Errorf("server failed to start: %w", err)
	}
	return nil
}

func logRequests(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Info("request", zap.String("method", r.Method), zap.String("path", r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
