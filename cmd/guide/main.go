// cmd/guide/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"formalization-guide/internal/catalog"
	"formalization-guide/internal/common/config"
	"formalization-guide/internal/common/database"
	"formalization-guide/internal/common/logger"
	"formalization-guide/internal/common/observability"
	"formalization-guide/internal/flow"
	"formalization-guide/internal/onboarding"
	"formalization-guide/internal/services"
	"formalization-guide/internal/session"
	"formalization-guide/internal/tasksync"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting formalization guide...",
		zap.String("environment", cfg.App.Environment),
		zap.String("version", cfg.App.Version),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Load question catalog ---
	cat := catalog.Default()
	if cfg.Catalog.Path != "" {
		loaded, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			zapLog.Warn("catalog load failed, using built-in questions",
				zap.Error(err),
				zap.String("path", cfg.Catalog.Path),
			)
		} else {
			cat = loaded
			zapLog.Info("Question catalog loaded from file",
				zap.String("path", cfg.Catalog.Path),
				zap.Int("questions", cat.Len()),
			)
		}
	}

	// --- Init service clients ---
	onboardingClient := services.NewOnboardingClient(cfg.Services.Onboarding, log, obs)
	documentClient := services.NewDocumentClient(cfg.Services.Document, cfg.Upload, log, obs)

	var formalization services.FormalizationService = services.NewFormalizationClient(cfg.Services.Formalization, log, obs)

	// --- Init Redis snapshot cache with retry ---
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Cache)
			if err != nil {
				return err
			}
			return redis.Ping(ctx)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Fatal("redis failed after retries", zap.Error(err))
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		formalization = services.NewCachedFormalization(formalization, redis, cfg.Cache, log)
	}

	// --- Assemble the guided flow ---
	sess := session.New()
	orch := flow.NewOrchestrator(flow.Options{
		Controller:    onboarding.NewController(cat, onboardingClient, log, obs),
		Synchronizer:  tasksync.NewSynchronizer(formalization, log, obs),
		Onboarding:    onboardingClient,
		Documents:     documentClient,
		Session:       sess,
		Logger:        log,
		Observability: obs,
	})

	if err := orch.Resolve(ctx); err != nil {
		zapLog.Fatal("initial screen resolution failed", zap.Error(err))
	}
	zapLog.Info("Guided flow ready",
		zap.String("sessionId", sess.ID),
		zap.String("screen", string(orch.Current())),
	)

	// --- Metrics and status endpoints ---
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		mux.HandleFunc("/status", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]interface{}{
				"sessionId": sess.ID,
				"screen":    string(orch.Current()),
				"startedAt": sess.StartedAt,
			})
		})

		go func() {
			zapLog.Info("Metrics server listening", zap.String("address", cfg.Metrics.Address))
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				zapLog.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	// --- Wait for shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLog.Info("Shutting down formalization guide...")
}
