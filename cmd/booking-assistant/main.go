package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tennis-booking/internal/api"
	"tennis-booking/internal/app"
	"tennis-booking/internal/common/camunda"
	"tennis-booking/internal/common/config"
	"tennis-booking/internal/common/logger"
	ibr "tennis-booking/internal/workers/booking/interpret-booking-request"
)

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	log.Info("Starting booking assistant", map[string]interface{}{
		"environment": cfg.App.Environment,
		"provider":    cfg.LLM.Provider,
		"model":       cfg.LLM.Model,
	})

	ctx := context.Background()

	services, err := app.Bootstrap(ctx, cfg, log, app.Options{})
	if err != nil {
		zapLog.Fatal("bootstrap failed", zap.Error(err))
	}
	defer services.Close()

	checks := services.ReadinessChecks()

	// --- Optional Zeebe worker ---
	var zeebe *camunda.Client
	var jobWorker worker.JobWorker
	if cfg.Camunda.Enabled {
		zeebe, err = camunda.NewClient(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
		}, log)
		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		checks["zeebe"] = zeebe.HealthCheck

		handler, err := ibr.NewHandler(ibr.HandlerOptions{
			CustomConfig: ibr.LoadConfig(cfg),
			Interpreter:  services.Interpreter,
			Logger:       log,
		})
		if err != nil {
			zapLog.Fatal("worker handler init failed", zap.Error(err))
		}
		jobWorker = camunda.StartWorker(zeebe.GetClient(), ibr.TaskType, config.GetWorkerConfig(cfg, ibr.TaskType), handler.Handle, log)
	}

	// --- HTTP API ---
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.RouterOptions{
		Interpreter: services.Interpreter,
		Server:      cfg.Server,
		Service:     cfg.App.Name,
		Version:     cfg.App.Version,
		Checks:      checks,
		Logger:      log,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	go func() {
		log.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutdown signal received, stopping", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown failed", map[string]interface{}{"error": err.Error()})
	}

	if jobWorker != nil {
		jobWorker.Close()
		jobWorker.AwaitClose()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			log.Error("Error closing Zeebe client", map[string]interface{}{"error": err.Error()})
		}
	}

	log.Info("Booking assistant stopped gracefully", nil)
}
