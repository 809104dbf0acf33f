package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/YHOUDAJ/oncomanager-morocco/config"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/handler"
	patientHandler "github.com/YHOUDAJ/oncomanager-morocco/internal/handler/patient"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/middleware"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/repository/postgres"
	"github.com/YHOUDAJ/oncomanager-morocco/internal/router"
	patientService "github.com/YHOUDAJ/oncomanager-morocco/internal/service/patient"
	"github.com/YHOUDAJ/oncomanager-morocco/pkg/logger"
	"github.com/YHOUDAJ/oncomanager-morocco/pkg/messaging/redis"
	"github.com/YHOUDAJ/oncomanager-morocco/pkg/metrics"
	"github.com/YHOUDAJ/oncomanager-morocco/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(&logger.Config{
		Level:      parseLogLevel(cfg.LogLevel),
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	patientRepo := postgres.NewPatientRepository(db)
	consultationRepo := postgres.NewConsultationRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	patientSvc := patientService.NewService(
		patientRepo,
		consultationRepo,
		outboxRepo,
		appLogger,
		patientService.Config{
			DefaultUserID:   cfg.Ownership.UserID,
			DefaultClinicID: cfg.Ownership.ClinicID,
		},
	)

	h := handler.NewHandler(db)
	pHandler := patientHandler.NewHandler(patientSvc)

	r := router.NewRouter(pHandler, h, router.RouterConfig{
		RateLimit:      rate.Limit(cfg.RateLimit.RPS),
		RateBurst:      cfg.RateLimit.Burst,
		RequestTimeout: cfg.Server.RequestTimeout,
		CORSConfig:     middleware.DefaultCORSConfig(),
		MetricsPrefix:  "oncomanager_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()

	// The outbox processor is optional in the API process: without a
	// reachable broker the API still serves requests and the worker
	// binary drains the outbox instead.
	broker, err := redis.NewBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &appLogger.ZL)
	if err != nil {
		appLogger.Warn("redis unavailable, outbox processing disabled in this process", "error", err.Error())
	} else {
		defer broker.Close()
		processor := worker.NewOutboxProcessor(
			outboxRepo,
			broker,
			worker.OutboxProcessorConfig{
				BatchSize:     cfg.Outbox.BatchSize,
				PollInterval:  cfg.Outbox.PollInterval,
				RetryAttempts: cfg.Outbox.RetryAttempts,
				RetryDelay:    cfg.Outbox.RetryDelay,
				Channel:       cfg.Outbox.Channel,
			},
			appLogger,
			metrics.NewMetrics("oncomanager"),
		)
		go processor.Start(workerCtx)
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	stopWorker()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}

func parseLogLevel(level string) logger.Level {
	parsed, err := zerolog.ParseLevel(level)
	if err != nil || parsed == zerolog.NoLevel {
		return logger.InfoLevel
	}
	return parsed
}
