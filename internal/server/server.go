package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abheda24/F1-TelemetryHub/internal/api"
	"github.com/abheda24/F1-TelemetryHub/internal/config"
	"github.com/abheda24/F1-TelemetryHub/internal/eventbus"
	"github.com/abheda24/F1-TelemetryHub/internal/gateway"
	"github.com/abheda24/F1-TelemetryHub/internal/gateway/repo"
	"github.com/abheda24/F1-TelemetryHub/internal/monitor"
	"github.com/abheda24/F1-TelemetryHub/internal/prefetch"
	"github.com/abheda24/F1-TelemetryHub/internal/service"

	"github.com/hibiken/asynq"
)

type Server struct {
	cfg    *config.Config
	deps   *Dependency
	http   *http.Server
	worker *asynq.Server
	mux    *asynq.ServeMux
	logger *slog.Logger
}

func NewServer(cfg *config.Config, deps *Dependency) *Server {
	logger := deps.Logger

	bus := eventbus.NewRedisBus(deps.Redis, logger)
	history := repo.NewRepository(deps.PG, deps.Redis)

	gw := gateway.New(gateway.Config{
		HotCacheTTL: cfg.Cache.HotTTL,
	}, deps.Provider, deps.Redis, history, logger)

	svc := service.NewService(gw, deps.Provider, history, bus, deps.AsynqClient, logger)

	worker := asynq.NewServer(deps.AsynqRedis, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Logger:      &asynqLogger{logger: logger},
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(prefetch.TaskPrefetchEvent, prefetch.NewWorker(gw, bus, logger).HandlePrefetchEvent)

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      api.NewRouter(svc),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return &Server{
		cfg:    cfg,
		deps:   deps,
		http:   httpServer,
		worker: worker,
		mux:    mux,
		logger: logger,
	}
}

// Start runs the HTTP server, the metrics endpoint and the prefetch worker
// until SIGINT/SIGTERM, then shuts everything down in order.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := s.worker.Run(s.mux); err != nil {
			s.logger.Error("Prefetch worker stopped", "error", err)
		}
	}()

	go func() {
		if err := monitor.StartMetricsServer(ctx, s.cfg.Metrics.Addr, s.logger); err != nil {
			s.logger.Error("Metrics server stopped", "error", err)
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.cfg.Server.Addr)
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Shutdown signal received")
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP shutdown failed", "error", err)
	}
	s.worker.Shutdown()
	s.deps.Close()

	s.logger.Info("Server stopped")
	return nil
}

var _ asynq.Logger = (*asynqLogger)(nil)

// asynqLogger routes asynq's internal logging through slog.
type asynqLogger struct {
	logger *slog.Logger
}

func (l *asynqLogger) Debug(args ...interface{}) { l.logger.Debug(fmt.Sprint(args...)) }
func (l *asynqLogger) Info(args ...interface{})  { l.logger.Info(fmt.Sprint(args...)) }
func (l *asynqLogger) Warn(args ...interface{})  { l.logger.Warn(fmt.Sprint(args...)) }
func (l *asynqLogger) Error(args ...interface{}) { l.logger.Error(fmt.Sprint(args...)) }
func (l *asynqLogger) Fatal(args ...interface{}) {
	l.logger.Error(fmt.Sprint(args...))
	os.Exit(1)
}
