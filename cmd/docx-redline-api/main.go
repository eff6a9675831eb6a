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

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/docxredline/api/internal/concurrency"
	"github.com/docxredline/api/internal/config"
	"github.com/docxredline/api/internal/docxengine/fake"
	"github.com/docxredline/api/internal/httpapi"
	"github.com/docxredline/api/internal/httpapi/handlers"
	"github.com/docxredline/api/internal/metrics"
	"github.com/docxredline/api/internal/uploadsafety"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)
	defer log.Sync()
	log = log.Named("main")

	sink := metrics.New(cfg.RedisAddr, log)
	defer sink.Close()

	deps := &handlers.Deps{
		// The real OOXML engine is an external collaborator (out of
		// scope); the fake engine backs every request until one is wired
		// in.
		Factory:      fake.NewFactory(),
		Gate:         concurrency.New(int64(cfg.MaxDocumentConcurrency)),
		Config:       cfg,
		Metrics:      sink,
		Log:          log,
		UploadLimits: uploadsafety.Limits{MaxUncompressedTotal: cfg.MaxFileSize * 10, MaxRatio: uploadsafety.DefaultLimits.MaxRatio},
	}

	router := httpapi.NewRouter(deps)

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Port),
		Handler:        router,
		ReadTimeout:    30 * time.Second,
		WriteTimeout:   cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 15,
		ErrorLog:       zap.NewStdLog(log.Named("http").WithOptions(zap.AddCallerSkip(1))),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", srv.Addr))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	case <-ctx.Done():
		stop()
		log.Info("shutdown signal received, draining in-flight requests", zap.Duration("drain_window", cfg.RequestTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}
}

func newLogger(level string) *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zl zapcore.Level
	if err := zl.UnmarshalText([]byte(level)); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(zl)
	}

	return zap.Must(cfg.Build())
}
