// Package main initializes and starts the budget planner server,
// setting up configuration, logging, the slot store, repositories,
// services, handlers, and optional TLS.
package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	nethttp "net/http"

	"github.com/atinyakov/sbp/internal/config"
	"github.com/atinyakov/sbp/internal/db"
	"github.com/atinyakov/sbp/internal/logger"
	"github.com/atinyakov/sbp/internal/repository"
	"github.com/atinyakov/sbp/internal/server/handler/http"
	"github.com/atinyakov/sbp/internal/service"
	"github.com/atinyakov/sbp/internal/store"
	"github.com/atinyakov/sbp/internal/view"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

// cleanInterval is how often SQL backends look for stale devices.
const cleanInterval = time.Hour

// shutdownTimeout bounds how long in-flight requests may take to drain.
const shutdownTimeout = 5 * time.Second

func main() {
	// Parse command-line, file and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the slot store selected by the DSN.
	backend, err := store.Open(options.StoreDSN)
	if err != nil {
		zapLogger.Fatal("cannot open store", zap.Error(err))
	}
	defer func() {
		if err := backend.Store.Close(); err != nil {
			zapLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	// SQL backends drop devices nobody touched for the retention period.
	if backend.DB != nil && options.Retention.Duration > 0 {
		db.StartStaleDeviceCleaner(ctx, backend.DB, backend.Dialect,
			cleanInterval,
			options.Retention.Duration,
			zapLogger,
		)
	}

	repo := repository.NewSlotRepository(backend.Store)
	planner := service.NewPlannerService(repo)

	money, err := view.NewMoney(options.Currency)
	if err != nil {
		zapLogger.Fatal("invalid currency", zap.Error(err))
	}
	var templates fs.FS = view.Templates()
	if options.TemplatesDir != "" {
		templates = os.DirFS(options.TemplatesDir)
	}
	renderer, err := view.New(templates, money)
	if err != nil {
		zapLogger.Fatal("cannot load templates", zap.Error(err))
	}

	// Create HTTP handlers for every page.
	pages := http.Pages{View: renderer, Log: zapLogger}
	router := http.NewRouter(http.Handlers{
		Auth:         &http.AuthHandler{Pages: pages, Service: planner},
		Dashboard:    &http.DashboardHandler{Pages: pages, Service: planner},
		Transactions: &http.TransactionHandler{Pages: pages, Service: planner},
		Goals:        &http.GoalHandler{Pages: pages, Service: planner},
	}, view.Static(), zapLogger)

	server := &nethttp.Server{
		Addr:              options.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	zapLogger.Info("starting server",
		zap.String("addr", options.Port),
		zap.String("store", backendName(options.StoreDSN, backend)),
		zap.String("currency", money.Code()),
		zap.Bool("tls", options.TLSCert != ""),
	)
	listen := server.ListenAndServe
	if options.TLSCert != "" {
		listen = func() error { return server.ListenAndServeTLS(options.TLSCert, options.TLSKey) }
	}
	if err := serve(ctx, server, listen, shutdownTimeout, zapLogger); err != nil {
		zapLogger.Fatal("failed to start server", zap.Error(err))
	}
	zapLogger.Info("server stopped")
}

// serve runs listen until it fails or ctx is done. On cancellation it shuts
// srv down and returns only once in-flight requests have drained, so the
// store can be closed safely afterwards.
func serve(ctx context.Context, srv *nethttp.Server, listen func() error, timeout time.Duration, log *zap.Logger) error {
	shutdownDone := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		select {
		case <-ctx.Done():
		case <-stopped:
			return
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", zap.Error(err))
		}
	}()

	err := listen()
	if !errors.Is(err, nethttp.ErrServerClosed) {
		close(stopped)
		<-shutdownDone
		return err
	}
	<-shutdownDone
	return nil
}

// backendName names the store for the startup log without leaking
// credentials from a Postgres DSN.
func backendName(dsn string, b *store.Backend) string {
	if b.DB != nil {
		return b.Dialect.String()
	}
	return dsn
}
