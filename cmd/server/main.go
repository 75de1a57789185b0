package main

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

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/config"
	"github.com/mmynk/splitledger/internal/events"
	"github.com/mmynk/splitledger/internal/events/kafka"
	"github.com/mmynk/splitledger/internal/ledger"
	"github.com/mmynk/splitledger/internal/metrics"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/service"
	"github.com/mmynk/splitledger/internal/storage"
	"github.com/mmynk/splitledger/internal/storage/memory"
	"github.com/mmynk/splitledger/internal/storage/sqlite"
	"github.com/mmynk/splitledger/pkg/logging"
)

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func main() {
	cfg, err := config.Load(getEnv("CONFIG_PATH", ""))
	if err != nil {
		logging.Setup()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.SetupWithLevel(logging.ParseLevel(cfg.Log.Level))

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	store, err := openStore(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", cfg.Storage.Driver, "name", cfg.Storage.Name)

	l, err := ledger.New(cfg.Roster(), store)
	if err != nil {
		return fmt.Errorf("failed to create ledger: %w", err)
	}
	slog.Info("Ledger ready", "participants", cfg.Ledger.Participants)

	sessions, err := auth.NewSessionManager(cfg.Access.SigningKey, cfg.Access.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to create session manager: %w", err)
	}
	gate, err := openGate(cfg.Access, sessions)
	if err != nil {
		return fmt.Errorf("failed to create access gate: %w", err)
	}
	slog.Info("Access gate configured", "enabled", gate.Enabled())

	var publisher events.Publisher = events.Nop{}
	if len(cfg.Events.Brokers) > 0 {
		publisher = kafka.NewPublisher(cfg.Events.Brokers, cfg.Events.Topic)
		slog.Info("Publishing expense events", "brokers", cfg.Events.Brokers, "topic", cfg.Events.Topic)
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	mux := http.NewServeMux()

	interceptors := connect.WithInterceptors(
		middleware.MetricsInterceptor(m),
		middleware.RequireSession(gate, sessions),
		middleware.LoggingInterceptor(),
	)

	ledgerSvc := service.NewLedgerService(l, publisher, m, cfg.Attachments.SinglePerDraft)
	ledgerPath, ledgerHandler := service.NewLedgerServiceHandler(ledgerSvc, interceptors)
	mux.Handle(ledgerPath, ledgerHandler)

	accessPath, accessHandler := service.NewAccessServiceHandler(
		service.NewAccessService(gate),
		connect.WithInterceptors(middleware.MetricsInterceptor(m), middleware.LoggingInterceptor()),
	)
	mux.Handle(accessPath, accessHandler)

	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return sqlite.New(cfg.Name)
	default:
		return memory.New(), nil
	}
}

func openGate(cfg config.AccessConfig, sessions *auth.SessionManager) (auth.Gate, error) {
	hash := cfg.SecretHash
	if cfg.Secret != "" {
		var err error
		hash, err = auth.HashSecret(cfg.Secret)
		if err != nil {
			return nil, err
		}
	}
	if hash == "" {
		return auth.NewOpenGate(sessions), nil
	}
	return auth.NewSecretGate(hash, sessions)
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Debug("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, Validation-Error")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
