package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	assignmenthandler "territory/internal/assignment/handler"
	assignmentservice "territory/internal/assignment/service"
	assignmentstore "territory/internal/assignment/store"
	"territory/internal/audit"
	"territory/internal/auth"
	"territory/internal/auth/directory"
	authhandler "territory/internal/auth/handler"
	"territory/internal/lookup"
	"territory/internal/platform/config"
	"territory/internal/platform/httpserver"
	"territory/internal/platform/logger"
	"territory/internal/platform/metrics"
	"territory/internal/platform/middleware"
	"territory/internal/platform/postgres"
	"territory/internal/platform/redis"
	rephandler "territory/internal/rep/handler"
	repservice "territory/internal/rep/service"
	repstore "territory/internal/rep/store"
)

// main wires dependencies and owns the server lifecycle. Business logic lives
// in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err = postgres.EnsureSchema(ctx, db)
	cancel()
	if err != nil {
		return err
	}

	cache, err := redis.New(cfg.RedisURL)
	if err != nil {
		return err
	}
	if cache != nil {
		defer cache.Close()
		log.Info("redis connected", "url", cfg.RedisURL)
	}

	m := metrics.New()

	reps := repstore.NewPostgres(db)
	assignments := assignmentstore.NewPostgres(db)
	auditStore := audit.NewPostgresStore(db)
	recorder := audit.NewRecorder(auditStore, log)

	sessions := auth.NewManager(cfg.SessionSecret, cfg.SessionTTL)
	dir := directory.NewClient(cfg.DirectoryURL, cfg.DirectoryToken, cache, log)
	requireSession := middleware.RequireSession(sessions, log)

	repSvc := repservice.New(reps, recorder, m, log)
	assignmentSvc := assignmentservice.New(assignments, reps, recorder, m, log)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Latency(m))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	authhandler.New(dir, sessions, cfg.CookieSecure, log, requireSession).Register(r)
	rephandler.New(repSvc, log, requireSession).Register(r)
	assignmenthandler.New(assignmentSvc, log, requireSession).Register(r)
	lookup.New(assignmentSvc, log).Register(r)
	audit.NewHandler(auditStore, log, requireSession).Register(r)

	srv := httpserver.New(cfg.Addr, r)

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		log.Info("starting territory server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
