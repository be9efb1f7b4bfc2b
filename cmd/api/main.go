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

	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/config"
	"github.com/marcelsud/book-catalog/internal/http/chi"
	"github.com/marcelsud/book-catalog/internal/storage"
	"github.com/marcelsud/book-catalog/internal/view"
	"github.com/marcelsud/book-catalog/metrics"
	"github.com/marcelsud/book-catalog/seed"
	"github.com/rs/zerolog"
)

/*
 * main wires the packages together: config, store, service, views, metrics, router.
 * Imports only go downwards: the binary imports the business layer, which imports storage.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger := httplog.NewLogger("book-catalog", httplog.Options{
		JSON: cfg.LogJSON,
	})
	if err := run(cfg, logger); err != nil {
		logger.Error().Err(err).Msg("api stopped")
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(context.Background())
	logger.Info().Str("driver", cfg.StoreDriver).Msg("store opened")

	s := book.NewService(repo)

	if cfg.SeedFile != "" {
		if err := seedEmptyStore(ctx, cfg.SeedFile, s, logger); err != nil {
			return err
		}
	}

	renderer, err := view.NewTemplateRenderer()
	if err != nil {
		return err
	}

	opts := chi.Options{
		Renderer:      renderer,
		Logger:        &logger,
		NotFoundAs404: cfg.NotFoundAs404,
	}
	if cfg.MetricsEnabled {
		exporter, err := metrics.NewOTelExporter(metrics.NewStoreCollector(repo))
		if err != nil {
			return err
		}
		defer exporter.Shutdown(context.Background())
		opts.Metrics = exporter.ServeHTTP()
	}

	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      chi.Handlers(ctx, s, opts),
	}

	errShutdown := make(chan error, 1)
	go shutdown(ctx, srv, cfg.GetShutdownTimeout(), errShutdown)

	logger.Info().Str("port", cfg.Port).Msg("listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	if err := <-errShutdown; err != nil {
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

// seedEmptyStore loads the fixture only into an empty catalog, so restarts do not duplicate it
func seedEmptyStore(ctx context.Context, path string, s book.UseCase, logger zerolog.Logger) error {
	loader := seed.NewLoader()
	if err := loader.Load(path); err != nil {
		return err
	}
	existing, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Info().Int("books", len(existing)).Msg("store not empty, skipping seed")
		return nil
	}
	saved, err := loader.Apply(ctx, s)
	if err != nil {
		return err
	}
	logger.Info().Int("books", len(saved)).Str("file", path).Msg("seeded catalog")
	return nil
}

func shutdown(ctx context.Context, server *http.Server, timeout time.Duration, errShutdown chan error) {
	<-ctx.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), timeout)
	defer stop()

	switch err := server.Shutdown(ctxTimeout); {
	case err == nil:
		errShutdown <- nil
	case errors.Is(err, context.DeadlineExceeded):
		errShutdown <- fmt.Errorf("forcing server close after %s", timeout)
	default:
		errShutdown <- fmt.Errorf("shutting down server: %w", err)
	}
}
