package chi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/internal/view"
	"github.com/rs/zerolog"
)

// Options carries what the router needs besides the book service
type Options struct {
	Renderer view.Renderer
	// Logger defaults to a JSON httplog logger named "book-catalog"
	Logger *zerolog.Logger
	// NotFoundAs404 turns ErrNotFound on edit and delete into 404 instead of 500
	NotFoundAs404 bool
	// Metrics is served on GET /metrics when set
	Metrics http.Handler
}

func Handlers(ctx context.Context, bookService book.UseCase, opts Options) *chi.Mux {
	logger := httplog.NewLogger("book-catalog", httplog.Options{
		JSON: true,
	})
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	c := NewBookController(bookService, opts.Renderer, opts.NotFoundAs404)

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	r.Method(http.MethodGet, "/", c.home())
	r.Method(http.MethodGet, "/books", c.listBooks())
	r.Method(http.MethodGet, "/books/new", c.newBook())
	r.Method(http.MethodPost, "/books/new", c.saveBook())
	r.Method(http.MethodGet, "/books/edit/{id}", c.editBook())
	r.Method(http.MethodGet, "/books/delete/{id}", c.deleteBook())

	return r
}
