package chi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog"
	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/internal/view"
)

/*
* BookController maps the catalog routes to the book service.
* It only chooses a view and its data, the Renderer writes the HTML.
 */
type BookController struct {
	service       book.UseCase
	renderer      view.Renderer
	notFoundAs404 bool
}

func NewBookController(service book.UseCase, renderer view.Renderer, notFoundAs404 bool) *BookController {
	return &BookController{
		service:       service,
		renderer:      renderer,
		notFoundAs404: notFoundAs404,
	}
}

func (c *BookController) home() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.render(w, r, view.New(view.Home, "title", "Book catalog"))
	})
}

func (c *BookController) listBooks() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		all, err := c.service.List(r.Context())
		if err != nil {
			c.fail(w, r, err)
			return
		}
		c.render(w, r, view.New(view.BookList, "title", "Book list", "books", all))
	})
}

func (c *BookController) newBook() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.render(w, r, view.New(view.BookEdit, "title", "Create new book", "book", book.Book{}))
	})
}

// saveBook handles both forms: without id it creates, with id it overwrites
func (c *BookController) saveBook() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var id int64
		if raw := r.PostForm.Get("id"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				http.Error(w, fmt.Sprintf("invalid id %q", raw), http.StatusBadRequest)
				return
			}
			id = parsed
		}
		b := book.Book{
			ID:       id,
			Title:    r.PostForm.Get("title"),
			Author:   r.PostForm.Get("author"),
			Category: r.PostForm.Get("category"),
		}
		if _, err := c.service.Save(r.Context(), b); err != nil {
			c.fail(w, r, err)
			return
		}
		http.Redirect(w, r, "/books", http.StatusFound)
	})
}

func (c *BookController) editBook() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		b, err := c.service.Get(r.Context(), id)
		if err != nil {
			c.fail(w, r, err)
			return
		}
		c.render(w, r, view.New(view.BookEdit, "title", "Edit book", "book", b))
	})
}

func (c *BookController) deleteBook() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := bookID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if err := c.service.Delete(r.Context(), id); err != nil {
			c.fail(w, r, err)
			return
		}
		http.Redirect(w, r, "/books", http.StatusFound)
	})
}

func bookID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

func (c *BookController) render(w http.ResponseWriter, r *http.Request, v view.View) {
	if err := c.renderer.Render(w, http.StatusOK, v); err != nil {
		c.fail(w, r, err)
	}
}

// fail answers 500 for every error, unless not-found hardening is on
func (c *BookController) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if c.notFoundAs404 && errors.Is(err, book.ErrNotFound) {
		status = http.StatusNotFound
	}
	oplog := httplog.LogEntry(r.Context())
	oplog.Error().Err(err).Int("status", status).Msg("request failed")
	http.Error(w, err.Error(), status)
}
