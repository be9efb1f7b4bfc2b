package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/book/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingReader struct{}

func (failingReader) FindAll(ctx context.Context) ([]book.Book, error) {
	return nil, errors.New("connection refused")
}

func (failingReader) FindByID(ctx context.Context, id int64) (book.Book, bool, error) {
	return book.Book{}, false, errors.New("connection refused")
}

func seededStore(t *testing.T) *memory.Repository {
	t.Helper()
	repo := memory.NewRepository()
	ctx := context.Background()
	for _, b := range []book.Book{
		{Title: "Dune", Author: "Frank Herbert", Category: "scifi"},
		{Title: "Hyperion", Author: "Dan Simmons", Category: "scifi"},
		{Title: "Emma", Author: "Jane Austen", Category: "classic"},
		{Title: "Notes", Author: "Nobody"},
	} {
		_, err := repo.Save(ctx, b)
		require.NoError(t, err)
	}
	return repo
}

func TestStoreCollector(t *testing.T) {
	t.Run("collects counts", func(t *testing.T) {
		c := NewStoreCollector(seededStore(t))

		m, err := c.Collect(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(4), m.Books)
		assert.Equal(t, map[string]int64{
			"scifi":       2,
			"classic":     1,
			Uncategorized: 1,
		}, m.Categories)
		assert.False(t, m.Timestamp.IsZero())
	})

	t.Run("empty store", func(t *testing.T) {
		c := NewStoreCollector(memory.NewRepository())

		count, err := c.GetBookCount(context.Background())
		require.NoError(t, err)
		assert.Zero(t, count)

		counts, err := c.GetCategoryCounts(context.Background())
		require.NoError(t, err)
		assert.Empty(t, counts)
	})

	t.Run("store failure", func(t *testing.T) {
		c := NewStoreCollector(failingReader{})

		_, err := c.Collect(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing books")

		_, err = c.GetBookCount(context.Background())
		require.Error(t, err)

		_, err = c.GetCategoryCounts(context.Background())
		require.Error(t, err)
	})
}

func TestOTelExporter(t *testing.T) {
	t.Run("serves catalog gauges", func(t *testing.T) {
		oe, err := NewOTelExporter(NewStoreCollector(seededStore(t)))
		require.NoError(t, err)
		t.Cleanup(func() { oe.Shutdown(context.Background()) })

		w := httptest.NewRecorder()
		oe.ServeHTTP().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Regexp(t, regexp.MustCompile(`catalog_books\{[^}]*\} 4`), body)
		assert.Regexp(t, regexp.MustCompile(`catalog_books_by_category\{[^}]*category="scifi"[^}]*\} 2`), body)
		assert.Contains(t, body, "service_instance_id")
	})

	t.Run("two exporters do not collide", func(t *testing.T) {
		first, err := NewOTelExporter(NewStoreCollector(memory.NewRepository()))
		require.NoError(t, err)
		defer first.Shutdown(context.Background())

		second, err := NewOTelExporter(NewStoreCollector(memory.NewRepository()))
		require.NoError(t, err)
		defer second.Shutdown(context.Background())
	})

	t.Run("shutdown", func(t *testing.T) {
		oe, err := NewOTelExporter(NewStoreCollector(memory.NewRepository()))
		require.NoError(t, err)
		assert.NoError(t, oe.Shutdown(context.Background()))
	})
}
