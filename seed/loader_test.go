package seed_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/book/memory"
	"github.com/marcelsud/book-catalog/book/mocks"
	"github.com/marcelsud/book-catalog/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "books.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoader_Load(t *testing.T) {
	t.Run("success - valid seed file", func(t *testing.T) {
		path := writeSeedFile(t, `
books:
  - title: "Dune"
    author: "Frank Herbert"
    category: "scifi"
  - title: "Emma"
    author: "Jane Austen"
`)
		loader := seed.NewLoader()
		err := loader.Load(path)

		require.NoError(t, err)
		entries := loader.List()
		require.Len(t, entries, 2)
		assert.Equal(t, seed.Entry{Title: "Dune", Author: "Frank Herbert", Category: "scifi"}, entries[0])
		assert.Equal(t, "Emma", entries[1].Title)
		assert.Empty(t, entries[1].Category)
	})

	t.Run("error - file not found", func(t *testing.T) {
		loader := seed.NewLoader()
		err := loader.Load("nonexistent.yaml")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading seed file")
	})

	t.Run("error - invalid YAML", func(t *testing.T) {
		loader := seed.NewLoader()
		err := loader.Load(writeSeedFile(t, `invalid yaml content: [[[`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing seed YAML")
	})

	t.Run("error - entry without title", func(t *testing.T) {
		loader := seed.NewLoader()
		err := loader.Load(writeSeedFile(t, `
books:
  - title: "Dune"
  - author: "Anonymous"
`))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "validating entry 2")
		assert.Empty(t, loader.List())
	})

	t.Run("empty file", func(t *testing.T) {
		loader := seed.NewLoader()
		err := loader.Load(writeSeedFile(t, ``))

		require.NoError(t, err)
		assert.Empty(t, loader.List())
	})
}

func TestLoader_Apply(t *testing.T) {
	t.Run("saves entries in order", func(t *testing.T) {
		loader := seed.NewLoader()
		require.NoError(t, loader.Parse([]byte(`
books:
  - title: "Dune"
    author: "Frank Herbert"
  - title: "Emma"
    author: "Jane Austen"
`)))
		repo := memory.NewRepository()

		saved, err := loader.Apply(context.Background(), book.NewService(repo))

		require.NoError(t, err)
		require.Len(t, saved, 2)
		assert.Equal(t, int64(1), saved[0].ID)
		assert.Equal(t, int64(2), saved[1].ID)
		all, err := repo.FindAll(context.Background())
		require.NoError(t, err)
		assert.Equal(t, saved, all)
	})

	t.Run("stops at the first failure", func(t *testing.T) {
		loader := seed.NewLoader()
		require.NoError(t, loader.Parse([]byte(`
books:
  - title: "Dune"
  - title: "Emma"
`)))
		s := mocks.NewUseCase(t)
		s.On("Save", mock.Anything, book.Book{Title: "Dune"}).Return(book.Book{ID: 1, Title: "Dune"}, nil)
		s.On("Save", mock.Anything, book.Book{Title: "Emma"}).Return(book.Book{}, errors.New("disk full"))

		saved, err := loader.Apply(context.Background(), s)

		require.Error(t, err)
		assert.Contains(t, err.Error(), `seeding "Emma"`)
		assert.Len(t, saved, 1)
	})
}
