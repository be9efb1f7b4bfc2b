// Package booktest holds the behavior every book.Repository must share.
// Store packages call RunRepository from their own tests.
package booktest

import (
	"context"
	"testing"

	"github.com/marcelsud/book-catalog/book"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Store is what the contract needs: the public repository plus the test-only truncation
type Store interface {
	book.Repository
	book.Truncater
}

// RunRepository runs the shared store behavior against a fresh store per subtest.
// newStore must return an empty store; the contract calls DeleteAll before each case anyway.
func RunRepository(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	setup := func(t *testing.T) (context.Context, Store) {
		t.Helper()
		ctx := context.Background()
		s := newStore(t)
		require.NoError(t, s.DeleteAll(ctx))
		return ctx, s
	}

	t.Run("save assigns a fresh id", func(t *testing.T) {
		ctx, s := setup(t)

		first, err := s.Save(ctx, book.Book{Title: "Dune", Author: "Frank Herbert", Category: "scifi"})
		require.NoError(t, err)
		assert.NotZero(t, first.ID)

		second, err := s.Save(ctx, book.Book{Title: "Emma", Author: "Jane Austen", Category: "classic"})
		require.NoError(t, err)
		assert.NotZero(t, second.ID)
		assert.NotEqual(t, first.ID, second.ID)

		found, ok, err := s.FindByID(ctx, first.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, first, found)
	})

	t.Run("save with id overwrites", func(t *testing.T) {
		ctx, s := setup(t)

		saved, err := s.Save(ctx, book.Book{Title: "Foundation", Author: "Isaac Asimov", Category: "scifi"})
		require.NoError(t, err)

		changed := book.Book{ID: saved.ID, Title: "The Foundation", Author: "I. Asimov", Category: ""}
		got, err := s.Save(ctx, changed)
		require.NoError(t, err)
		assert.Equal(t, changed, got)

		found, ok, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, changed, found)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("save with unknown id", func(t *testing.T) {
		ctx, s := setup(t)

		_, err := s.Save(ctx, book.Book{ID: 424242, Title: "Ghost"})
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("find missing is absent", func(t *testing.T) {
		ctx, s := setup(t)

		b, ok, err := s.FindByID(ctx, 424242)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, b)
	})

	t.Run("find all", func(t *testing.T) {
		ctx, s := setup(t)

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		r1, err := s.Save(ctx, book.Book{Title: "Book 1", Author: "Author 1", Category: "a"})
		require.NoError(t, err)
		r2, err := s.Save(ctx, book.Book{Title: "Book 2", Author: "Author 2", Category: "b"})
		require.NoError(t, err)

		all, err = s.FindAll(ctx)
		require.NoError(t, err)
		assert.ElementsMatch(t, []book.Book{r1, r2}, all)
	})

	t.Run("delete", func(t *testing.T) {
		ctx, s := setup(t)

		saved, err := s.Save(ctx, book.Book{Title: "1984", Author: "George Orwell", Category: "dystopia"})
		require.NoError(t, err)

		require.NoError(t, s.DeleteByID(ctx, saved.ID))

		_, ok, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		err = s.DeleteByID(ctx, saved.ID)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})

	t.Run("ids are not reused", func(t *testing.T) {
		ctx, s := setup(t)

		first, err := s.Save(ctx, book.Book{Title: "One"})
		require.NoError(t, err)
		require.NoError(t, s.DeleteByID(ctx, first.ID))

		second, err := s.Save(ctx, book.Book{Title: "Two"})
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("delete all", func(t *testing.T) {
		ctx, s := setup(t)

		_, err := s.Save(ctx, book.Book{Title: "One"})
		require.NoError(t, err)
		_, err = s.Save(ctx, book.Book{Title: "Two"})
		require.NoError(t, err)

		require.NoError(t, s.DeleteAll(ctx))

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})
}
