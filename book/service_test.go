package book_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/marcelsud/book-catalog/book"
	"github.com/marcelsud/book-catalog/book/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	ctx := context.Background()
	t.Run("new book gets an id", func(t *testing.T) {
		b := book.Book{
			Title:    "Dune",
			Author:   "Frank Herbert",
			Category: "scifi",
		}
		repo := mocks.NewRepository(t)
		saved := b
		saved.ID = 1
		repo.On("Save", ctx, b).Return(saved, nil)
		s := book.NewService(repo)
		got, err := s.Save(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, int64(1), got.ID)
		assert.Equal(t, "Dune", got.Title)
		assert.Equal(t, "Frank Herbert", got.Author)
		assert.Equal(t, "scifi", got.Category)
	})
	t.Run("existing book keeps its id", func(t *testing.T) {
		b := book.Book{ID: 7, Title: "Dune Messiah", Author: "Frank Herbert", Category: "scifi"}
		repo := mocks.NewRepository(t)
		repo.On("Save", ctx, b).Return(b, nil)
		s := book.NewService(repo)
		got, err := s.Save(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})
	t.Run("fail", func(t *testing.T) {
		b := book.Book{Title: "Dune"}
		repo := mocks.NewRepository(t)
		repo.On("Save", ctx, b).Return(book.Book{}, fmt.Errorf("some error"))
		s := book.NewService(repo)
		got, err := s.Save(ctx, b)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "inserting book")
		assert.Empty(t, got)
	})
	t.Run("update of missing book", func(t *testing.T) {
		b := book.Book{ID: 42, Title: "Ghost"}
		repo := mocks.NewRepository(t)
		repo.On("Save", ctx, b).Return(book.Book{}, book.ErrNotFound)
		s := book.NewService(repo)
		_, err := s.Save(ctx, b)
		assert.True(t, errors.Is(err, book.ErrNotFound))
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	t.Run("found", func(t *testing.T) {
		b := book.Book{ID: 3, Title: "Foundation", Author: "Isaac Asimov", Category: "scifi"}
		repo := mocks.NewRepository(t)
		repo.On("FindByID", ctx, int64(3)).Return(b, true, nil)
		s := book.NewService(repo)
		got, err := s.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, b, got)
	})
	t.Run("absent is not found", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("FindByID", ctx, int64(99)).Return(book.Book{}, false, nil)
		s := book.NewService(repo)
		_, err := s.Get(ctx, 99)
		require.Error(t, err)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})
	t.Run("store failure", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("FindByID", ctx, int64(1)).Return(book.Book{}, false, fmt.Errorf("connection refused"))
		s := book.NewService(repo)
		_, err := s.Get(ctx, 1)
		require.Error(t, err)
		assert.NotErrorIs(t, err, book.ErrNotFound)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	all := []book.Book{
		{ID: 1, Title: "Title 1", Author: "Author 1", Category: "fantasy"},
		{ID: 2, Title: "Title 2", Author: "Author 2", Category: "essay"},
	}
	repo := mocks.NewRepository(t)
	repo.On("FindAll", ctx).Return(all, nil)
	s := book.NewService(repo)
	got, err := s.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, all, got)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("DeleteByID", ctx, int64(5)).Return(nil)
		s := book.NewService(repo)
		assert.NoError(t, s.Delete(ctx, 5))
	})
	t.Run("missing", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("DeleteByID", ctx, int64(5)).Return(book.ErrNotFound)
		s := book.NewService(repo)
		err := s.Delete(ctx, 5)
		assert.ErrorIs(t, err, book.ErrNotFound)
	})
}
