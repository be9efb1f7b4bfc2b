package book

import (
	"context"
	"fmt"
)

/*
 * Book is data, so it uses value semantics.
 * Service is an API, so it is used through a pointer.
 */

type UseCase interface {
	List(ctx context.Context) ([]Book, error)
	Get(ctx context.Context, id int64) (Book, error)
	Save(ctx context.Context, b Book) (Book, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	Repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{
		Repo: repo,
	}
}

func (s *Service) List(ctx context.Context) ([]Book, error) {
	all, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	return all, nil
}

// Get fails with ErrNotFound when the store has no book with that id
func (s *Service) Get(ctx context.Context, id int64) (Book, error) {
	b, found, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return Book{}, fmt.Errorf("selecting book: %w", err)
	}
	if !found {
		return Book{}, fmt.Errorf("selecting book %d: %w", id, ErrNotFound)
	}
	return b, nil
}

func (s *Service) Save(ctx context.Context, b Book) (Book, error) {
	saved, err := s.Repo.Save(ctx, b)
	if err != nil {
		if b.IsNew() {
			return Book{}, fmt.Errorf("inserting book: %w", err)
		}
		return Book{}, fmt.Errorf("updating book %d: %w", b.ID, err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.Repo.DeleteByID(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting book %d: %w", id, err)
	}
	return nil
}
