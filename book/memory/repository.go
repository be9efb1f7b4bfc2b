package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/marcelsud/book-catalog/book"
)

/* In-memory implementation of book.Repository.
 * Used for local development (STORE_DRIVER=memory) and HTTP tests.
 * Identifiers come from a counter that is never rewound, not even by DeleteAll.
 */

type Repository struct {
	mu     sync.RWMutex
	books  map[int64]book.Book
	lastID int64
}

func NewRepository() *Repository {
	return &Repository{
		books: make(map[int64]book.Book),
	}
}

func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]book.Book, 0, len(r.books))
	for _, b := range r.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (book.Book, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.books[id]
	return b, ok, nil
}

func (r *Repository) Save(ctx context.Context, b book.Book) (book.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b.IsNew() {
		r.lastID++
		b.ID = r.lastID
		r.books[b.ID] = b
		return b, nil
	}
	if _, ok := r.books[b.ID]; !ok {
		return book.Book{}, book.ErrNotFound
	}
	r.books[b.ID] = b
	return b, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.books[id]; !ok {
		return book.ErrNotFound
	}
	delete(r.books, id)
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books = make(map[int64]book.Book)
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	return nil
}
