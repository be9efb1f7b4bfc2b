package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/marcelsud/book-catalog/book"
)

/*
PostgreSQL implementation of book.Repository.

- placeholders are $1, $2 instead of ?
- BIGSERIAL gives the identifiers, TRUNCATE does not restart them
- sqlx scans rows straight into bookRow
*/

const (
	queryCreateTable = `CREATE TABLE IF NOT EXISTS books (id BIGSERIAL PRIMARY KEY, title TEXT NOT NULL DEFAULT '', author TEXT NOT NULL DEFAULT '', category TEXT NOT NULL DEFAULT '')`
	queryDropTable   = `DROP TABLE IF EXISTS books CASCADE`
	querySelectAll   = `SELECT id, title, author, category FROM books ORDER BY id`
	querySelectByID  = `SELECT id, title, author, category FROM books WHERE id = $1`
	queryInsert      = `INSERT INTO books (title, author, category) VALUES ($1, $2, $3) RETURNING id`
	queryUpdate      = `UPDATE books SET title = $1, author = $2, category = $3 WHERE id = $4`
	queryDelete      = `DELETE FROM books WHERE id = $1`
	queryTruncate    = `TRUNCATE TABLE books`
)

type Repository struct {
	DB *sqlx.DB
}

// bookRow is the storage representation of book.Book
type bookRow struct {
	ID       int64  `db:"id"`
	Title    string `db:"title"`
	Author   string `db:"author"`
	Category string `db:"category"`
}

func (r bookRow) toBook() book.Book {
	return book.Book{
		ID:       r.ID,
		Title:    r.Title,
		Author:   r.Author,
		Category: r.Category,
	}
}

// NewRepository opens a repository with the default pool (25, 5, 5 min)
func NewRepository(connectionString string) (*Repository, error) {
	return NewRepositoryWithPoolConfig(connectionString, 25, 5, 5)
}

// NewRepositoryWithPoolConfig opens a repository with a custom pool.
// maxOpenConns: max simultaneous connections (0 = unlimited)
// maxIdleConns: max idle connections kept in the pool
// maxLifeMinutes: how long a connection may be reused
func NewRepositoryWithPoolConfig(connectionString string, maxOpenConns, maxIdleConns, maxLifeMinutes int) (*Repository, error) {
	db, err := sqlx.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}

	if maxOpenConns > 0 {
		db.SetMaxOpenConns(maxOpenConns)
	}
	if maxIdleConns > 0 {
		db.SetMaxIdleConns(maxIdleConns)
	}
	if maxLifeMinutes > 0 {
		db.SetConnMaxLifetime(time.Duration(maxLifeMinutes) * time.Minute)
	}

	return &Repository{
		DB: db,
	}, nil
}

// FindAll returns every book ordered by id
func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	var rows []bookRow
	if err := r.DB.SelectContext(ctx, &rows, querySelectAll); err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}

	books := make([]book.Book, 0, len(rows))
	for _, row := range rows {
		books = append(books, row.toBook())
	}
	return books, nil
}

// FindByID looks a book up by id
func (r *Repository) FindByID(ctx context.Context, id int64) (book.Book, bool, error) {
	var row bookRow
	err := r.DB.GetContext(ctx, &row, querySelectByID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return book.Book{}, false, nil
	}
	if err != nil {
		return book.Book{}, false, fmt.Errorf("selecting book: %w", err)
	}
	return row.toBook(), true, nil
}

// Save inserts a new book or overwrites an existing one
func (r *Repository) Save(ctx context.Context, b book.Book) (book.Book, error) {
	if b.IsNew() {
		var id int64
		err := r.DB.QueryRowxContext(ctx, queryInsert, b.Title, b.Author, b.Category).Scan(&id)
		if err != nil {
			return book.Book{}, fmt.Errorf("inserting book: %w", err)
		}
		b.ID = id
		return b, nil
	}

	result, err := r.DB.ExecContext(ctx, queryUpdate, b.Title, b.Author, b.Category, b.ID)
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return book.Book{}, fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return book.Book{}, book.ErrNotFound
	}

	return b, nil
}

// DeleteByID removes a book by id
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.DB.ExecContext(ctx, queryDelete, id)
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rows == 0 {
		return book.ErrNotFound
	}

	return nil
}

// DeleteAll empties the table and keeps the sequence
func (r *Repository) DeleteAll(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, queryTruncate); err != nil {
		return fmt.Errorf("truncating books: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (r *Repository) Close(ctx context.Context) error {
	if r.DB != nil {
		return r.DB.Close()
	}
	return nil
}

// CreateTable creates the books table
func (r *Repository) CreateTable(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, queryCreateTable); err != nil {
		return fmt.Errorf("creating table: %w", err)
	}
	return nil
}

// DropTable drops the books table (tests only)
func (r *Repository) DropTable(ctx context.Context) error {
	if _, err := r.DB.ExecContext(ctx, queryDropTable); err != nil {
		return fmt.Errorf("dropping table: %w", err)
	}
	return nil
}
