package sqlite

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcelsud/book-catalog/book"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

/* Embedded SQLite implementation of book.Repository on top of gorm.
 * This is the default store: no server to run, one file on disk.
 */

// bookRecord is the gorm model for the books table
type bookRecord struct {
	ID       int64 `gorm:"primaryKey;autoIncrement"`
	Title    string
	Author   string
	Category string
}

func (bookRecord) TableName() string {
	return "books"
}

func (r bookRecord) toBook() book.Book {
	return book.Book{
		ID:       r.ID,
		Title:    r.Title,
		Author:   r.Author,
		Category: r.Category,
	}
}

type Repository struct {
	DB *gorm.DB
}

// NewRepository opens (or creates) the database file at path and migrates the books table
func NewRepository(path string) (*Repository, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	repo := &Repository{DB: db}
	if err := repo.Migrate(context.Background()); err != nil {
		repo.Close(context.Background())
		return nil, err
	}
	return repo, nil
}

// Migrate creates the books table when it does not exist yet.
// The DDL is written by hand because gorm does not emit AUTOINCREMENT, and without it
// SQLite may hand out the identifier of a deleted row again.
func (r *Repository) Migrate(ctx context.Context) error {
	err := r.DB.WithContext(ctx).Exec(`CREATE TABLE IF NOT EXISTS books (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL DEFAULT '',
		author TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT ''
	)`).Error
	if err != nil {
		return fmt.Errorf("creating books table: %w", err)
	}
	return nil
}

func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	var records []bookRecord
	if err := r.DB.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}

	books := make([]book.Book, 0, len(records))
	for _, rec := range records {
		books = append(books, rec.toBook())
	}
	return books, nil
}

func (r *Repository) FindByID(ctx context.Context, id int64) (book.Book, bool, error) {
	var rec bookRecord
	err := r.DB.WithContext(ctx).First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return book.Book{}, false, nil
	}
	if err != nil {
		return book.Book{}, false, fmt.Errorf("selecting book: %w", err)
	}
	return rec.toBook(), true, nil
}

func (r *Repository) Save(ctx context.Context, b book.Book) (book.Book, error) {
	if b.IsNew() {
		rec := bookRecord{Title: b.Title, Author: b.Author, Category: b.Category}
		if err := r.DB.WithContext(ctx).Create(&rec).Error; err != nil {
			return book.Book{}, fmt.Errorf("inserting book: %w", err)
		}
		return rec.toBook(), nil
	}

	// a map so that empty strings are written too
	result := r.DB.WithContext(ctx).Model(&bookRecord{}).Where("id = ?", b.ID).Updates(map[string]any{
		"title":    b.Title,
		"author":   b.Author,
		"category": b.Category,
	})
	if result.Error != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	result := r.DB.WithContext(ctx).Delete(&bookRecord{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting book: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return book.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteAll(ctx context.Context) error {
	err := r.DB.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&bookRecord{}).Error
	if err != nil {
		return fmt.Errorf("deleting books: %w", err)
	}
	return nil
}

func (r *Repository) Close(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("getting sql handle: %w", err)
	}
	return sqlDB.Close()
}
