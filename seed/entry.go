package seed

import (
	"fmt"
	"strings"

	"github.com/marcelsud/book-catalog/book"
)

/* Entry is one book of a fixture file.
 * Fixtures never carry identifiers: every entry is inserted as a new book.
 */
type Entry struct {
	Title    string `yaml:"title"`
	Author   string `yaml:"author"`
	Category string `yaml:"category"`
}

// Validate checks if the entry can be loaded
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("title cannot be empty (author %q)", e.Author)
	}
	return nil
}

func (e Entry) Book() book.Book {
	return book.Book{
		Title:    e.Title,
		Author:   e.Author,
		Category: e.Category,
	}
}
