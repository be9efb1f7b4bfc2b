package seed

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/book-catalog/book"
	"gopkg.in/yaml.v3"
)

/* Loader reads book fixtures from a YAML file such as books.yaml:
 *
 *   books:
 *     - title: Dune
 *       author: Frank Herbert
 *       category: scifi
 */

// File represents the structure of a fixture file
type File struct {
	Books []Entry `yaml:"books"`
}

// Loader holds the loaded entries in file order
type Loader struct {
	entries []Entry
}

func NewLoader() *Loader {
	return &Loader{}
}

// Load reads, parses and validates the fixture file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading seed file: %w", err)
	}
	return l.Parse(data)
}

// Parse validates every entry before keeping any of them
func (l *Loader) Parse(data []byte) error {
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing seed YAML: %w", err)
	}

	for i, e := range file.Books {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("validating entry %d: %w", i+1, err)
		}
	}

	l.entries = append(l.entries, file.Books...)
	return nil
}

// List returns all loaded entries
func (l *Loader) List() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Apply saves every loaded entry as a new book, stopping at the first failure
func (l *Loader) Apply(ctx context.Context, service book.UseCase) ([]book.Book, error) {
	saved := make([]book.Book, 0, len(l.entries))
	for _, e := range l.entries {
		b, err := service.Save(ctx, e.Book())
		if err != nil {
			return saved, fmt.Errorf("seeding %q: %w", e.Title, err)
		}
		saved = append(saved, b)
	}
	return saved, nil
}
