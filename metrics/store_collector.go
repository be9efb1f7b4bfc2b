package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/marcelsud/book-catalog/book"
)

// StoreCollector implements the Collector interface by reading the book store
type StoreCollector struct {
	reader book.Reader
}

func NewStoreCollector(reader book.Reader) *StoreCollector {
	return &StoreCollector{reader: reader}
}

// Collect reads the store once and derives every metric from that snapshot
func (c *StoreCollector) Collect(ctx context.Context) (Metrics, error) {
	all, err := c.reader.FindAll(ctx)
	if err != nil {
		return Metrics{}, fmt.Errorf("listing books: %w", err)
	}
	return Metrics{
		Books:      int64(len(all)),
		Categories: countCategories(all),
		Timestamp:  time.Now(),
	}, nil
}

func (c *StoreCollector) GetBookCount(ctx context.Context) (int64, error) {
	all, err := c.reader.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing books: %w", err)
	}
	return int64(len(all)), nil
}

func (c *StoreCollector) GetCategoryCounts(ctx context.Context) (map[string]int64, error) {
	all, err := c.reader.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return countCategories(all), nil
}

func countCategories(all []book.Book) map[string]int64 {
	counts := make(map[string]int64)
	for _, b := range all {
		category := b.Category
		if category == "" {
			category = Uncategorized
		}
		counts[category]++
	}
	return counts
}
