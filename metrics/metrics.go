package metrics

import (
	"context"
	"time"
)

// Metrics represents the current state of the catalog.
type Metrics struct {
	// Books is the total number of stored books
	Books int64 `json:"books"`

	// Categories maps category name to the number of books in it
	Categories map[string]int64 `json:"categories"`

	// Timestamp when metrics were collected
	Timestamp time.Time `json:"timestamp"`
}

// Uncategorized labels books saved with an empty category.
const Uncategorized = "uncategorized"

// Collector defines the interface for collecting catalog metrics.
type Collector interface {
	// Collect gathers current metrics from the store
	Collect(ctx context.Context) (Metrics, error)

	// GetBookCount returns the number of stored books
	GetBookCount(ctx context.Context) (int64, error)

	// GetCategoryCounts returns the count of books by category
	GetCategoryCounts(ctx context.Context) (map[string]int64, error)
}
