package book

import "context"

/* Small interfaces, composed below.
 * Interfaces abstract behavior and are written for the users of the API, not for tests.
 */

type Reader interface {
	FindAll(ctx context.Context) ([]Book, error)
	/* An absent book is a valid outcome: found is false and err is nil */
	FindByID(ctx context.Context, id int64) (b Book, found bool, err error)
}

type Writer interface {
	/* Save inserts when b.ID is zero and overwrites the stored record otherwise.
	 * The returned book always carries its identifier.
	 */
	Save(ctx context.Context, b Book) (Book, error)
	DeleteByID(ctx context.Context, id int64) error
}

type Repository interface {
	Reader
	Writer
	Close(ctx context.Context) error
}

// Truncater removes every book. Only tests and the reset command use it
type Truncater interface {
	DeleteAll(ctx context.Context) error
}
