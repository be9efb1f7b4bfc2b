package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/marcelsud/book-catalog/book"
	"github.com/redis/go-redis/v9"
)

/* Redis implementation of book.Repository
 * Each book is a hash, a sorted set scored by id keeps the listing order
 * and a counter hands out identifiers. The counter survives DeleteAll.
 */

const (
	hashPrefix = "book"      // Hash naming: book:{id}
	indexKey   = "books"     // Sorted set of ids
	seqKey     = "books:seq" // INCR counter for new ids
)

// updateScript overwrites a hash only if it still exists, so an update racing a delete cannot recreate it
var updateScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], 'title', ARGV[1], 'author', ARGV[2], 'category', ARGV[3])
return 1
`)

type Repository struct {
	client *redis.Client
}

// NewRepository creates a new Redis repository
func NewRepository(addr, password string, db int) (*Repository, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to Redis: %w", err)
	}

	return NewRepositoryWithClient(client), nil
}

// NewRepositoryWithClient wraps an existing client
func NewRepositoryWithClient(client *redis.Client) *Repository {
	return &Repository{
		client: client,
	}
}

func bookKey(id int64) string {
	return fmt.Sprintf("%s:%d", hashPrefix, id)
}

func bookFields(b book.Book) map[string]interface{} {
	return map[string]interface{}{
		"title":    b.Title,
		"author":   b.Author,
		"category": b.Category,
	}
}

func bookFromHash(id int64, data map[string]string) book.Book {
	return book.Book{
		ID:       id,
		Title:    data["title"],
		Author:   data["author"],
		Category: data["category"],
	}
}

// FindAll returns every book in id order
func (r *Repository) FindAll(ctx context.Context) ([]book.Book, error) {
	members, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("reading book index: %w", err)
	}

	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing book id %q: %w", m, err)
		}
		ids = append(ids, id)
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, bookKey(id))
	}
	if len(ids) > 0 {
		if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
			return nil, fmt.Errorf("executing pipeline: %w", err)
		}
	}

	books := make([]book.Book, 0, len(ids))
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if err != nil || len(data) == 0 {
			// index entry without hash: a concurrent delete won the race
			continue
		}
		books = append(books, bookFromHash(ids[i], data))
	}

	return books, nil
}

// FindByID looks a book up by id
func (r *Repository) FindByID(ctx context.Context, id int64) (book.Book, bool, error) {
	data, err := r.client.HGetAll(ctx, bookKey(id)).Result()
	if err != nil {
		return book.Book{}, false, fmt.Errorf("getting book: %w", err)
	}
	if len(data) == 0 {
		return book.Book{}, false, nil
	}
	return bookFromHash(id, data), true, nil
}

// Save inserts a new book or overwrites an existing one
func (r *Repository) Save(ctx context.Context, b book.Book) (book.Book, error) {
	if b.IsNew() {
		id, err := r.client.Incr(ctx, seqKey).Result()
		if err != nil {
			return book.Book{}, fmt.Errorf("allocating book id: %w", err)
		}
		b.ID = id

		_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, bookKey(id), bookFields(b))
			pipe.ZAdd(ctx, indexKey, redis.Z{Score: float64(id), Member: id})
			return nil
		})
		if err != nil {
			return book.Book{}, fmt.Errorf("storing book: %w", err)
		}
		return b, nil
	}

	updated, err := updateScript.Run(ctx, r.client, []string{bookKey(b.ID)}, b.Title, b.Author, b.Category).Int()
	if err != nil {
		return book.Book{}, fmt.Errorf("updating book: %w", err)
	}
	if updated == 0 {
		return book.Book{}, book.ErrNotFound
	}
	return b, nil
}

// DeleteByID removes the hash and its index entry
func (r *Repository) DeleteByID(ctx context.Context, id int64) error {
	var deleted *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, bookKey(id))
		pipe.ZRem(ctx, indexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	if deleted.Val() == 0 {
		return book.ErrNotFound
	}
	return nil
}

// DeleteAll removes every book but keeps the id counter
func (r *Repository) DeleteAll(ctx context.Context) error {
	members, err := r.client.ZRange(ctx, indexKey, 0, -1).Result()
	if err != nil {
		return fmt.Errorf("reading book index: %w", err)
	}

	keys := make([]string, 0, len(members)+1)
	for _, m := range members {
		keys = append(keys, hashPrefix+":"+m)
	}
	keys = append(keys, indexKey)

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("deleting books: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Close()
}
