package hotel

import (
	"context"
	"time"
)

// Store is the relational port consumed by the detail, listing and sync paths.
// Criteria-driven search lives on the search.Strategy port instead.
type Store interface {
	FindWithAvailableRooms(ctx context.Context, id int64) (*Hotel, error)
	CountAvailableRooms(ctx context.Context, id int64) (int, error)
	ListNewest(ctx context.Context, page, perPage int) ([]Hotel, int64, error)
	FindAllForIndexing(ctx context.Context, batchSize, offset int) ([]Hotel, error)
	FindUpdatedAfter(ctx context.Context, since time.Time, batchSize, offset int) ([]Hotel, error)
}

type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
