package domain

import (
	"context"
	"time"
)

// CacheRepository stores serialized values with a TTL. Get returns
// ErrCacheMiss for absent or expired keys.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// SelectionStore holds the current cart. ListCurrent returns selections in
// insertion order and is the only input of a confirmation.
type SelectionStore interface {
	Add(ctx context.Context, request *SelectRequest) (*Selection, bool, error)
	ListCurrent(ctx context.Context) ([]Selection, error)
	Get(ctx context.Context, productID int64) (*Selection, error)
	ListByVendor(ctx context.Context, vendorID int64) ([]Selection, error)
	Remove(ctx context.Context, productID int64) (bool, error)
	Clear(ctx context.Context) (int, error)
}

// SimilarityFetcher looks up products similar to a selection. Implementations
// return at most limit records, each tagged with the selection's product id.
type SimilarityFetcher interface {
	FetchSimilar(ctx context.Context, selection *Selection, limit int) ([]SimilarProduct, error)
}

// ProductSearcher runs paginated keyword searches against the marketplace
type ProductSearcher interface {
	SearchProducts(ctx context.Context, query string, from, size int) (*SearchResponse, error)
}
