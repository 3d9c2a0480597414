package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart is returned when a confirmation is requested with no selections
	ErrEmptyCart = errors.New("no products selected")

	// ErrFetch is matched by every FetchError
	ErrFetch = errors.New("similar products fetch failed")

	// ErrInternalAggregation is returned when fetched data breaks the aggregation contract
	ErrInternalAggregation = errors.New("internal aggregation error")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrSelectionNotFound is returned when a product is not in the current selection
	ErrSelectionNotFound = errors.New("product not found in selection")

	// ErrUpstream is returned when the Basalam API request fails
	ErrUpstream = errors.New("basalam API request failed")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)

// FetchError reports a failed more-like-this lookup for one selected product.
type FetchError struct {
	ProductID int64
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch similar products for %d: %v", e.ProductID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrFetch) match any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}
