package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/salamyar/backend/internal/domain"
)

// SearchServiceConfig holds configuration for the search service
type SearchServiceConfig struct {
	CacheTTL        time.Duration
	DefaultPageSize int
	MaxPageSize     int
	MaxQueryLength  int
}

// SearchService handles marketplace search with caching
type SearchService struct {
	cache           domain.CacheRepository
	searcher        domain.ProductSearcher
	cacheTTL        time.Duration
	defaultPageSize int
	maxPageSize     int
	maxQueryLength  int
}

// NewSearchService creates a new search service with dependencies
func NewSearchService(
	cache domain.CacheRepository,
	searcher domain.ProductSearcher,
	config SearchServiceConfig,
) *SearchService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	maxPageSize := config.MaxPageSize
	if maxPageSize <= 0 {
		maxPageSize = 50
	}

	defaultPageSize := config.DefaultPageSize
	if defaultPageSize <= 0 || defaultPageSize > maxPageSize {
		defaultPageSize = min(12, maxPageSize)
	}

	maxQueryLength := config.MaxQueryLength
	if maxQueryLength <= 0 {
		maxQueryLength = 500
	}

	return &SearchService{
		cache:           cache,
		searcher:        searcher,
		cacheTTL:        cacheTTL,
		defaultPageSize: defaultPageSize,
		maxPageSize:     maxPageSize,
		maxQueryLength:  maxQueryLength,
	}
}

// Search returns one page of marketplace results.
// Flow: validate -> check cache -> search Basalam -> cache -> return
func (s *SearchService) Search(ctx context.Context, request *domain.SearchRequest) (*domain.SearchResponse, error) {
	query, from, size, err := s.validate(request)
	if err != nil {
		return nil, err
	}

	cacheKey := generateCacheKey(query, from, size)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	result, err := s.searcher.SearchProducts(ctx, query, from, size)
	if err != nil {
		if errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	if err := s.setInCache(ctx, cacheKey, result); err != nil {
		log.WithError(err).WithField("key", cacheKey).Warn("[SEARCH] Failed to cache search results")
	}

	return result, nil
}

// validate applies defaults and bounds to the request
func (s *SearchService) validate(request *domain.SearchRequest) (string, int, int, error) {
	if request == nil {
		return "", 0, 0, domain.ErrInvalidRequest
	}

	query := normalizeQuery(request.Query)
	if query == "" || queryLength(query) > s.maxQueryLength {
		return "", 0, 0, fmt.Errorf("%w: q must be between 1 and %d characters",
			domain.ErrInvalidRequest, s.maxQueryLength)
	}

	if request.From < 0 {
		return "", 0, 0, fmt.Errorf("%w: from must not be negative", domain.ErrInvalidRequest)
	}

	size := request.Size
	if size == 0 {
		size = s.defaultPageSize
	}
	if size < 1 || size > s.maxPageSize {
		return "", 0, 0, fmt.Errorf("%w: size must be between 1 and %d",
			domain.ErrInvalidRequest, s.maxPageSize)
	}

	return query, request.From, size, nil
}

// generateCacheKey creates a normalized cache key for one result page.
// Format: "search:{normalized_query}:{from}:{size}"
func generateCacheKey(query string, from, size int) string {
	return fmt.Sprintf("search:%s:%d:%d", normalizeForCacheKey(query), from, size)
}

// getFromCache retrieves a search page from cache
func (s *SearchService) getFromCache(ctx context.Context, key string) (*domain.SearchResponse, error) {
	value, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.WithError(err).WithField("key", key).Warn("[SEARCH] Cache read failed")
		}
		return nil, err
	}

	var response domain.SearchResponse
	if err := json.Unmarshal(value, &response); err != nil {
		log.WithError(err).WithField("key", key).Warn("[SEARCH] Discarding undecodable cache entry")
		return nil, domain.ErrCacheMiss
	}

	return &response, nil
}

// setInCache stores a search page in cache
func (s *SearchService) setInCache(ctx context.Context, key string, response *domain.SearchResponse) error {
	value, err := json.Marshal(response)
	if err != nil {
		return fmt.Errorf("encoding search response: %w", err)
	}
	return s.cache.Set(ctx, key, value, s.cacheTTL)
}
