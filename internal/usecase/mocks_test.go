package usecase

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/salamyar/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	data     map[string][]byte
	getError error
	setError error
	getCalls int
	setCalls int
	lastTTL  time.Duration
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string][]byte),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	m.getCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.lastTTL = ttl
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

// MockProductSearcher is a mock implementation of domain.ProductSearcher
type MockProductSearcher struct {
	result    *domain.SearchResponse
	err       error
	calls     int
	lastQuery string
	lastFrom  int
	lastSize  int
}

func (m *MockProductSearcher) SearchProducts(ctx context.Context, query string, from, size int) (*domain.SearchResponse, error) {
	m.calls++
	m.lastQuery = query
	m.lastFrom = from
	m.lastSize = size
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// MockSelectionStore is a mock implementation of domain.SelectionStore
// backed by a fixed list of selections
type MockSelectionStore struct {
	selections []domain.Selection
	err        error
	listCalls  int
}

func (m *MockSelectionStore) Add(ctx context.Context, request *domain.SelectRequest) (*domain.Selection, bool, error) {
	if m.err != nil {
		return nil, false, m.err
	}
	s := domain.Selection{ProductID: request.ProductID, ProductName: request.ProductName, VendorID: request.VendorID}
	m.selections = append(m.selections, s)
	return &s, true, nil
}

func (m *MockSelectionStore) ListCurrent(ctx context.Context) ([]domain.Selection, error) {
	m.listCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.selections, nil
}

func (m *MockSelectionStore) Get(ctx context.Context, productID int64) (*domain.Selection, error) {
	for _, s := range m.selections {
		if s.ProductID == productID {
			return &s, nil
		}
	}
	return nil, domain.ErrSelectionNotFound
}

func (m *MockSelectionStore) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Selection, error) {
	if m.err != nil {
		return nil, m.err
	}
	return nil, nil
}

func (m *MockSelectionStore) Remove(ctx context.Context, productID int64) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	return false, nil
}

func (m *MockSelectionStore) Clear(ctx context.Context) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return 0, nil
}

// MockSimilarityFetcher is a mock implementation of domain.SimilarityFetcher.
// It is safe for concurrent use and tracks the peak number of in-flight calls.
type MockSimilarityFetcher struct {
	results map[int64][]domain.SimilarProduct
	errors  map[int64]error
	delay   time.Duration
	block   bool

	calls     atomic.Int32
	inFlight  atomic.Int32
	peak      atomic.Int32
	mu        sync.Mutex
	limits    []int
	requested []int64
}

func NewMockSimilarityFetcher() *MockSimilarityFetcher {
	return &MockSimilarityFetcher{
		results: make(map[int64][]domain.SimilarProduct),
		errors:  make(map[int64]error),
	}
}

func (m *MockSimilarityFetcher) FetchSimilar(ctx context.Context, selection *domain.Selection, limit int) ([]domain.SimilarProduct, error) {
	m.calls.Add(1)
	current := m.inFlight.Add(1)
	defer m.inFlight.Add(-1)
	for {
		peak := m.peak.Load()
		if current <= peak || m.peak.CompareAndSwap(peak, current) {
			break
		}
	}

	m.mu.Lock()
	m.limits = append(m.limits, limit)
	m.requested = append(m.requested, selection.ProductID)
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return nil, &domain.FetchError{ProductID: selection.ProductID, Err: ctx.Err()}
	}

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, &domain.FetchError{ProductID: selection.ProductID, Err: ctx.Err()}
		}
	}

	if err := m.errors[selection.ProductID]; err != nil {
		return nil, &domain.FetchError{ProductID: selection.ProductID, Err: err}
	}
	return m.results[selection.ProductID], nil
}

// similar builds a similar product record of vendorID for the selection originalID
func similar(id, vendorID, originalID int64) domain.SimilarProduct {
	return domain.SimilarProduct{
		ID:                id,
		Name:              fmt.Sprintf("product %d", id),
		Price:             float64(id) * 1000,
		VendorID:          vendorID,
		VendorName:        fmt.Sprintf("vendor %d", vendorID),
		StatusID:          2976,
		BasalamURL:        domain.ProductURL(id),
		OriginalProductID: originalID,
	}
}

func selections(productIDs ...int64) []domain.Selection {
	result := make([]domain.Selection, 0, len(productIDs))
	for i, id := range productIDs {
		result = append(result, domain.Selection{
			ID:          int64(i + 1),
			ProductID:   id,
			ProductName: fmt.Sprintf("selected %d", id),
			VendorID:    900 + id,
		})
	}
	return result
}
