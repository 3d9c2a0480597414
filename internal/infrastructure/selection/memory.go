package selection

import (
	"context"
	"sync"
	"time"

	"github.com/salamyar/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory SelectionStore. Selections are kept
// in insertion order and product ids are unique.
type MemoryStore struct {
	items  []domain.Selection
	index  map[int64]int
	nextID int64
	now    func() time.Time
	mutex  sync.RWMutex
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		index:  make(map[int64]int),
		nextID: 1,
		now:    time.Now,
	}
}

// Add stores a new selection. When the product is already selected the
// existing selection is returned and created is false.
func (s *MemoryStore) Add(ctx context.Context, request *domain.SelectRequest) (*domain.Selection, bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if i, exists := s.index[request.ProductID]; exists {
		existing := s.items[i]
		return &existing, false, nil
	}

	selection := domain.Selection{
		ID:          s.nextID,
		ProductID:   request.ProductID,
		ProductName: request.ProductName,
		VendorID:    request.VendorID,
		VendorName:  request.VendorName,
		StatusID:    request.StatusID,
		ImageURL:    request.ImageURL,
		SelectedAt:  s.now().UTC(),
	}
	s.nextID++

	s.index[selection.ProductID] = len(s.items)
	s.items = append(s.items, selection)

	return &selection, true, nil
}

// ListCurrent returns a snapshot of all selections in insertion order
func (s *MemoryStore) ListCurrent(ctx context.Context) ([]domain.Selection, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	return append([]domain.Selection(nil), s.items...), nil
}

// Get returns the selection for productID or ErrSelectionNotFound
func (s *MemoryStore) Get(ctx context.Context, productID int64) (*domain.Selection, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	i, exists := s.index[productID]
	if !exists {
		return nil, domain.ErrSelectionNotFound
	}

	selection := s.items[i]
	return &selection, nil
}

// ListByVendor returns the selections from vendorID in insertion order
func (s *MemoryStore) ListByVendor(ctx context.Context, vendorID int64) ([]domain.Selection, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var result []domain.Selection
	for _, selection := range s.items {
		if selection.VendorID == vendorID {
			result = append(result, selection)
		}
	}
	return result, nil
}

// Remove deletes the selection for productID. It reports whether anything was removed.
func (s *MemoryStore) Remove(ctx context.Context, productID int64) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	i, exists := s.index[productID]
	if !exists {
		return false, nil
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, productID)
	s.reindex(i)

	return true, nil
}

// Clear removes every selection and returns how many were removed
func (s *MemoryStore) Clear(ctx context.Context) (int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	count := len(s.items)
	s.items = nil
	s.index = make(map[int64]int)

	return count, nil
}

// reindex refreshes positions from offset onwards after a removal
func (s *MemoryStore) reindex(offset int) {
	for i := offset; i < len(s.items); i++ {
		s.index[s.items[i].ProductID] = i
	}
}
