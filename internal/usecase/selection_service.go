package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/salamyar/backend/internal/domain"
)

// SelectionService manages the products the user placed in the cart
type SelectionService struct {
	store domain.SelectionStore
}

// NewSelectionService creates a new selection service
func NewSelectionService(store domain.SelectionStore) *SelectionService {
	return &SelectionService{store: store}
}

// Select adds a product to the cart. Selecting an already selected product
// returns the existing selection and created is false.
func (s *SelectionService) Select(ctx context.Context, request *domain.SelectRequest) (*domain.Selection, bool, error) {
	if request == nil {
		return nil, false, domain.ErrInvalidRequest
	}

	request.ProductName = strings.TrimSpace(request.ProductName)
	request.VendorName = strings.TrimSpace(request.VendorName)

	switch {
	case request.ProductID <= 0:
		return nil, false, fmt.Errorf("%w: product_id must be positive", domain.ErrInvalidRequest)
	case request.VendorID <= 0:
		return nil, false, fmt.Errorf("%w: vendor_id must be positive", domain.ErrInvalidRequest)
	case request.ProductName == "":
		return nil, false, fmt.Errorf("%w: product_name is required", domain.ErrInvalidRequest)
	}

	selection, created, err := s.store.Add(ctx, request)
	if err != nil {
		return nil, false, fmt.Errorf("storing selection: %w", err)
	}

	log.WithFields(log.Fields{
		"product_id": selection.ProductID,
		"vendor_id":  selection.VendorID,
		"created":    created,
	}).Info("[SELECT] Product selected")

	return selection, created, nil
}

// List returns the current selections, most recently selected first
func (s *SelectionService) List(ctx context.Context) (*domain.SelectionsResponse, error) {
	selections, err := s.store.ListCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing selections: %w", err)
	}
	return newestFirst(selections), nil
}

// ListByVendor returns the selections from one vendor, most recently selected first
func (s *SelectionService) ListByVendor(ctx context.Context, vendorID int64) (*domain.SelectionsResponse, error) {
	if vendorID <= 0 {
		return nil, fmt.Errorf("%w: vendor_id must be positive", domain.ErrInvalidRequest)
	}

	selections, err := s.store.ListByVendor(ctx, vendorID)
	if err != nil {
		return nil, fmt.Errorf("listing selections of vendor %d: %w", vendorID, err)
	}
	return newestFirst(selections), nil
}

// Remove deletes one product from the cart
func (s *SelectionService) Remove(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return fmt.Errorf("%w: product_id must be positive", domain.ErrInvalidRequest)
	}

	removed, err := s.store.Remove(ctx, productID)
	if err != nil {
		return fmt.Errorf("removing selection %d: %w", productID, err)
	}
	if !removed {
		return domain.ErrSelectionNotFound
	}

	log.WithField("product_id", productID).Info("[SELECT] Product removed")
	return nil
}

// Clear empties the cart and returns how many selections were removed
func (s *SelectionService) Clear(ctx context.Context) (int, error) {
	count, err := s.store.Clear(ctx)
	if err != nil {
		return 0, fmt.Errorf("clearing selections: %w", err)
	}

	log.WithField("removed", count).Info("[SELECT] Cart cleared")
	return count, nil
}

func newestFirst(selections []domain.Selection) *domain.SelectionsResponse {
	products := slices.Clone(selections)
	slices.Reverse(products)
	if products == nil {
		products = []domain.Selection{}
	}
	return &domain.SelectionsResponse{
		Products:   products,
		TotalCount: len(products),
	}
}
