package usecase

import (
	"cmp"
	"fmt"
	"slices"

	log "github.com/sirupsen/logrus"

	"github.com/salamyar/backend/internal/domain"
)

// minMatchedSelections is how many distinct selections a vendor must cover
// to be reported
const minMatchedSelections = 2

// vendorBuckets accumulates one vendor's similar products per selection
type vendorBuckets struct {
	vendorID   int64
	vendorName string
	selections []int64 // selection product ids in selection order
	buckets    map[int64][]domain.SimilarProduct
	total      int
}

// VendorAggregator folds per-selection similarity results into vendor matches
type VendorAggregator struct {
	enableDebugLogging bool
}

// NewVendorAggregator creates a new aggregator
func NewVendorAggregator(enableDebugLogging bool) *VendorAggregator {
	return &VendorAggregator{enableDebugLogging: enableDebugLogging}
}

// Aggregate groups the similar products of every selection by vendor and
// returns the vendors whose products cover two or more distinct selections,
// ordered by matched selections desc, similar products desc, vendor id asc.
//
// results is keyed by selection product id; a missing key means the lookup
// produced nothing. Any record that breaks the contract of the fetcher
// aborts the aggregation with ErrInternalAggregation.
func (a *VendorAggregator) Aggregate(
	selections []domain.Selection,
	results map[int64][]domain.SimilarProduct,
) ([]domain.VendorMatch, error) {
	if err := validateResults(selections, results); err != nil {
		return nil, err
	}

	vendors := make(map[int64]*vendorBuckets)
	for _, selection := range selections {
		for _, product := range results[selection.ProductID] {
			v, ok := vendors[product.VendorID]
			if !ok {
				v = &vendorBuckets{
					vendorID: product.VendorID,
					buckets:  make(map[int64][]domain.SimilarProduct),
				}
				vendors[product.VendorID] = v
			}
			if v.vendorName == "" {
				v.vendorName = product.VendorName
			}
			if _, seen := v.buckets[selection.ProductID]; !seen {
				v.selections = append(v.selections, selection.ProductID)
			}
			v.buckets[selection.ProductID] = append(v.buckets[selection.ProductID], product)
			v.total++
		}
	}

	matches := make([]domain.VendorMatch, 0)
	for _, v := range vendors {
		if len(v.selections) < minMatchedSelections {
			continue
		}
		matches = append(matches, v.toMatch())
	}

	slices.SortFunc(matches, compareMatches)

	if a.enableDebugLogging {
		for _, m := range matches {
			log.Debugf("[AGGREGATE] vendor %d (%s): %d selections %v, %d similar products",
				m.VendorID, m.VendorName, m.MatchedProductsCount, m.UserSelectedProducts, len(m.SimilarProducts))
		}
	}

	return matches, nil
}

func (v *vendorBuckets) toMatch() domain.VendorMatch {
	products := make([]domain.SimilarProduct, 0, v.total)
	for _, productID := range v.selections {
		products = append(products, v.buckets[productID]...)
	}

	return domain.VendorMatch{
		VendorID:             v.vendorID,
		VendorName:           v.vendorName,
		MatchedProductsCount: len(v.selections),
		UserSelectedProducts: slices.Clone(v.selections),
		SimilarProducts:      products,
	}
}

func compareMatches(a, b domain.VendorMatch) int {
	if c := cmp.Compare(b.MatchedProductsCount, a.MatchedProductsCount); c != 0 {
		return c
	}
	if c := cmp.Compare(len(b.SimilarProducts), len(a.SimilarProducts)); c != 0 {
		return c
	}
	return cmp.Compare(a.VendorID, b.VendorID)
}

// validateResults checks the inputs against the fetcher contract
func validateResults(selections []domain.Selection, results map[int64][]domain.SimilarProduct) error {
	selected := make(map[int64]bool, len(selections))
	for _, selection := range selections {
		if selected[selection.ProductID] {
			return fmt.Errorf("%w: product %d selected more than once",
				domain.ErrInternalAggregation, selection.ProductID)
		}
		selected[selection.ProductID] = true
	}

	for productID, products := range results {
		if !selected[productID] {
			return fmt.Errorf("%w: results for unselected product %d",
				domain.ErrInternalAggregation, productID)
		}
		for i, product := range products {
			switch {
			case product.ID <= 0:
				return fmt.Errorf("%w: record %d for product %d has no id",
					domain.ErrInternalAggregation, i, productID)
			case product.VendorID <= 0:
				return fmt.Errorf("%w: record %d (%d) for product %d has no vendor id",
					domain.ErrInternalAggregation, i, product.ID, productID)
			case product.OriginalProductID != productID:
				return fmt.Errorf("%w: record %d (%d) tagged with product %d, expected %d",
					domain.ErrInternalAggregation, i, product.ID, product.OriginalProductID, productID)
			}
		}
	}

	return nil
}
