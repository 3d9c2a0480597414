package usecase

import "github.com/salamyar/backend/internal/domain"

// BuildReport assembles the confirmation report. Every selection gets a
// processing summary entry; selections without results report zero counts.
func BuildReport(
	selections []domain.Selection,
	results map[int64][]domain.SimilarProduct,
	matches []domain.VendorMatch,
) *domain.ConfirmationReport {
	if matches == nil {
		matches = []domain.VendorMatch{}
	}

	report := &domain.ConfirmationReport{
		TotalSelectedProducts:      len(selections),
		VendorsWithMultipleMatches: matches,
		ProcessingSummary:          make(map[int64]domain.ProcessingSummary, len(selections)),
	}

	for _, selection := range selections {
		products := results[selection.ProductID]
		report.TotalSimilarProductsFound += len(products)
		report.ProcessingSummary[selection.ProductID] = domain.ProcessingSummary{
			ProductName:          selection.ProductName,
			SimilarProductsFound: len(products),
			VendorsFound:         countVendors(products),
		}
	}

	return report
}

func countVendors(products []domain.SimilarProduct) int {
	vendors := make(map[int64]struct{}, len(products))
	for _, p := range products {
		vendors[p.VendorID] = struct{}{}
	}
	return len(vendors)
}
