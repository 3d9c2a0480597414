package domain

// VendorMatch is a vendor whose similar products cover two or more distinct
// selections. MatchedProductsCount always equals len(UserSelectedProducts).
type VendorMatch struct {
	VendorID             int64            `json:"vendor_id"`
	VendorName           string           `json:"vendor_name"`
	MatchedProductsCount int              `json:"matched_products_count"`
	UserSelectedProducts []int64          `json:"user_selected_products"`
	SimilarProducts      []SimilarProduct `json:"similar_products"`
}

// ProcessingSummary describes what the lookup produced for one selection.
// Failed lookups report zero for both counts.
type ProcessingSummary struct {
	ProductName          string `json:"product_name"`
	SimilarProductsFound int    `json:"similar_products_found"`
	VendorsFound         int    `json:"vendors_found"`
}

// ConfirmationReport is the result of confirming the cart
type ConfirmationReport struct {
	TotalSelectedProducts      int                         `json:"total_selected_products"`
	TotalSimilarProductsFound  int                         `json:"total_similar_products_found"`
	VendorsWithMultipleMatches []VendorMatch               `json:"vendors_with_multiple_matches"`
	ProcessingSummary          map[int64]ProcessingSummary `json:"processing_summary"`
}
