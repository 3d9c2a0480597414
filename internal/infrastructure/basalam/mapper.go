package basalam

import (
	"github.com/salamyar/backend/internal/domain"
	log "github.com/sirupsen/logrus"
)

// valid reports whether a raw record carries the fields every consumer keys on
func valid(product *domain.BasalamProduct) bool {
	return product.ID > 0 && product.Vendor != nil && product.Vendor.ID > 0
}

// MapSimilarProduct converts a raw more-like-this record and tags it with the
// selection it was fetched for. It returns false for records without a
// product or vendor id.
func MapSimilarProduct(product *domain.BasalamProduct, originalProductID int64) (domain.SimilarProduct, bool) {
	if !valid(product) {
		return domain.SimilarProduct{}, false
	}

	return domain.SimilarProduct{
		ID:                product.ID,
		Name:              product.Name,
		Price:             product.Price,
		VendorID:          product.Vendor.ID,
		VendorName:        product.Vendor.Name,
		StatusID:          statusID(product.Status),
		ImageURL:          imageURL(product.Photo),
		BasalamURL:        domain.ProductURL(product.ID),
		OriginalProductID: originalProductID,
	}, true
}

// MapSimilarProducts converts a page of raw records, preserving API rank order
func MapSimilarProducts(products []domain.BasalamProduct, originalProductID int64) []domain.SimilarProduct {
	result := make([]domain.SimilarProduct, 0, len(products))
	for i := range products {
		similar, ok := MapSimilarProduct(&products[i], originalProductID)
		if !ok {
			log.WithField("product_id", originalProductID).
				Warnf("[BASALAM] skipping similar product %d without vendor", products[i].ID)
			continue
		}
		result = append(result, similar)
	}
	return result
}

// MapSearchProduct converts a raw search record
func MapSearchProduct(product *domain.BasalamProduct) (domain.SearchProduct, bool) {
	if !valid(product) {
		return domain.SearchProduct{}, false
	}

	result := domain.SearchProduct{
		ID:              product.ID,
		Name:            product.Name,
		Price:           product.Price,
		VendorID:        product.Vendor.ID,
		VendorName:      product.Vendor.Name,
		StatusID:        statusID(product.Status),
		CategoryTitle:   product.CategoryTitle,
		IsAvailable:     product.IsAvailable,
		HasFreeShipping: product.IsFreeShipping,
		Stock:           product.Stock,
	}
	if product.Photo != nil {
		result.Image = domain.ProductImage{Medium: product.Photo.Medium, Small: product.Photo.Small}
	}
	if product.Status != nil {
		result.StatusTitle = product.Status.Title
	}
	if product.Rating != nil {
		result.RatingAverage = product.Rating.Average
		result.RatingCount = product.Rating.Count
	}
	return result, true
}

// MapSearchResponse converts a raw search envelope and derives pagination metadata
func MapSearchResponse(payload *domain.BasalamSearchResponse, from, size int) *domain.SearchResponse {
	products := make([]domain.SearchProduct, 0, len(payload.Products))
	for i := range payload.Products {
		product, ok := MapSearchProduct(&payload.Products[i])
		if !ok {
			log.Warnf("[BASALAM] skipping search product %d without vendor", payload.Products[i].ID)
			continue
		}
		products = append(products, product)
	}

	return &domain.SearchResponse{
		Products: products,
		Meta: domain.SearchMeta{
			TotalCount:    payload.Meta.Count,
			PageSize:      size,
			CurrentOffset: from,
			HasMore:       from+len(products) < payload.Meta.Count,
		},
	}
}

func statusID(status *domain.BasalamStatus) int64 {
	if status == nil {
		return 0
	}
	return status.ID
}

// imageURL prefers the medium photo and falls back to the small one
func imageURL(photo *domain.BasalamPhoto) string {
	if photo == nil {
		return ""
	}
	if photo.Medium != "" {
		return photo.Medium
	}
	return photo.Small
}
