package domain

import "fmt"

// ProductURLTemplate builds the public product page for a Basalam product id
const ProductURLTemplate = "https://basalam.com/p/%d"

// ProductURL returns the Basalam product page for id
func ProductURL(id int64) string {
	return fmt.Sprintf(ProductURLTemplate, id)
}

// SimilarProduct is a candidate returned by the more-like-this lookup for a selection.
// OriginalProductID points back at the selection that produced it.
type SimilarProduct struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	Price             float64 `json:"price"`
	VendorID          int64   `json:"vendor_id"`
	VendorName        string  `json:"vendor_name"`
	StatusID          int64   `json:"status_id"`
	ImageURL          string  `json:"image_url"`
	BasalamURL        string  `json:"basalam_url"`
	OriginalProductID int64   `json:"original_product_id"`
}

// ProductImage holds the image variants of a search result
type ProductImage struct {
	Medium string `json:"medium,omitempty"`
	Small  string `json:"small,omitempty"`
}

// SearchProduct is a marketplace search result
type SearchProduct struct {
	ID              int64        `json:"id"`
	Name            string       `json:"name"`
	Price           float64      `json:"price"`
	Image           ProductImage `json:"image"`
	VendorID        int64        `json:"vendor_id"`
	VendorName      string       `json:"vendor_name"`
	StatusID        int64        `json:"status_id"`
	StatusTitle     string       `json:"status_title"`
	CategoryTitle   string       `json:"category_title"`
	IsAvailable     bool         `json:"is_available"`
	HasFreeShipping bool         `json:"has_free_shipping"`
	RatingAverage   float64      `json:"rating_average"`
	RatingCount     int          `json:"rating_count"`
	Stock           int          `json:"stock"`
}

// SearchMeta carries pagination state for infinite scroll
type SearchMeta struct {
	TotalCount    int  `json:"total_count"`
	PageSize      int  `json:"page_size"`
	CurrentOffset int  `json:"current_offset"`
	HasMore       bool `json:"has_more"`
}

// SearchRequest represents a marketplace keyword search
type SearchRequest struct {
	Query string `form:"q"`
	From  int    `form:"from"`
	Size  int    `form:"size"`
}

// SearchResponse is a page of marketplace search results
type SearchResponse struct {
	Products []SearchProduct `json:"products"`
	Meta     SearchMeta      `json:"meta"`
}
