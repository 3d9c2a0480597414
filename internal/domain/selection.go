package domain

import "time"

// Selection is a product the user placed in the cart for overlap analysis
type Selection struct {
	ID          int64     `json:"id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name"`
	VendorID    int64     `json:"vendor_id"`
	VendorName  string    `json:"vendor_name"`
	StatusID    int64     `json:"status_id"`
	ImageURL    string    `json:"image_url,omitempty"`
	SelectedAt  time.Time `json:"selected_at"`
}

// SelectRequest is the payload for adding a product to the selection
type SelectRequest struct {
	ProductID   int64  `json:"product_id" binding:"required,gt=0"`
	ProductName string `json:"product_name" binding:"required"`
	VendorID    int64  `json:"vendor_id" binding:"required,gt=0"`
	VendorName  string `json:"vendor_name"`
	StatusID    int64  `json:"status_id"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SelectionsResponse lists the current selections
type SelectionsResponse struct {
	Products   []Selection `json:"products"`
	TotalCount int         `json:"total_count"`
}
