package domain

// BasalamProduct is a raw product record from the Basalam search and
// more-like-this APIs. Only the fields the service reads are decoded.
type BasalamProduct struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	Price          float64        `json:"price"`
	Photo          *BasalamPhoto  `json:"photo"`
	Status         *BasalamStatus `json:"status"`
	Vendor         *BasalamVendor `json:"vendor"`
	Rating         *BasalamRating `json:"rating"`
	Stock          int            `json:"stock"`
	CategoryTitle  string         `json:"categoryTitle"`
	IsAvailable    bool           `json:"IsAvailable"`
	IsFreeShipping bool           `json:"isFreeShipping"`
}

// BasalamPhoto holds the photo variants of a product
type BasalamPhoto struct {
	Medium string `json:"MEDIUM"`
	Small  string `json:"SMALL"`
}

// BasalamStatus is a product or vendor status
type BasalamStatus struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// BasalamVendor is the booth selling a product
type BasalamVendor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BasalamRating is the aggregated product rating
type BasalamRating struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// BasalamMeta is the search metadata block
type BasalamMeta struct {
	Took  int `json:"took"`
	Count int `json:"count"`
}

// BasalamSearchResponse is the envelope returned by both search and more-like-this
type BasalamSearchResponse struct {
	Products []BasalamProduct `json:"products"`
	Meta     BasalamMeta      `json:"meta"`
}
