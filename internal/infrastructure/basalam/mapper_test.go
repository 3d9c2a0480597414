package basalam

import (
	"testing"

	"github.com/salamyar/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMapSimilarProduct(t *testing.T) {
	tests := []struct {
		name   string
		raw    domain.BasalamProduct
		wantOK bool
		want   domain.SimilarProduct
	}{
		{
			name: "complete record",
			raw: domain.BasalamProduct{
				ID:     555,
				Name:   "Leather pencil case",
				Price:  98000,
				Photo:  &domain.BasalamPhoto{Medium: "m.jpg", Small: "s.jpg"},
				Status: &domain.BasalamStatus{ID: 2976},
				Vendor: &domain.BasalamVendor{ID: 12, Name: "Charm House"},
			},
			wantOK: true,
			want: domain.SimilarProduct{
				ID:                555,
				Name:              "Leather pencil case",
				Price:             98000,
				VendorID:          12,
				VendorName:        "Charm House",
				StatusID:          2976,
				ImageURL:          "m.jpg",
				BasalamURL:        "https://basalam.com/p/555",
				OriginalProductID: 101,
			},
		},
		{
			name: "falls back to small photo and zero status",
			raw: domain.BasalamProduct{
				ID:     556,
				Photo:  &domain.BasalamPhoto{Small: "s.jpg"},
				Vendor: &domain.BasalamVendor{ID: 12},
			},
			wantOK: true,
			want: domain.SimilarProduct{
				ID:                556,
				VendorID:          12,
				ImageURL:          "s.jpg",
				BasalamURL:        "https://basalam.com/p/556",
				OriginalProductID: 101,
			},
		},
		{
			name:   "missing vendor",
			raw:    domain.BasalamProduct{ID: 557},
			wantOK: false,
		},
		{
			name:   "missing product id",
			raw:    domain.BasalamProduct{Vendor: &domain.BasalamVendor{ID: 12}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MapSimilarProduct(&tt.raw, 101)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestMapSimilarProducts_PreservesOrder(t *testing.T) {
	raw := []domain.BasalamProduct{
		{ID: 3, Vendor: &domain.BasalamVendor{ID: 1}},
		{ID: 1},
		{ID: 2, Vendor: &domain.BasalamVendor{ID: 1}},
	}

	got := MapSimilarProducts(raw, 9)

	if assert.Len(t, got, 2) {
		assert.Equal(t, int64(3), got[0].ID)
		assert.Equal(t, int64(2), got[1].ID)
		for _, p := range got {
			assert.Equal(t, int64(9), p.OriginalProductID)
		}
	}
}

func TestMapSearchResponse(t *testing.T) {
	payload := &domain.BasalamSearchResponse{
		Products: []domain.BasalamProduct{
			{
				ID:             1,
				Name:           "Notebook",
				Price:          45000,
				Photo:          &domain.BasalamPhoto{Medium: "m.jpg", Small: "s.jpg"},
				Status:         &domain.BasalamStatus{ID: 2976, Title: "available"},
				Vendor:         &domain.BasalamVendor{ID: 5, Name: "Paper Co"},
				Rating:         &domain.BasalamRating{Average: 4.5, Count: 20},
				Stock:          8,
				CategoryTitle:  "Stationery",
				IsAvailable:    true,
				IsFreeShipping: true,
			},
			{ID: 2},
		},
		Meta: domain.BasalamMeta{Count: 13},
	}

	got := MapSearchResponse(payload, 12, 12)

	if assert.Len(t, got.Products, 1) {
		p := got.Products[0]
		assert.Equal(t, domain.ProductImage{Medium: "m.jpg", Small: "s.jpg"}, p.Image)
		assert.Equal(t, "available", p.StatusTitle)
		assert.Equal(t, 4.5, p.RatingAverage)
		assert.Equal(t, 20, p.RatingCount)
		assert.True(t, p.IsAvailable)
		assert.True(t, p.HasFreeShipping)
	}
	assert.Equal(t, domain.SearchMeta{TotalCount: 13, PageSize: 12, CurrentOffset: 12, HasMore: false}, got.Meta)
}
