package model

import "time"

// Item is a persisted product record. ProductID is the primary identity;
// (BrandName, CategoryName, ImageURL) acts as a secondary duplicate key when
// no ProductID match exists. Updates touch name/price/image/option only.
type Item struct {
	ProductID    string    `json:"product_id"`
	Name         string    `json:"name"`
	Price        int       `json:"price"` // KRW, no minor unit
	ImageURL     string    `json:"image_url"`
	BrandName    string    `json:"brand_name"`
	CategoryName string    `json:"category_name"`
	Option       *string   `json:"option,omitempty"`
	ModifiedAt   time.Time `json:"modified_at"`
}

// CandidateRow is the in-memory intermediate between snapshot extraction and
// reconciliation. Price 0 means unresolved; an empty ImageURL or a placeholder
// signature means the row is dropped before persistence. Option nil means the
// product has no option text.
type CandidateRow struct {
	ProductID string
	Name      string
	Price     int
	ImageURL  string
	Option    *string
}
