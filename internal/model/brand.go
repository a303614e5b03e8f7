package model

import "time"

// BrandTarget is a discovered brand worth crawling. The canonical brand URL
// (https, no query/fragment, no trailing slash) is its identity; targets are
// never mutated after discovery.
type BrandTarget struct {
	BrandName    string    `json:"brand_name"`
	CategoryName string    `json:"category_name"`
	BrandURL     string    `json:"brand_url"`
	CreatedAt    time.Time `json:"created_at"`
}
