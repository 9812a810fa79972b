package models

import "time"

// RawListingBundle is the per-card data pulled out of a catalog page before
// any parsing. Empty strings mean the attribute was not present on the card.
type RawListingBundle struct {
	LinkHref    string
	InfoText    string
	ImageAlt    string
	ImageSrc    string
	VisibleText string
}

// ParsedDetails holds the fields recovered from a listing's info string.
// Any field may be empty.
type ParsedDetails struct {
	Title     string
	Brand     string
	Size      string
	Condition string
}

// ListingRecord is the validated listing handed to the storage sinks.
type ListingRecord struct {
	ID         string
	Title      string
	Brand      string
	Size       string
	Condition  string
	Price      float64
	URL        string
	PhotoURL   string
	ObservedAt time.Time
}

// InsightReport summarises the final batch of a run.
type InsightReport struct {
	TotalListings       int
	AveragePrice        float64
	MinPrice            float64
	MaxPrice            float64
	Cheapest            *ListingRecord
	MostExpensive       *ListingRecord
	TopBrands           []BrandCount
	ListingsByCondition map[string]int
}

// BrandCount pairs a brand with the number of listings carrying it.
type BrandCount struct {
	Brand string
	Count int
}
