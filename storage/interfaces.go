package storage

import (
	"context"

	"vinted-scraper/models"
)

// ListingWriter is the interface any storage backend must satisfy. Write
// receives the whole deduplicated batch of a run in one call.
type ListingWriter interface {
	Name() string
	Write(ctx context.Context, listings []*models.ListingRecord) error
	Close() error
}

// ListingFetcher is implemented by backends that can read the stored
// listings back, e.g. to report on the whole table after an upsert.
type ListingFetcher interface {
	FetchAll(ctx context.Context) ([]*models.ListingRecord, error)
}
