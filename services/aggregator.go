package services

import "vinted-scraper/models"

// Aggregator collects records across pages keyed by listing id. A later
// record with the same id replaces the earlier one in place.
// It is not safe for concurrent use.
type Aggregator struct {
	byID  map[string]*models.ListingRecord
	order []string
}

// NewAggregator creates an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{byID: make(map[string]*models.ListingRecord)}
}

// Ingest inserts or overwrites each record by id.
func (a *Aggregator) Ingest(records []*models.ListingRecord) {
	for _, r := range records {
		if r == nil {
			continue
		}
		if _, seen := a.byID[r.ID]; !seen {
			a.order = append(a.order, r.ID)
		}
		a.byID[r.ID] = r
	}
}

// Snapshot returns the current records in first-seen order.
func (a *Aggregator) Snapshot() []*models.ListingRecord {
	out := make([]*models.ListingRecord, 0, len(a.order))
	for _, id := range a.order {
		out = append(out, a.byID[id])
	}
	return out
}

// Len returns the number of unique listings held.
func (a *Aggregator) Len() int {
	return len(a.order)
}
