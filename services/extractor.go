package services

import (
	"strings"
	"time"

	"vinted-scraper/models"
	"vinted-scraper/utils"
)

// Extractor turns raw card bundles into validated listing records.
type Extractor struct {
	logger    *utils.Logger
	segmenter *Segmenter
	labels    Labels
	now       func() time.Time
}

// NewExtractor creates an Extractor for the given label set.
func NewExtractor(labels Labels, logger *utils.Logger) *Extractor {
	return &Extractor{
		logger:    logger,
		segmenter: NewSegmenter(labels),
		labels:    labels,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Extract builds a record from one bundle. It reports false when the bundle
// has no link, no numeric id in the link, or no positive price.
func (e *Extractor) Extract(b models.RawListingBundle) (*models.ListingRecord, bool) {
	info := b.InfoText
	if info == "" {
		info = b.ImageAlt
	}

	id := ListingID(b.LinkHref)
	if id == "" || b.LinkHref == "" {
		return nil, false
	}

	price, ok := findCardPrice(b.VisibleText)
	if !ok || price <= 0 {
		return nil, false
	}

	details := e.segmenter.Segment(info)
	title := details.Title
	if title == "" {
		title = e.labels.UnknownTitle
	}

	return &models.ListingRecord{
		ID:         id,
		Title:      title,
		Brand:      details.Brand,
		Size:       details.Size,
		Condition:  details.Condition,
		Price:      price,
		URL:        b.LinkHref,
		PhotoURL:   b.ImageSrc,
		ObservedAt: e.now(),
	}, true
}

// ExtractAll runs Extract over a page of bundles and keeps the records it
// produced, in page order. A bundle that panics is counted as dropped.
func (e *Extractor) ExtractAll(bundles []models.RawListingBundle) []*models.ListingRecord {
	records := make([]*models.ListingRecord, 0, len(bundles))

	for i, b := range bundles {
		rec, ok := e.safeExtract(i, b)
		if !ok {
			e.logger.Debug("[extractor] Dropping bundle %d: %s", i, b.LinkHref)
			continue
		}
		if len(records) < 3 {
			e.logger.Info("[extractor] %s | brand: %s | size: %s | %.2f%s",
				rec.Title, rec.Brand, rec.Size, rec.Price, currencySymbol)
		}
		records = append(records, rec)
	}

	e.logger.Info("[extractor] Extracted %d → %d records (dropped %d)",
		len(bundles), len(records), len(bundles)-len(records))
	return records
}

func (e *Extractor) safeExtract(i int, b models.RawListingBundle) (rec *models.ListingRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("[extractor] Bundle %d malformed: %v", i, r)
			rec, ok = nil, false
		}
	}()
	return e.Extract(b)
}

// ListingID returns the first all-digit prefix (before '-') among the
// path segments of href, e.g. "/items/123456-some-dress" → "123456".
func ListingID(href string) string {
	if href == "" {
		return ""
	}
	for _, part := range strings.Split(href, "/") {
		prefix, _, _ := strings.Cut(part, "-")
		if isDigits(prefix) {
			return prefix
		}
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
