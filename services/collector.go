package services

import (
	"fmt"

	"vinted-scraper/models"
	"vinted-scraper/utils"
)

// CardParser finds the per-listing bundles in a page's markup.
type CardParser func(page string) ([]models.RawListingBundle, error)

// Collector feeds each scraped page through extraction into one Aggregator.
// Pages must be handed over in the order they were scraped.
type Collector struct {
	parse     CardParser
	extractor *Extractor
	agg       *Aggregator
	logger    *utils.Logger
}

func NewCollector(parse CardParser, extractor *Extractor, logger *utils.Logger) *Collector {
	return &Collector{
		parse:     parse,
		extractor: extractor,
		agg:       NewAggregator(),
		logger:    logger,
	}
}

// HandlePage extracts the records of one page and ingests them.
func (c *Collector) HandlePage(page int, markup string) error {
	bundles, err := c.parse(markup)
	if err != nil {
		return fmt.Errorf("collector: page %d: %w", page, err)
	}
	c.logger.Info("[collector] Page %d: %d cards found", page, len(bundles))

	records := c.extractor.ExtractAll(bundles)
	c.agg.Ingest(records)

	c.logger.Info("[collector] Page %d: %d records, %d unique so far", page, len(records), c.agg.Len())
	return nil
}

// Results returns the deduplicated records collected so far.
func (c *Collector) Results() []*models.ListingRecord {
	return c.agg.Snapshot()
}
