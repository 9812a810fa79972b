package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vinted-scraper/config"
	"vinted-scraper/models"
	"vinted-scraper/scraper/vinted"
	"vinted-scraper/services"
	"vinted-scraper/storage"
	"vinted-scraper/utils"
)

func main() {
	os.Exit(run())
}

func run() int {
	logger := utils.NewLogger()
	cfg := config.Load()
	logger.SetDebug(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("=== Vinted Scraping System starting ===")
	logger.Info("Config: query %q | pages: %d | locale: %s | headless: %v",
		cfg.SearchQuery, cfg.MaxPages, cfg.Locale, cfg.Headless)

	writers, err := openWriters(cfg, logger)
	if err != nil {
		logger.Error("%v", err)
		return 1
	}
	defer func() {
		for _, w := range writers {
			if err := w.Close(); err != nil {
				logger.Warn("%s close failed: %v", w.Name(), err)
			}
		}
	}()

	labels := services.LabelsFor(cfg.Locale)
	collector := services.NewCollector(vinted.ParseCards, services.NewExtractor(labels, logger), logger)

	if err := vinted.New(cfg, logger).Scrape(ctx, collector.HandlePage); err != nil {
		logger.Error("Vinted scrape failed: %v", err)
	}

	final := collector.Results()
	logger.Info("Total: %d unique listings", len(final))
	if len(final) == 0 {
		logger.Warn("Nothing to send.")
		return 0
	}

	failed := false
	var stored []storage.ListingWriter
	for _, w := range writers {
		if err := w.Write(ctx, final); err != nil {
			logger.Error("%s write failed: %v", w.Name(), err)
			failed = true
			continue
		}
		stored = append(stored, w)
		logger.Info("%d listings stored via %s", len(final), w.Name())
	}

	insightSvc := services.NewInsightService(logger)
	insightSvc.Print(os.Stdout, insightSvc.Generate(insightListings(ctx, stored, final, logger)))

	if failed {
		return 1
	}
	fmt.Printf("  Done. CSV → %s\n\n", cfg.CSVOutputPath)
	return 0
}

// insightListings reads the full table back from the first written backend
// that supports it, falling back to this run's batch.
func insightListings(ctx context.Context, written []storage.ListingWriter, final []*models.ListingRecord, logger *utils.Logger) []*models.ListingRecord {
	for _, w := range written {
		fetcher, ok := w.(storage.ListingFetcher)
		if !ok {
			continue
		}
		listings, err := fetcher.FetchAll(ctx)
		if err != nil {
			logger.Error("Failed to fetch listings from %s for insights: %v", w.Name(), err)
			return final
		}
		return listings
	}
	return final
}

// openWriters opens every configured sink. The CSV snapshot is always written.
func openWriters(cfg *config.Config, logger *utils.Logger) ([]storage.ListingWriter, error) {
	var writers []storage.ListingWriter

	csvWriter, err := storage.NewCSVWriter(cfg.CSVOutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV writer: %w", err)
	}
	writers = append(writers, csvWriter)

	if cfg.RESTEnabled() {
		writers = append(writers, storage.NewRESTWriter(cfg.ProjectURL, cfg.APIKey, cfg.TableName, cfg.MaxRetries, logger))
	} else {
		logger.Warn("PROJECT_URL/API_KEY not set, REST upsert disabled")
	}

	if cfg.PostgresEnabled {
		pgWriter, err := storage.NewPostgresWriter(cfg.DSN())
		if err != nil {
			_ = csvWriter.Close()
			return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		writers = append(writers, pgWriter)
	}

	return writers, nil
}
