package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"vinted-scraper/models"
)

const listingColumns = 9

// PostgresWriter upserts listings into PostgreSQL keyed by item_id.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(dsn string) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) Name() string { return "postgres" }

func (pw *PostgresWriter) migrate() error {
	_, err := pw.db.Exec(`
		CREATE TABLE IF NOT EXISTS listings (
			item_id     TEXT          PRIMARY KEY,
			title       TEXT          NOT NULL,
			brand       TEXT,
			size        TEXT,
			condition   TEXT,
			price       NUMERIC(10,2) NOT NULL CHECK (price > 0),
			url         TEXT          NOT NULL,
			photo_url   TEXT,
			scraped_at  TIMESTAMPTZ   NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_listings_price ON listings(price);
		CREATE INDEX IF NOT EXISTS idx_listings_brand ON listings(brand);
	`)
	return err
}

// Write upserts the batch inside one transaction.
func (pw *PostgresWriter) Write(ctx context.Context, listings []*models.ListingRecord) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := buildUpsert(listings[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: upsert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func buildUpsert(batch []*models.ListingRecord) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		base := idx * listingColumns
		placeholders := make([]string, listingColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			l.ID, l.Title, nullString(l.Brand), nullString(l.Size), nullString(l.Condition),
			l.Price, l.URL, nullString(l.PhotoURL), l.ObservedAt)
	}

	query := fmt.Sprintf(`
		INSERT INTO listings (item_id, title, brand, size, condition, price, url, photo_url, scraped_at)
		VALUES %s
		ON CONFLICT (item_id) DO UPDATE SET
			title      = EXCLUDED.title,
			brand      = EXCLUDED.brand,
			size       = EXCLUDED.size,
			condition  = EXCLUDED.condition,
			price      = EXCLUDED.price,
			url        = EXCLUDED.url,
			photo_url  = EXCLUDED.photo_url,
			scraped_at = EXCLUDED.scraped_at
	`, strings.Join(valueStrings, ","))

	return query, valueArgs
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored listings, cheapest first.
func (pw *PostgresWriter) FetchAll(ctx context.Context) ([]*models.ListingRecord, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT item_id, title, brand, size, condition, price, url, photo_url, scraped_at
		FROM listings
		ORDER BY price, item_id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// rowScanner is the part of *sql.Rows that scanListings reads.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanListings(rows rowScanner) ([]*models.ListingRecord, error) {
	var listings []*models.ListingRecord
	for rows.Next() {
		var brand, size, condition, photo sql.NullString
		l := &models.ListingRecord{}
		if err := rows.Scan(
			&l.ID, &l.Title, &brand, &size, &condition,
			&l.Price, &l.URL, &photo, &l.ObservedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		l.Brand, l.Size, l.Condition, l.PhotoURL = brand.String, size.String, condition.String, photo.String
		listings = append(listings, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterate rows: %w", err)
	}
	return listings, nil
}
