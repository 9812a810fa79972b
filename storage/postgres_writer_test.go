package storage

import (
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vinted-scraper/models"
)

func TestBuildUpsert(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	batch := []*models.ListingRecord{
		{ID: "1", Title: "Jupe", Brand: "Zara", Price: 12.5, URL: "/items/1-jupe", ObservedAt: at},
		{ID: "2", Title: "Robe", Price: 8, URL: "/items/2-robe", PhotoURL: "https://img/2.jpg", ObservedAt: at},
	}

	query, args := buildUpsert(batch)

	assert.Contains(t, query, "($1,$2,$3,$4,$5,$6,$7,$8,$9),($10,$11,$12,$13,$14,$15,$16,$17,$18)")
	assert.Contains(t, query, "ON CONFLICT (item_id) DO UPDATE")
	assert.Equal(t, 1, strings.Count(query, "VALUES"))
	require.Len(t, args, 18)

	assert.Equal(t, "1", args[0])
	assert.Equal(t, sql.NullString{String: "Zara", Valid: true}, args[2])
	assert.Equal(t, sql.NullString{}, args[3])
	assert.Equal(t, 12.5, args[5])
	assert.Equal(t, sql.NullString{}, args[7])
	assert.Equal(t, sql.NullString{String: "https://img/2.jpg", Valid: true}, args[16])
	assert.Equal(t, at, args[17])
}

type fakeRows struct {
	rows    [][]any
	pos     int
	scanErr error
	iterErr error
}

func (f *fakeRows) Next() bool {
	if f.pos >= len(f.rows) {
		return false
	}
	f.pos++
	return true
}

func (f *fakeRows) Scan(dest ...any) error {
	if f.scanErr != nil {
		return f.scanErr
	}
	for i, v := range f.rows[f.pos-1] {
		switch d := dest[i].(type) {
		case *string:
			*d = v.(string)
		case *float64:
			*d = v.(float64)
		case *time.Time:
			*d = v.(time.Time)
		case *sql.NullString:
			if v != nil {
				*d = sql.NullString{String: v.(string), Valid: true}
			}
		}
	}
	return nil
}

func (f *fakeRows) Err() error { return f.iterErr }

func TestScanListings(t *testing.T) {
	at := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	rows := &fakeRows{rows: [][]any{
		{"2", "Robe", nil, nil, nil, 8.0, "/items/2-robe", "https://img/2.jpg", at},
		{"1", "Jupe", "Zara", "S / 36 / 8", "Très bon état", 12.5, "/items/1-jupe", nil, at},
	}}

	got, err := scanListings(rows)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, &models.ListingRecord{
		ID: "2", Title: "Robe", Price: 8, URL: "/items/2-robe", PhotoURL: "https://img/2.jpg", ObservedAt: at,
	}, got[0])
	assert.Equal(t, &models.ListingRecord{
		ID: "1", Title: "Jupe", Brand: "Zara", Size: "S / 36 / 8", Condition: "Très bon état",
		Price: 12.5, URL: "/items/1-jupe", ObservedAt: at,
	}, got[1])
}

func TestScanListingsErrors(t *testing.T) {
	boom := errors.New("boom")

	_, err := scanListings(&fakeRows{rows: [][]any{{}}, scanErr: boom})
	assert.ErrorIs(t, err, boom)

	_, err = scanListings(&fakeRows{iterErr: boom})
	assert.ErrorIs(t, err, boom)
}

var _ ListingFetcher = (*PostgresWriter)(nil)
