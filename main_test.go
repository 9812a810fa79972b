package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"vinted-scraper/models"
	"vinted-scraper/storage"
	"vinted-scraper/utils"
)

type fakeWriter struct {
	name string
}

func (f *fakeWriter) Name() string { return f.name }
func (f *fakeWriter) Write(context.Context, []*models.ListingRecord) error {
	return nil
}
func (f *fakeWriter) Close() error { return nil }

type fakeFetchingWriter struct {
	fakeWriter
	stored []*models.ListingRecord
	err    error
}

func (f *fakeFetchingWriter) FetchAll(context.Context) ([]*models.ListingRecord, error) {
	return f.stored, f.err
}

func TestInsightListingsPrefersStoredTable(t *testing.T) {
	final := []*models.ListingRecord{{ID: "1"}}
	table := []*models.ListingRecord{{ID: "0"}, {ID: "1"}}

	got := insightListings(context.Background(), []storage.ListingWriter{
		&fakeWriter{name: "csv"},
		&fakeFetchingWriter{fakeWriter: fakeWriter{name: "postgres"}, stored: table},
	}, final, utils.NewDiscardLogger())

	assert.Equal(t, table, got)
}

func TestInsightListingsFallsBackToBatch(t *testing.T) {
	final := []*models.ListingRecord{{ID: "1"}}

	got := insightListings(context.Background(), []storage.ListingWriter{&fakeWriter{name: "csv"}},
		final, utils.NewDiscardLogger())
	assert.Equal(t, final, got)

	got = insightListings(context.Background(), []storage.ListingWriter{
		&fakeFetchingWriter{fakeWriter: fakeWriter{name: "postgres"}, err: errors.New("conn reset")},
	}, final, utils.NewDiscardLogger())
	assert.Equal(t, final, got)
}
