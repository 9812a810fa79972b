package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"vinted-scraper/models"
	"vinted-scraper/utils"
)

// ErrSinkRejected is returned when the REST endpoint answers with a non-2xx status.
var ErrSinkRejected = errors.New("rest: batch rejected")

// RESTWriter upserts listings through a PostgREST endpoint (e.g. Supabase),
// resolving conflicts on item_id.
type RESTWriter struct {
	httpClient *http.Client
	projectURL string
	apiKey     string
	table      string
	retry      *utils.RetryConfig
	logger     *utils.Logger
}

// NewRESTWriter creates a writer for {projectURL}/rest/v1/{table}.
func NewRESTWriter(projectURL, apiKey, table string, maxRetries int, logger *utils.Logger) *RESTWriter {
	return &RESTWriter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		projectURL: projectURL,
		apiKey:     apiKey,
		table:      table,
		retry: &utils.RetryConfig{
			MaxAttempts: maxRetries,
			BaseDelay:   time.Second,
			Logger:      logger,
		},
		logger: logger,
	}
}

func (r *RESTWriter) Name() string { return "rest:" + r.table }

type restRow struct {
	ItemID    string  `json:"item_id"`
	Title     string  `json:"title"`
	Brand     *string `json:"brand"`
	Size      *string `json:"size"`
	Condition *string `json:"condition"`
	Price     float64 `json:"price"`
	URL       string  `json:"url"`
	PhotoURL  *string `json:"photo_url"`
	ScrapedAt string  `json:"scraped_at"`
}

func toRESTRow(l *models.ListingRecord) restRow {
	return restRow{
		ItemID:    l.ID,
		Title:     l.Title,
		Brand:     optional(l.Brand),
		Size:      optional(l.Size),
		Condition: optional(l.Condition),
		Price:     l.Price,
		URL:       l.URL,
		PhotoURL:  optional(l.PhotoURL),
		ScrapedAt: l.ObservedAt.UTC().Format(time.RFC3339Nano),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (r *RESTWriter) endpoint() string {
	return r.projectURL + "/rest/v1/" + url.PathEscape(r.table) + "?on_conflict=item_id"
}

// Write sends the whole batch as one POST.
func (r *RESTWriter) Write(ctx context.Context, listings []*models.ListingRecord) error {
	if len(listings) == 0 {
		return nil
	}

	rows := make([]restRow, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, toRESTRow(l))
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("rest: encode batch: %w", err)
	}

	r.logger.Info("[rest] Sending %d listings to %s", len(rows), r.table)
	return r.retry.Do(ctx, "rest-upsert", func() error {
		return r.post(ctx, body)
	})
}

func (r *RESTWriter) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("rest: create request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("rest: post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("%w: status %d: %s", ErrSinkRejected, resp.StatusCode, bytes.TrimSpace(msg))
		if resp.StatusCode < 500 {
			// 4xx answers repeat on every attempt
			return utils.Permanent(err)
		}
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (r *RESTWriter) Close() error {
	r.httpClient.CloseIdleConnections()
	return nil
}
