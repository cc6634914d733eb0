package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/nws-alert-monitor/internal/domain"
	"github.com/couchcryptid/nws-alert-monitor/internal/observability"
)

// Client reads the NWS active-alerts feed.
// It implements pipeline.Fetcher.
type Client struct {
	url        string
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
	fetched    atomic.Bool
}

// NewClient creates a feed client for the given endpoint.
func NewClient(url, userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url:       url,
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Fetch returns the records currently on the feed. Transport, status and
// decode failures are logged and yield an empty result; there is no retry.
func (c *Client) Fetch(ctx context.Context) []domain.RawAlertRecord {
	records, err := c.fetch(ctx)
	if err != nil {
		c.metrics.FetchErrors.Inc()
		c.logger.Error("fetch alerts failed", "url", c.url, "error", err)
		return []domain.RawAlertRecord{}
	}
	c.metrics.AlertsFetched.Add(float64(len(records)))
	c.fetched.Store(true)
	return records
}

// CheckReadiness returns nil once the feed has been read successfully at least once.
func (c *Client) CheckReadiness(_ context.Context) error {
	if !c.fetched.Load() {
		return errors.New("alerts feed has not been fetched successfully yet")
	}
	return nil
}

func (c *Client) fetch(ctx context.Context) ([]domain.RawAlertRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alerts request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, body)
	}

	return DecodeFeed(resp.Body)
}

// DecodeFeed reads a GeoJSON alert FeatureCollection. Only a malformed
// collection is an error; a feature whose properties are missing, null or of
// the wrong type yields empty strings for those fields.
func DecodeFeed(r io.Reader) ([]domain.RawAlertRecord, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	records := make([]domain.RawAlertRecord, 0, len(fc.Features))
	for _, raw := range fc.Features {
		records = append(records, decodeRecord(raw))
	}
	return records, nil
}

func decodeRecord(raw json.RawMessage) domain.RawAlertRecord {
	var f feature
	if err := json.Unmarshal(raw, &f); err != nil {
		return domain.RawAlertRecord{}
	}
	return domain.RawAlertRecord{
		Event:       stringField(f.Properties, "event"),
		Headline:    stringField(f.Properties, "headline"),
		Description: stringField(f.Properties, "description"),
		AreaDesc:    stringField(f.Properties, "areaDesc"),
	}
}

func stringField(props map[string]any, key string) string {
	s, _ := props[key].(string)
	return s
}

// NWS API response types. Features are decoded one at a time so a single bad
// record cannot discard the rest of the feed.

type featureCollection struct {
	Features []json.RawMessage `json:"features"`
}

type feature struct {
	Properties map[string]any `json:"properties"`
}
