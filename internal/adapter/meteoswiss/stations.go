package meteoswiss

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
	"github.com/wolkenbruch/swissmeteo-etl/internal/observability"
)

// StationClient fetches the semicolon-delimited current-measurement CSV, one
// row per observation station.
type StationClient struct {
	url        string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewStationClient creates a station feed client.
func NewStationClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *StationClient {
	return &StationClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("stations"),
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchRows retrieves the feed and returns one map per station row, keyed by
// the CSV header columns.
func (c *StationClient) FetchRows(ctx context.Context) ([]map[string]string, error) {
	start := time.Now()

	req, err := http.NewRequest(http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build station feed request: %w", err)
	}

	resp, err := doRequest(ctx, c.httpClient, c.breaker, req)
	if err != nil {
		c.metrics.FeedFetchErrors.WithLabelValues("stations").Inc()
		return nil, fmt.Errorf("fetch station feed: %w", err)
	}
	defer resp.Body.Close()

	rows, err := parseStationCSV(resp.Body)
	if err != nil {
		c.metrics.FeedFetchErrors.WithLabelValues("stations").Inc()
		return nil, fmt.Errorf("parse station feed: %w", err)
	}

	c.metrics.FeedFetchDuration.WithLabelValues("stations").Observe(time.Since(start).Seconds())
	c.logger.Debug("station feed fetched", "rows", len(rows))
	return rows, nil
}

// CurrentForStation fetches the feed and normalizes the row matching code
// (case-insensitive). The second return is false when the station is absent
// from the feed; that is an expected outcome, not an error.
func (c *StationClient) CurrentForStation(ctx context.Context, code string) (domain.CurrentObservation, bool, error) {
	rows, err := c.FetchRows(ctx)
	if err != nil {
		return domain.CurrentObservation{}, false, err
	}

	row, ok := domain.FindStationRow(rows, code)
	if !ok {
		return domain.CurrentObservation{}, false, nil
	}
	return domain.ObservationFromRow(row), true, nil
}

// AllObservations fetches the feed and normalizes every station row.
func (c *StationClient) AllObservations(ctx context.Context) ([]domain.CurrentObservation, error) {
	rows, err := c.FetchRows(ctx)
	if err != nil {
		return nil, err
	}

	observations := make([]domain.CurrentObservation, 0, len(rows))
	for _, row := range rows {
		observations = append(observations, domain.ObservationFromRow(row))
	}
	return observations, nil
}

// parseStationCSV reads the feed's semicolon-delimited records into maps
// keyed by the header row. Rows shorter than the header are skipped rather
// than failing the whole feed.
func parseStationCSV(r io.Reader) ([]map[string]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.New("empty station feed")
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < len(header) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}
