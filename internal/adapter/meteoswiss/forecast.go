package meteoswiss

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wolkenbruch/swissmeteo-etl/internal/domain"
	"github.com/wolkenbruch/swissmeteo-etl/internal/observability"
)

// forecastUserAgent mimics the official app; the backend rejects unknown
// clients.
const forecastUserAgent = "android-31 ch.admin.meteoswiss-2160000"

// ForecastClient fetches the per-postal-code forecast JSON from the app
// backend.
type ForecastClient struct {
	baseURL    string
	language   string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewForecastClient creates a forecast feed client. language is the
// Accept-Language value (en, de, fr, it).
func NewForecastClient(baseURL, language string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *ForecastClient {
	return &ForecastClient{
		baseURL:    baseURL,
		language:   language,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    newBreaker("forecast"),
		metrics:    metrics,
		logger:     logger,
	}
}

// Forecast retrieves and parses the payload for postCode. An unparseable
// payload is an error: without it the whole poll cycle has nothing to
// publish.
func (c *ForecastClient) Forecast(ctx context.Context, postCode string) (*domain.ForecastPayload, error) {
	start := time.Now()

	u := fmt.Sprintf("%s?plz=%s", c.baseURL, url.QueryEscape(plzParam(postCode)))
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build forecast request: %w", err)
	}
	req.Header.Set("User-Agent", forecastUserAgent)
	req.Header.Set("Accept-Language", c.language)
	req.Header.Set("Accept", "application/json")

	resp, err := doRequest(ctx, c.httpClient, c.breaker, req)
	if err != nil {
		c.metrics.FeedFetchErrors.WithLabelValues("forecast").Inc()
		return nil, fmt.Errorf("fetch forecast feed: %w", err)
	}
	defer resp.Body.Close()

	var payload domain.ForecastPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.FeedFetchErrors.WithLabelValues("forecast").Inc()
		return nil, fmt.Errorf("parse forecast payload: %w", err)
	}

	c.metrics.FeedFetchDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())
	c.logger.Debug("forecast feed fetched", "post_code", postCode)
	return &payload, nil
}

// plzParam widens a four-digit postal code to the backend's six-digit zone
// form by right-padding with zeros: 8001 -> 800100.
func plzParam(postCode string) string {
	if len(postCode) >= 6 {
		return postCode
	}
	return postCode + strings.Repeat("0", 6-len(postCode))
}
