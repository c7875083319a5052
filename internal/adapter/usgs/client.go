package usgs

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/quake-map/internal/domain"
	"github.com/couchcryptid/quake-map/internal/observability"
)

// maxErrorBody caps how much of a non-200 body ends up in an error message.
const maxErrorBody = 512

// Client fetches a USGS GeoJSON summary feed.
// It implements pipeline.FeedFetcher.
type Client struct {
	url        string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a feed client for url. The timeout bounds the whole
// request including reading the body.
func NewClient(url string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		metrics: metrics,
		logger:  logger,
	}
}

// URL returns the feed location.
func (c *Client) URL() string {
	return c.url
}

// Fetch issues a single GET and decodes the feed. There is no retry.
func (c *Client) Fetch(ctx context.Context) (domain.Feed, error) {
	start := time.Now()
	feed, err := c.doRequest(ctx)
	c.metrics.FeedFetchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.FeedFetches.WithLabelValues("error").Inc()
		return domain.Feed{}, err
	}
	c.metrics.FeedFetches.WithLabelValues("success").Inc()

	c.logger.Info("feed fetched",
		"url", c.url,
		"features", len(feed.Features),
		"title", feed.Metadata.Title,
		"duration", time.Since(start),
	)
	return feed, nil
}

func (c *Client) doRequest(ctx context.Context) (domain.Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Feed{}, fmt.Errorf("feed request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return domain.Feed{}, fmt.Errorf("usgs feed error: status %d: %s", resp.StatusCode, body)
	}

	return domain.DecodeFeed(resp.Body)
}
