package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/config"
)

// UnitInfo describes one chapter/episode of a work as served by the catalog
type UnitInfo struct {
	Number     int    `json:"number"`
	TotalUnits int    `json:"total_units"`
	Title      string `json:"title"`
	Thumbnail  string `json:"thumbnail"`
}

// Client fetches content metadata from the catalog service. Unit lists are
// cached with a TTL since the aggregator queries them on demand, and fetches
// retry with capped backoff. This is a read path only.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *gocache.Cache
	logger     *logrus.Logger
}

// NewClient creates a new catalog client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	ttl := time.Duration(cfg.CatalogCacheMinutes) * time.Minute

	return &Client{
		baseURL:    cfg.CatalogURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      gocache.New(ttl, 2*ttl),
		logger:     logger,
	}, nil
}

// GetUnits retrieves the ordered unit list for a content item, from cache
// when fresh
func (c *Client) GetUnits(ctx context.Context, contentID string) ([]UnitInfo, error) {
	if cached, found := c.cache.Get(contentID); found {
		return cached.([]UnitInfo), nil
	}

	var units []UnitInfo
	operation := func() error {
		var err error
		units, err = c.fetchUnits(ctx, contentID)
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("failed to get units for %s: %w", contentID, err)
	}

	c.cache.Set(contentID, units, gocache.DefaultExpiration)
	return units, nil
}

// fetchUnits performs the actual catalog request
func (c *Client) fetchUnits(ctx context.Context, contentID string) ([]UnitInfo, error) {
	fullURL := fmt.Sprintf("%s/v1/contents/%s/units", c.baseURL, contentID)
	c.logger.WithField("url", fullURL).Debug("Fetching catalog units")

	req, err := http.NewRequestWithContext(ctx, "GET", fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("catalog request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var units []UnitInfo
	if err := json.NewDecoder(resp.Body).Decode(&units); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return units, nil
}
