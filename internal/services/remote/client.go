package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yomarr/yomarr/internal/config"
)

const apiVersion = "1"

// Client handles communication with the remote persistent store: the durable,
// cross-device copy of progress and library state. It is only ever written to
// from this process; reads happen on other devices.
type Client struct {
	baseURL    string
	apiKey     string
	sessions   SessionStore
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient creates a new remote store client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	sessions, err := NewFileSessionStore(cfg.SessionFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create session store: %w", err)
	}

	return &Client{
		baseURL:    cfg.RemoteURL,
		apiKey:     cfg.RemoteAPIKey,
		sessions:   sessions,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}, nil
}

// CurrentUserID returns the authenticated user, or "" when no session exists.
// Sync jobs degrade to no-ops for anonymous users.
func (c *Client) CurrentUserID() string {
	session, err := c.sessions.GetSession()
	if err != nil || session == nil {
		return ""
	}
	return session.UserID
}

// doRequest performs an authenticated HTTP request against the remote store
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making remote store request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("yomarr-api-version", apiVersion)
	req.Header.Set("yomarr-api-key", c.apiKey)

	if session, err := c.sessions.GetSession(); err == nil && session != nil {
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("remote store request failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}
