package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

var (
	// ErrUnauthorized means the serving tier rejected the shared token.
	// Retrying cannot help; the deployment is misconfigured.
	ErrUnauthorized = errors.New("callback rejected: invalid credential")

	// ErrMediaNotFound means the callback referenced a media id with no
	// durable record. Nothing was mutated.
	ErrMediaNotFound = errors.New("callback rejected: unknown media")
)

// Sender delivers a terminal outcome to the serving tier.
type Sender interface {
	Send(ctx context.Context, mediaID, status string) error
}

// Client posts completion callbacks over HTTP with the shared token.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(url, token string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		url:    url,
		token:  token,
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type callbackBody struct {
	MediaID string `json:"media_id"`
	Status  string `json:"status"`
}

// Send posts {media_id, status} to the completion callback endpoint.
// A non-2xx response other than 401/404 is reported as a plain error so the
// caller can treat it as transient; the endpoint is idempotent, so retrying
// a delivery is always safe.
func (c *Client) Send(ctx context.Context, mediaID, status string) error {
	body, err := json.Marshal(callbackBody{
		MediaID: mediaID,
		Status:  status,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal callback body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build callback request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver callback: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.logger.Info("Completion callback delivered",
			slog.String("media_id", mediaID),
			slog.String("status", status),
		)
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return ErrMediaNotFound
	default:
		return fmt.Errorf("callback returned status %d", resp.StatusCode)
	}
}
