package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yessbangal/agency-web/internal/access"
)

// Client calls a remote verify-admin endpoint.
type Client struct {
	url  string
	http *http.Client
}

// NewClient constructs a Client. A zero timeout falls back to five seconds.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{url: url, http: &http.Client{Timeout: timeout}}
}

// VerifyAdmin implements access.Verifier over HTTP. The two stale-session error strings map to
// access errors whatever the status code; every other failure is verification-unavailable.
func (c *Client) VerifyAdmin(ctx context.Context, token string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, nil)
	if err != nil {
		return false, fmt.Errorf("verify-admin: build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("verify-admin: %w", err)
	}
	defer res.Body.Close()

	var body Response
	if err := json.NewDecoder(io.LimitReader(res.Body, 64<<10)).Decode(&body); err != nil {
		return false, fmt.Errorf("verify-admin: decode status %d: %w", res.StatusCode, err)
	}
	switch body.Error {
	case MsgNotAuthenticated:
		return false, access.ErrNotAuthenticated
	case MsgNoAuthorization:
		return false, access.ErrNoAuthorization
	}
	if res.StatusCode != http.StatusOK {
		return false, fmt.Errorf("verify-admin: status %d: %s", res.StatusCode, body.Error)
	}
	return body.IsAdmin, nil
}

var _ access.Verifier = (*Client)(nil)
