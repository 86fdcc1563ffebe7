// Package practicum talks to the homework-status API: one authorized GET,
// a fail-closed report decode, and the status-to-verdict translation.
package practicum

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// ErrAPI is the single error kind for everything that can go wrong while
// talking to the endpoint: transport failure, non-200 status, non-JSON body.
// Callers match with errors.Is and read the wrapped detail for logging.
var ErrAPI = errors.New("homework API error")

const maxBodyBytes = 4 << 20 // the status payload is tiny; anything bigger is garbage

// Client performs the timestamped status request. It holds no cursor state;
// the watcher owns that.
type Client struct {
	endpoint string
	token    string
	http     *http.Client
}

func NewClient(endpoint, token string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("practicum: endpoint is empty")
	}
	if strings.TrimSpace(token) == "" {
		return nil, errors.New("practicum: token is empty")
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		token:    token,
		http:     &http.Client{Timeout: timeout},
	}, nil
}

// HomeworkStatuses fetches updates since the given cursor (seconds since
// epoch) and returns the raw JSON body. Shape checking happens in
// ParseReport, not here.
//
// No retries: the watcher's next cycle is the retry.
func (c *Client) HomeworkStatuses(ctx context.Context, from int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %v", ErrAPI, c.endpoint, err)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)

	q := url.Values{}
	q.Set("from_date", strconv.FormatInt(from, 10))
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", ErrAPI, c.endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response from %s: %v", ErrAPI, c.endpoint, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s returned status %d", ErrAPI, c.endpoint, resp.StatusCode)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response from %s is not JSON", ErrAPI, c.endpoint)
	}
	return body, nil
}
