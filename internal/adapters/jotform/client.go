// Package jotform reads form submissions from the Jotform REST API.
package jotform

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/domain"
)

const DefaultBaseURL = "https://api.jotform.com"

type Client struct {
	base   string
	formID string
	key    string
	hc     *http.Client
	rl     *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

func New(base, formID, key string, rps int, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, eris.New("jotform: API key is required")
	}
	if formID == "" {
		return nil, eris.New("jotform: form id is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		formID: formID,
		key:    key,
		hc:     &http.Client{Timeout: 20 * time.Second},
		rl:     rate.NewLimiter(rate.Limit(rps), rps),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// FetchPage returns the raw submissions envelope for one page.
func (c *Client) FetchPage(ctx context.Context, limit, offset int) ([]byte, error) {
	// client-side rate limiting
	if err := c.rl.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{
		"apiKey": {c.key},
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
	}
	u := fmt.Sprintf("%s/form/%s/submissions?%s", c.base, url.PathEscape(c.formID), q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "jotform: build request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "apt-reviews/1.0")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("jotform", "submissions", 0, time.Since(start))
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, eris.Wrap(err, "jotform: request")
	}
	defer resp.Body.Close()
	observability.ObserveExternal("jotform", "submissions", resp.StatusCode, time.Since(start))

	switch resp.StatusCode {
	case http.StatusOK:
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, eris.Wrap(err, "jotform: read body")
		}
		return b, nil

	case http.StatusNotFound:
		return nil, fmt.Errorf("jotform: form %s: %w", c.formID, domain.ErrNotFound)

	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("jotform: status %d: %w", resp.StatusCode, domain.ErrUnauthorized)

	default:
		// read a small error body for diagnostics
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, eris.Errorf("jotform: bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
}
