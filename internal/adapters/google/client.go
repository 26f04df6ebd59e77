// Package google talks to the Google Maps Geocoding and Street View Static APIs.
package google

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api"

// Option configures a client.
type Option func(*client)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) { c.http = hc }
}

// WithLimiter paces calls through l. Geocoding and Street View share a
// project quota, so callers usually pass the same limiter to both.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *client) { c.limiter = l }
}

type client struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

func newClient(apiKey string, opts []Option) client {
	c := client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 20 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, o := range opts {
		o(&c)
	}
	return c
}
