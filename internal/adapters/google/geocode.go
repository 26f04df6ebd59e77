package google

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/domain"
)

// Geocoder resolves free-text addresses with the Geocoding API.
type Geocoder struct {
	client
}

func NewGeocoder(apiKey string, opts ...Option) *Geocoder {
	return &Geocoder{client: newClient(apiKey, opts)}
}

// Geocode returns the API envelope as is. A non-OK API status is not an
// error; transport failures and non-200 HTTP statuses are.
func (g *Geocoder) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	if g.apiKey == "" {
		return domain.GeocodeResult{}, eris.New("google: geocoding api key not configured")
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return domain.GeocodeResult{}, eris.Wrap(err, "google: geocode rate limit")
	}

	params := url.Values{
		"address": {address},
		"key":     {g.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/geocode/json?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodeResult{}, eris.Wrap(err, "google: geocode build request")
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	if err != nil {
		observability.ObserveExternal("google", "geocode", 0, time.Since(start))
		return domain.GeocodeResult{}, eris.Wrap(err, "google: geocode request")
	}
	defer resp.Body.Close() //nolint:errcheck
	observability.ObserveExternal("google", "geocode", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return domain.GeocodeResult{}, eris.Errorf("google: geocode returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.GeocodeResult{}, eris.Wrap(err, "google: geocode read body")
	}
	var out domain.GeocodeResult
	if err := json.Unmarshal(body, &out); err != nil {
		return domain.GeocodeResult{}, eris.Wrap(err, "google: geocode parse response")
	}
	return out, nil
}
