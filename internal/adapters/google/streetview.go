package google

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/domain"
)

// StreetView downloads Street View Static API images.
type StreetView struct {
	client
	size string
	fov  int
}

func NewStreetView(apiKey string, opts ...Option) *StreetView {
	return &StreetView{client: newClient(apiKey, opts), size: "800x450", fov: 110}
}

// Download returns the JPEG stream for loc. The caller closes it.
func (s *StreetView) Download(ctx context.Context, loc domain.Coords) (io.ReadCloser, error) {
	if s.apiKey == "" {
		return nil, eris.New("google: street view api key not configured")
	}
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "google: street view rate limit")
	}

	params := url.Values{
		"size":     {s.size},
		"location": {strconv.FormatFloat(loc.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(loc.Lng, 'f', -1, 64)},
		"fov":      {strconv.Itoa(s.fov)},
		"pitch":    {"0"},
		"key":      {s.apiKey},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/streetview?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "google: street view build request")
	}

	start := time.Now()
	resp, err := s.http.Do(req)
	if err != nil {
		observability.ObserveExternal("google", "streetview", 0, time.Since(start))
		return nil, eris.Wrap(err, "google: street view request")
	}
	observability.ObserveExternal("google", "streetview", resp.StatusCode, time.Since(start))

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close() //nolint:errcheck
		return nil, eris.Errorf("google: street view returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return resp.Body, nil
}
