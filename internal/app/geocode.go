package app

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"apt_reviews/internal/domain"
)

// NormalizeAddress keeps the first candidate of an OK geocode result.
// Components are keyed by their first type label only; a later component
// with the same first label replaces an earlier one.
func NormalizeAddress(res domain.GeocodeResult) (domain.NormalizedAddress, bool) {
	if res.Status != domain.GeocodeOK || len(res.Results) == 0 {
		return domain.NormalizedAddress{}, false
	}
	first := res.Results[0]
	byType := make(map[string]string, len(first.AddressComponents))
	for _, c := range first.AddressComponents {
		if len(c.Types) == 0 {
			continue
		}
		byType[c.Types[0]] = c.LongName
	}
	get := func(k string) *string {
		if v, ok := byType[k]; ok {
			return &v
		}
		return nil
	}
	return domain.NormalizedAddress{
		StreetNumber: get("street_number"),
		Route:        get("route"),
		City:         get("locality"),
		Province:     get("administrative_area_level_1"),
		PostalCode:   get("postal_code"),
		Country:      get("country"),
		Location:     first.Geometry.Location,
	}, true
}

// describeAddress renders the dedup key for log lines.
func describeAddress(a domain.NormalizedAddress) string {
	return strings.Join([]string{deref(a.StreetNumber), deref(a.Route), deref(a.City)}, " ")
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// CachedGeocoder remembers OK results so reruns over the same batches do
// not spend geocoding quota twice.
type CachedGeocoder struct {
	next  domain.Geocoder
	cache domain.Cache
	ttl   time.Duration
}

func NewCachedGeocoder(next domain.Geocoder, cache domain.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (domain.GeocodeResult, error) {
	key := "geocode:" + address
	var hit domain.GeocodeResult
	if ok, err := g.cache.Get(ctx, key, &hit); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("geocode cache read failed")
	} else if ok {
		return hit, nil
	}

	res, err := g.next.Geocode(ctx, address)
	if err != nil {
		return res, err
	}
	if res.Status == domain.GeocodeOK {
		if err := g.cache.Set(ctx, key, res, int(g.ttl.Seconds())); err != nil {
			log.Debug().Err(err).Str("key", key).Msg("geocode cache write failed")
		}
	}
	return res, nil
}
