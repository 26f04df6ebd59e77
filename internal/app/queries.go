package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"apt_reviews/internal/domain"
)

// maxCachedBytes keeps oversized pages out of the cache.
const maxCachedBytes = 1_000_000

// QueryService serves the read API through a read-through cache. Only
// successful reads are cached.
type QueryService struct {
	repo     domain.ApartmentRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.ApartmentRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetApartment(ctx context.Context, id int64) (domain.ApartmentView, error) {
	return readThrough(ctx, s, fmt.Sprintf("apartment:%d", id), func() (domain.ApartmentView, error) {
		return s.repo.GetApartment(ctx, id)
	})
}

func (s *QueryService) ListApartments(ctx context.Context, q domain.ApartmentsQuery) (domain.ApartmentsPage, error) {
	city := ""
	if q.City != nil {
		city = strings.ToLower(*q.City)
	}
	key := fmt.Sprintf("apartments:%s:%d", city, q.Limit)
	return readThrough(ctx, s, key, func() (domain.ApartmentsPage, error) {
		return s.repo.ListApartments(ctx, q)
	})
}

func (s *QueryService) ListReviews(ctx context.Context, aptID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	key := fmt.Sprintf("reviews:%d:%d", aptID, pg.Limit)
	return readThrough(ctx, s, key, func() (domain.ReviewsPage, error) {
		return s.repo.ListReviews(ctx, aptID, pg)
	})
}

// readThrough stores the JSON form of the loaded value, so callers never
// share memory with what sits in the cache.
func readThrough[T any](ctx context.Context, s *QueryService, key string, load func() (T, error)) (T, error) {
	var out T
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	b, err := json.Marshal(v)
	if err != nil || len(b) >= maxCachedBytes {
		return v, nil
	}
	_ = s.cache.Set(ctx, key, json.RawMessage(b), int(s.cacheTTL.Seconds()))

	// hand back a decoded copy so the caller can't mutate the repo's slices
	var fresh T
	if err := json.Unmarshal(b, &fresh); err != nil {
		return v, nil
	}
	return fresh, nil
}
