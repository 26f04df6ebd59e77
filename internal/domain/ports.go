package domain

import (
	"context"
	"io"
)

type ApartmentRepository interface {
	// Write paths
	ApartmentExists(ctx context.Context, streetNumber, route, city *string) (bool, error)
	InsertApartment(ctx context.Context, a Apartment) (int64, error)
	InsertSuite(ctx context.Context, s Suite) (int64, error)
	InsertReview(ctx context.Context, r Review) (int64, error)

	// Read paths
	GetApartment(ctx context.Context, id int64) (ApartmentView, error)
	ListApartments(ctx context.Context, q ApartmentsQuery) (ApartmentsPage, error)
	ListReviews(ctx context.Context, aptID int64, pg PageQuery) (ReviewsPage, error)
}

// FormsClient returns one raw page of the submissions envelope.
type FormsClient interface {
	FetchPage(ctx context.Context, limit, offset int) ([]byte, error)
}

type Geocoder interface {
	Geocode(ctx context.Context, address string) (GeocodeResult, error)
}

type StreetImagery interface {
	Download(ctx context.Context, loc Coords) (io.ReadCloser, error)
}

type AssetStore interface {
	Put(ctx context.Context, name string, r io.Reader) error
	PublicURL(name string) string
}

type BatchStore interface {
	List(ctx context.Context) ([]string, error)
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, b []byte) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
