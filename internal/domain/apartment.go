package domain

import "time"

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// NormalizedAddress is what the pipeline keeps from a geocode result.
// (StreetNumber, Route, City) is the apartment's natural key.
type NormalizedAddress struct {
	StreetNumber *string
	Route        *string
	City         *string
	Province     *string
	PostalCode   *string
	Country      *string
	Location     Coords
}

type Apartment struct {
	ID           int64     `json:"id"`
	StreetNumber *string   `json:"street_number"`
	Route        *string   `json:"route"`
	City         *string   `json:"city"`
	Province     *string   `json:"province"`
	PostalCode   *string   `json:"postal"`
	Country      *string   `json:"country"`
	Lat          float64   `json:"lat"`
	Lng          float64   `json:"lng"`
	Image        string    `json:"image"`
	CreatedAt    time.Time `json:"created_at"`
}

// Suite is a unit inside an apartment building. A nil Door never reaches
// storage: no suite row is created when the submission names no unit.
type Suite struct {
	ID          int64     `json:"id"`
	ApartmentID int64     `json:"apt_id"`
	Door        *string   `json:"door"`
	CreatedAt   time.Time `json:"created_at"`
}

// Read models & queries
type ApartmentView struct {
	Apartment
	Suites []Suite `json:"suites"`
}

type ApartmentsQuery struct {
	City  *string
	Limit int
}

type PageQuery struct {
	Limit int
}

type ApartmentsPage struct {
	Items []Apartment `json:"items"`
}

type ReviewsPage struct {
	Items []Review `json:"items"`
}
