package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"apt_reviews/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt64(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

func ptrStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
func ptrInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}
func ptrInt64(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	i := ni.Int64
	return &i
}

type rowScanner interface {
	Scan(dest ...any) error
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) ApartmentExists(ctx context.Context, streetNumber, route, city *string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, apartmentExistsSQL, valStr(streetNumber), valStr(route), valStr(city)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("apartment exists: %w", err)
	}
	return true, nil
}

func (r *Repo) InsertApartment(ctx context.Context, a domain.Apartment) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertApartmentSQL,
		valStr(a.StreetNumber),
		valStr(a.Route),
		valStr(a.City),
		valStr(a.Province),
		valStr(a.PostalCode),
		valStr(a.Country),
		a.Lat,
		a.Lng,
		a.Image,
	)
	if err != nil {
		return 0, fmt.Errorf("insert apartment: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repo) InsertSuite(ctx context.Context, s domain.Suite) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertSuiteSQL, s.ApartmentID, valStr(s.Door))
	if err != nil {
		return 0, fmt.Errorf("insert suite: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repo) InsertReview(ctx context.Context, rv domain.Review) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertReviewSQL, reviewArgs(rv)...)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}
	return res.LastInsertId()
}

func reviewArgs(rv domain.Review) []any {
	return []any{
		rv.ApartmentID, valInt64(rv.SuiteID), valInt(rv.Price), valInt(rv.LastYear), rv.Duration,
		rv.Electricity, rv.Internet, rv.Furniture, rv.Heat, rv.Water,
		rv.Bedbugs, rv.Cockroaches, rv.Ants, rv.Mouses, rv.Rats, rv.Wasps, valInt(rv.CritterSolved),
		rv.Mold, rv.Moisture, rv.Leak,
		rv.Lamination, rv.Frost, rv.Condensation,
		rv.Sound, rv.Light, rv.Interior, rv.Outdoor, rv.Garden, rv.CommonPart,
		rv.Noise, rv.PublicTransport, valStr(rv.NeighborhoodComment), rv.NeighborhoodNote,
		rv.NeighborhoodSafety, rv.Accessibility, rv.Parking, rv.SnowRemoval,
		rv.OwnerRelationship, rv.OwnerCommunication, rv.OwnerReactivity,
		valStr(rv.GlobalComment),
	}
}

func scanApartment(sc rowScanner) (domain.Apartment, error) {
	var a domain.Apartment
	var streetNumber, route, city, province, postal, country sql.NullString
	if err := sc.Scan(
		&a.ID,
		&streetNumber, &route, &city,
		&province, &postal, &country,
		&a.Lat, &a.Lng,
		&a.Image,
		&a.CreatedAt,
	); err != nil {
		return domain.Apartment{}, err
	}
	a.StreetNumber = ptrStr(streetNumber)
	a.Route = ptrStr(route)
	a.City = ptrStr(city)
	a.Province = ptrStr(province)
	a.PostalCode = ptrStr(postal)
	a.Country = ptrStr(country)
	return a, nil
}

func scanReview(sc rowScanner) (domain.Review, error) {
	var rv domain.Review
	var suiteID, price, lastYear, critterSolved sql.NullInt64
	var neighborhoodComment, globalComment sql.NullString
	if err := sc.Scan(
		&rv.ID,
		&rv.ApartmentID, &suiteID, &price, &lastYear, &rv.Duration,
		&rv.Electricity, &rv.Internet, &rv.Furniture, &rv.Heat, &rv.Water,
		&rv.Bedbugs, &rv.Cockroaches, &rv.Ants, &rv.Mouses, &rv.Rats, &rv.Wasps, &critterSolved,
		&rv.Mold, &rv.Moisture, &rv.Leak,
		&rv.Lamination, &rv.Frost, &rv.Condensation,
		&rv.Sound, &rv.Light, &rv.Interior, &rv.Outdoor, &rv.Garden, &rv.CommonPart,
		&rv.Noise, &rv.PublicTransport, &neighborhoodComment, &rv.NeighborhoodNote,
		&rv.NeighborhoodSafety, &rv.Accessibility, &rv.Parking, &rv.SnowRemoval,
		&rv.OwnerRelationship, &rv.OwnerCommunication, &rv.OwnerReactivity,
		&globalComment,
		&rv.CreatedAt,
	); err != nil {
		return domain.Review{}, err
	}
	rv.SuiteID = ptrInt64(suiteID)
	rv.Price = ptrInt(price)
	rv.LastYear = ptrInt(lastYear)
	rv.CritterSolved = ptrInt(critterSolved)
	rv.NeighborhoodComment = ptrStr(neighborhoodComment)
	rv.GlobalComment = ptrStr(globalComment)
	return rv, nil
}

func (r *Repo) GetApartment(ctx context.Context, id int64) (domain.ApartmentView, error) {
	a, err := scanApartment(r.db.QueryRowContext(ctx, getApartmentSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ApartmentView{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.ApartmentView{}, err
	}

	rows, err := r.db.QueryContext(ctx, listSuitesSQL, id)
	if err != nil {
		return domain.ApartmentView{}, err
	}
	defer rows.Close()

	av := domain.ApartmentView{Apartment: a, Suites: []domain.Suite{}}
	for rows.Next() {
		var s domain.Suite
		var door sql.NullString
		if err := rows.Scan(&s.ID, &s.ApartmentID, &door, &s.CreatedAt); err != nil {
			return domain.ApartmentView{}, err
		}
		s.Door = ptrStr(door)
		av.Suites = append(av.Suites, s)
	}
	if err := rows.Err(); err != nil {
		return domain.ApartmentView{}, err
	}
	return av, nil
}

func (r *Repo) ListApartments(ctx context.Context, q domain.ApartmentsQuery) (domain.ApartmentsPage, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if q.City != nil {
		rows, err = r.db.QueryContext(ctx, listApartmentsByCitySQL, *q.City, q.Limit)
	} else {
		rows, err = r.db.QueryContext(ctx, listApartmentsSQL, q.Limit)
	}
	if err != nil {
		return domain.ApartmentsPage{}, err
	}
	defer rows.Close()

	out := []domain.Apartment{}
	for rows.Next() {
		a, err := scanApartment(rows)
		if err != nil {
			return domain.ApartmentsPage{}, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return domain.ApartmentsPage{}, err
	}
	return domain.ApartmentsPage{Items: out}, nil
}

// ListReviews returns newest first.
func (r *Repo) ListReviews(ctx context.Context, aptID int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	rows, err := r.db.QueryContext(ctx, listReviewsSQL, aptID, pg.Limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	out := []domain.Review{}
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return domain.ReviewsPage{}, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}
