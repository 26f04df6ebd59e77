package mysql

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apt_reviews/internal/domain"
)

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *Repo) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock, New(db)
}

func pstr(s string) *string { return &s }

var apartmentCols = []string{"id", "street_number", "route", "city", "province", "postal", "country", "lat", "lng", "image", "created_at"}

func TestApartmentExists(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT 1 FROM apartment`).
		WithArgs("1", "Rue Test", "Montréal").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	found, err := repo.ApartmentExists(ctx, pstr("1"), pstr("Rue Test"), pstr("Montréal"))
	require.NoError(t, err)
	assert.True(t, found)

	// missing components are sent as NULL for the null-safe comparison
	mock.ExpectQuery(`SELECT 1 FROM apartment`).
		WithArgs(nil, "Rue Test", "Montréal").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))
	found, err = repo.ApartmentExists(ctx, nil, pstr("Rue Test"), pstr("Montréal"))
	require.NoError(t, err)
	assert.False(t, found)

	mock.ExpectQuery(`SELECT 1 FROM apartment`).WillReturnError(errors.New("conn reset"))
	_, err = repo.ApartmentExists(ctx, nil, nil, nil)
	require.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertApartmentAndSuite(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	ctx := context.Background()

	mock.ExpectExec(`INSERT INTO apartment`).
		WithArgs("1", "Rue Test", "Montréal", "QC", nil, "Canada", 45.5, -73.6, "https://s/object/public/b/1.jpg").
		WillReturnResult(sqlmock.NewResult(12, 1))
	id, err := repo.InsertApartment(ctx, domain.Apartment{
		StreetNumber: pstr("1"), Route: pstr("Rue Test"), City: pstr("Montréal"),
		Province: pstr("QC"), Country: pstr("Canada"),
		Lat: 45.5, Lng: -73.6, Image: "https://s/object/public/b/1.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), id)

	mock.ExpectExec(`INSERT INTO suite`).
		WithArgs(int64(12), "4B").
		WillReturnResult(sqlmock.NewResult(3, 1))
	sid, err := repo.InsertSuite(ctx, domain.Suite{ApartmentID: 12, Door: pstr("4B")})
	require.NoError(t, err)
	assert.Equal(t, int64(3), sid)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReview_NullableColumns(t *testing.T) {
	_, mock, repo := setupMockDB(t)

	args := make([]driver.Value, len(reviewColumns))
	for i := range args {
		args[i] = sqlmock.AnyArg()
	}
	args[0] = int64(12) // apt_id
	args[1] = nil       // suite_id
	args[16] = int64(-1)
	args[len(args)-1] = nil // global_comment

	minus := -1
	mock.ExpectExec(`INSERT INTO review \(apt_id, suite_id, price`).
		WithArgs(args...).
		WillReturnResult(sqlmock.NewResult(99, 1))

	id, err := repo.InsertReview(context.Background(), domain.Review{ApartmentID: 12, Duration: 1, CritterSolved: &minus})
	require.NoError(t, err)
	assert.Equal(t, int64(99), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReview_Error(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	mock.ExpectExec(`INSERT INTO review`).WillReturnError(errors.New("fk violation"))

	_, err := repo.InsertReview(context.Background(), domain.Review{ApartmentID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert review")
}

func TestGetApartment(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM apartment WHERE id = \?`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows(apartmentCols).
			AddRow(12, "1", "Rue Test", "Montréal", "QC", nil, "Canada", 45.5, -73.6, "img", now))
	mock.ExpectQuery(`FROM suite WHERE apt_id = \?`).
		WithArgs(int64(12)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "apt_id", "door", "created_at"}).
			AddRow(3, 12, "4B", now))

	av, err := repo.GetApartment(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, int64(12), av.ID)
	assert.Equal(t, "Montréal", *av.City)
	assert.Nil(t, av.PostalCode)
	require.Len(t, av.Suites, 1)
	assert.Equal(t, "4B", *av.Suites[0].Door)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetApartment_NotFound(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	mock.ExpectQuery(`FROM apartment WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(apartmentCols))

	_, err := repo.GetApartment(context.Background(), 7)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestListApartments_CityFilter(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	now := time.Now()

	mock.ExpectQuery(`FROM apartment WHERE city = \? ORDER BY id LIMIT \?`).
		WithArgs("Montréal", 20).
		WillReturnRows(sqlmock.NewRows(apartmentCols).
			AddRow(1, "1", "Rue A", "Montréal", nil, nil, nil, 1.0, 2.0, "a", now).
			AddRow(2, nil, "Rue B", "Montréal", nil, nil, nil, 3.0, 4.0, "b", now))

	page, err := repo.ListApartments(context.Background(), domain.ApartmentsQuery{City: pstr("Montréal"), Limit: 20})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Nil(t, page.Items[1].StreetNumber)

	mock.ExpectQuery(`FROM apartment ORDER BY id LIMIT \?`).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(apartmentCols))
	page, err = repo.ListApartments(context.Background(), domain.ApartmentsQuery{Limit: 5})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListReviews(t *testing.T) {
	_, mock, repo := setupMockDB(t)
	now := time.Now()

	cols := append(append([]string{"id"}, reviewColumns...), "created_at")
	row := []driver.Value{int64(5)}
	for _, c := range reviewColumns {
		switch c {
		case "apt_id":
			row = append(row, int64(12))
		case "suite_id", "price", "neighborhood_comment":
			row = append(row, nil)
		case "last_year":
			row = append(row, int64(2022))
		case "critter_solved":
			row = append(row, int64(-1))
		case "global_comment":
			row = append(row, "Très bien")
		case "duration", "sound", "light", "interior", "outdoor", "garden", "common_part",
			"neighborhood_note", "neighborhood_safety", "accessibility",
			"owner_relationship", "owner_communication", "owner_reactivity":
			row = append(row, int64(3))
		default:
			row = append(row, c == "electricity")
		}
	}
	row = append(row, now)

	mock.ExpectQuery(`FROM review WHERE apt_id = \? ORDER BY created_at DESC, id DESC LIMIT \?`).
		WithArgs(int64(12), 50).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(row...))

	page, err := repo.ListReviews(context.Background(), 12, domain.PageQuery{Limit: 50})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	rv := page.Items[0]
	assert.Equal(t, int64(12), rv.ApartmentID)
	assert.Nil(t, rv.SuiteID)
	assert.Nil(t, rv.Price)
	assert.Equal(t, 2022, *rv.LastYear)
	assert.Equal(t, -1, *rv.CritterSolved)
	assert.True(t, rv.Electricity)
	assert.False(t, rv.Internet)
	assert.Equal(t, 3, rv.OwnerReactivity)
	assert.Equal(t, "Très bien", *rv.GlobalComment)
	assert.NoError(t, mock.ExpectationsWereMet())
}
