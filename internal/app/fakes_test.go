package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"apt_reviews/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func loadBatch(t *testing.T) domain.BatchFile {
	t.Helper()
	b, err := os.ReadFile(filepath.Join("testdata", "fetch-batch-0.json"))
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var bf domain.BatchFile
	if err := json.Unmarshal(b, &bf); err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return bf
}

// activeSubmission is the complete submission of the batch fixture.
func activeSubmission(t *testing.T) domain.Submission {
	t.Helper()
	return loadBatch(t).Content[0]
}

// withAnswer returns a copy of sub whose answer named name is replaced.
func withAnswer(sub domain.Submission, name string, a domain.RawAnswer) domain.Submission {
	out := sub
	out.Answers = append(domain.AnswerSet(nil), sub.Answers...)
	for i := range out.Answers {
		if out.Answers[i].Name == name {
			out.Answers[i].Answer = a
		}
	}
	return out
}

/********** repository **********/

type fakeRepo struct {
	mu sync.Mutex

	exists    bool
	existsErr error
	aptErr    error
	suiteErr  error
	reviewErr error

	calls      []string
	apartments []domain.Apartment
	suites     []domain.Suite
	reviews    []domain.Review

	// read side
	view    domain.ApartmentView
	page    domain.ApartmentsPage
	rpage   domain.ReviewsPage
	readErr error
	reads   int
}

func (f *fakeRepo) record(c string) {
	f.mu.Lock()
	f.calls = append(f.calls, c)
	f.mu.Unlock()
}

func (f *fakeRepo) ApartmentExists(_ context.Context, _, _, _ *string) (bool, error) {
	f.record("exists")
	return f.exists, f.existsErr
}

func (f *fakeRepo) InsertApartment(_ context.Context, a domain.Apartment) (int64, error) {
	f.record("apartment")
	if f.aptErr != nil {
		return 0, f.aptErr
	}
	f.apartments = append(f.apartments, a)
	return int64(100 + len(f.apartments)), nil
}

func (f *fakeRepo) InsertSuite(_ context.Context, s domain.Suite) (int64, error) {
	f.record("suite")
	if f.suiteErr != nil {
		return 0, f.suiteErr
	}
	f.suites = append(f.suites, s)
	return int64(200 + len(f.suites)), nil
}

func (f *fakeRepo) InsertReview(_ context.Context, r domain.Review) (int64, error) {
	f.record("review")
	if f.reviewErr != nil {
		return 0, f.reviewErr
	}
	f.reviews = append(f.reviews, r)
	return int64(300 + len(f.reviews)), nil
}

func (f *fakeRepo) GetApartment(_ context.Context, id int64) (domain.ApartmentView, error) {
	f.reads++
	if f.readErr != nil {
		return domain.ApartmentView{}, f.readErr
	}
	return f.view, nil
}

func (f *fakeRepo) ListApartments(_ context.Context, _ domain.ApartmentsQuery) (domain.ApartmentsPage, error) {
	f.reads++
	return f.page, f.readErr
}

func (f *fakeRepo) ListReviews(_ context.Context, _ int64, _ domain.PageQuery) (domain.ReviewsPage, error) {
	f.reads++
	return f.rpage, f.readErr
}

/********** external services **********/

type fakeGeocoder struct {
	res   domain.GeocodeResult
	err   error
	calls []string
}

func (g *fakeGeocoder) Geocode(_ context.Context, address string) (domain.GeocodeResult, error) {
	g.calls = append(g.calls, address)
	return g.res, g.err
}

func okGeocode() domain.GeocodeResult {
	return domain.GeocodeResult{
		Status: domain.GeocodeOK,
		Results: []domain.GeocodeCandidate{{
			AddressComponents: []domain.AddressComponent{
				{LongName: "1", Types: []string{"street_number"}},
				{LongName: "Rue Test", Types: []string{"route"}},
				{LongName: "Montréal", Types: []string{"locality", "political"}},
				{LongName: "Québec", Types: []string{"administrative_area_level_1", "political"}},
				{LongName: "H2X 1Y4", Types: []string{"postal_code"}},
				{LongName: "Canada", Types: []string{"country", "political"}},
			},
			Geometry: domain.Geometry{Location: domain.Coords{Lat: 45.5, Lng: -73.6}},
		}},
	}
}

type fakeImagery struct {
	body  string
	err   error
	calls []domain.Coords
}

func (i *fakeImagery) Download(_ context.Context, loc domain.Coords) (io.ReadCloser, error) {
	i.calls = append(i.calls, loc)
	if i.err != nil {
		return nil, i.err
	}
	return io.NopCloser(strings.NewReader(i.body)), nil
}

type fakeAssets struct {
	objects map[string]string
	err     error
}

func (a *fakeAssets) Put(_ context.Context, name string, r io.Reader) error {
	if a.err != nil {
		return a.err
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if a.objects == nil {
		a.objects = map[string]string{}
	}
	a.objects[name] = string(b)
	return nil
}

func (a *fakeAssets) PublicURL(name string) string {
	return "https://storage.test/object/public/apt-images/" + name
}

/********** cache **********/

// fakeCache stores JSON so every read hands back a fresh value.
type fakeCache struct {
	store  map[string][]byte
	getErr error
	sets   int
}

func (c *fakeCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}

func (c *fakeCache) Set(_ context.Context, key string, v any, _ int) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	c.store[key] = b
	c.sets++
	return nil
}

func (c *fakeCache) Del(_ context.Context, key string) error {
	delete(c.store, key)
	return nil
}

/********** batch files & forms **********/

type fakeBatchStore struct {
	mu      sync.Mutex
	names   []string
	files   map[string][]byte
	listErr error
	readErr error
	wErr    error
}

func (s *fakeBatchStore) List(context.Context) ([]string, error) {
	return s.names, s.listErr
}

func (s *fakeBatchStore) Read(_ context.Context, name string) ([]byte, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	b, ok := s.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (s *fakeBatchStore) Write(_ context.Context, name string, b []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.wErr != nil {
		return s.wErr
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = b
	return nil
}

type fakeForms struct {
	mu      sync.Mutex
	pages   map[int]string
	offsets []int
	limits  []int
}

var errPageDown = errors.New("forms api unavailable")

func (f *fakeForms) FetchPage(_ context.Context, limit, offset int) ([]byte, error) {
	f.mu.Lock()
	f.offsets = append(f.offsets, offset)
	f.limits = append(f.limits, limit)
	f.mu.Unlock()
	p, ok := f.pages[offset]
	if !ok {
		return nil, errPageDown
	}
	return []byte(p), nil
}
