package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/domain"
)

type Stage string

const (
	StageStart              Stage = "start"
	StageGeocoded           Stage = "geocoded"
	StageDedupChecked       Stage = "dedup_checked"
	StageImageStored        Stage = "image_stored"
	StageApartmentPersisted Stage = "apartment_persisted"
	StageSuitePersisted     Stage = "suite_persisted"
	StageReviewPersisted    Stage = "review_persisted"
	StageDone               Stage = "done"
	StageAborted            Stage = "aborted"
)

type Outcome string

const (
	OutcomeCreated     Outcome = "created"
	OutcomeInactive    Outcome = "inactive"
	OutcomeGeocodeMiss Outcome = "geocode_miss"
	OutcomeDuplicate   Outcome = "duplicate"
	OutcomeFailed      Outcome = "failed"
)

// DedupPolicy decides what a failed duplicate lookup means.
type DedupPolicy string

const (
	// DedupProceed treats a failed lookup as "not found" and inserts.
	DedupProceed DedupPolicy = "proceed"
	// DedupSkip treats a failed lookup as "found" and skips the submission.
	DedupSkip DedupPolicy = "skip"
)

// IngestResult reports how far a submission went. Stage is the last stage
// reached; on error it is the stage the submission was aborted from.
type IngestResult struct {
	Outcome     Outcome
	Stage       Stage
	Slug        string
	ApartmentID int64
	SuiteID     *int64
	ReviewID    int64
}

type IngestionService struct {
	geo     domain.Geocoder
	imagery domain.StreetImagery
	assets  domain.AssetStore
	repo    domain.ApartmentRepository
	policy  DedupPolicy
}

func NewIngestionService(g domain.Geocoder, img domain.StreetImagery, assets domain.AssetStore, r domain.ApartmentRepository, policy DedupPolicy) *IngestionService {
	if policy != DedupSkip {
		policy = DedupProceed
	}
	return &IngestionService{geo: g, imagery: img, assets: assets, repo: r, policy: policy}
}

func (s *IngestionService) IngestSubmission(ctx context.Context, sub domain.Submission) (IngestResult, error) {
	res := IngestResult{Stage: StageStart}
	if sub.Status != domain.StatusActive {
		res.Outcome = OutcomeInactive
		return res, nil
	}

	start := time.Now()
	reach := func(st Stage) {
		res.Stage = st
		observability.ObserveStage(string(st), time.Since(start))
	}
	abort := func(err error) (IngestResult, error) {
		res.Outcome = OutcomeFailed
		return res, fmt.Errorf("submission %s at %s: %w", sub.ID, res.Stage, err)
	}

	// 1) Resolve everything the rows need before any external call, so a
	// malformed submission never leaves an orphan apartment behind.
	ix := NewAnswerIndex(sub.Answers)
	address, addrErr := ix.Find("address")
	if addrErr == nil && (address.Blank() || address.IsComposite()) {
		addrErr = fmt.Errorf("%w: address is blank", domain.ErrMissingField)
	}
	door, doorErr := SuiteDoor(ix)
	review, reviewErr := BuildReview(ix)
	if err := errors.Join(addrErr, doorErr, reviewErr); err != nil {
		return abort(err)
	}
	res.Slug = Slugify(address.Text())
	logger := log.With().Str("submission", sub.ID).Str("slug", res.Slug).Logger()

	// 2) Geocode. Anything but OK ends the submission quietly.
	geo, err := s.geo.Geocode(ctx, res.Slug)
	if err != nil {
		return abort(fmt.Errorf("geocode: %w", err))
	}
	addr, ok := NormalizeAddress(geo)
	if !ok {
		res.Outcome = OutcomeGeocodeMiss
		logger.Info().Str("status", geo.Status).Msg("geocode returned no usable result")
		return res, nil
	}
	reach(StageGeocoded)

	// 3) Dedup on (street_number, route, city).
	exists := s.exists(ctx, addr)
	reach(StageDedupChecked)
	if exists {
		res.Outcome = OutcomeDuplicate
		logger.Info().Str("address", describeAddress(addr)).Msg("apartment already exists")
		return res, nil
	}

	// 4) Street imagery; a failed download still records the public URL.
	image := s.storeImage(ctx, res.Slug, addr.Location)
	reach(StageImageStored)

	// 5) Rows: apartment, then the optional suite, then the review.
	res.ApartmentID, err = s.repo.InsertApartment(ctx, BuildApartment(addr, image))
	if err != nil {
		return abort(fmt.Errorf("insert apartment: %w", err))
	}
	reach(StageApartmentPersisted)
	logger.Info().Int64("apartment", res.ApartmentID).Msg("apartment created")

	if door != nil {
		suiteID, err := s.repo.InsertSuite(ctx, BuildSuite(res.ApartmentID, door))
		if err != nil {
			return abort(fmt.Errorf("insert suite: %w", err))
		}
		res.SuiteID = &suiteID
		reach(StageSuitePersisted)
	}

	review.ApartmentID = res.ApartmentID
	review.SuiteID = res.SuiteID
	res.ReviewID, err = s.repo.InsertReview(ctx, review)
	if err != nil {
		return abort(fmt.Errorf("insert review: %w", err))
	}
	reach(StageReviewPersisted)

	ev := logger.Info().Int64("apartment", res.ApartmentID).Int64("review", res.ReviewID)
	if res.SuiteID != nil {
		ev = ev.Int64("suite", *res.SuiteID)
	}
	ev.Msg("review created")

	res.Outcome = OutcomeCreated
	reach(StageDone)
	return res, nil
}

func (s *IngestionService) exists(ctx context.Context, addr domain.NormalizedAddress) bool {
	found, err := s.repo.ApartmentExists(ctx, addr.StreetNumber, addr.Route, addr.City)
	if err != nil {
		log.Error().Err(err).
			Str("address", describeAddress(addr)).
			Str("policy", string(s.policy)).
			Msg("duplicate lookup failed")
		return s.policy == DedupSkip
	}
	return found
}

func (s *IngestionService) storeImage(ctx context.Context, slug string, loc domain.Coords) string {
	name := slug + ".jpg"
	url := s.assets.PublicURL(name)

	body, err := s.imagery.Download(ctx, loc)
	if err != nil {
		log.Error().Err(err).Str("asset", name).Msg("street imagery download failed")
		return url
	}
	defer body.Close()

	if err := s.assets.Put(ctx, name, body); err != nil {
		log.Error().Err(err).Str("asset", name).Msg("store street imagery failed")
		return url
	}
	log.Debug().Str("asset", name).Msg("image stored")
	return url
}
