package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/domain"
)

// SubmissionIngester is the per-submission pipeline the batch runner drives.
type SubmissionIngester interface {
	IngestSubmission(ctx context.Context, sub domain.Submission) (IngestResult, error)
}

type Summary struct {
	Files       int
	BadFiles    int
	Submissions int
	Created     int
	Inactive    int
	GeocodeMiss int
	Duplicate   int
	Failed      int
}

func (s *Summary) count(o Outcome) {
	switch o {
	case OutcomeCreated:
		s.Created++
	case OutcomeInactive:
		s.Inactive++
	case OutcomeGeocodeMiss:
		s.GeocodeMiss++
	case OutcomeDuplicate:
		s.Duplicate++
	case OutcomeFailed:
		s.Failed++
	}
}

// BatchRunner feeds every submission of every batch file, one at a time,
// to the ingester.
type BatchRunner struct {
	store domain.BatchStore
	ing   SubmissionIngester
}

func NewBatchRunner(store domain.BatchStore, ing SubmissionIngester) *BatchRunner {
	return &BatchRunner{store: store, ing: ing}
}

// Run returns an error only for problems that stop the whole run: listing
// or reading batch files, or ctx cancellation. Unparseable files and
// failed submissions are logged and counted.
func (r *BatchRunner) Run(ctx context.Context) (Summary, error) {
	var sum Summary

	names, err := r.store.List(ctx)
	if err != nil {
		return sum, fmt.Errorf("list batch files: %w", err)
	}

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		raw, err := r.store.Read(ctx, name)
		if err != nil {
			return sum, fmt.Errorf("read batch file %s: %w", name, err)
		}
		sum.Files++

		var batch domain.BatchFile
		if err := json.Unmarshal(raw, &batch); err != nil {
			sum.BadFiles++
			log.Error().Err(err).Str("file", name).Msg("parse batch file failed")
			continue
		}
		log.Info().Str("file", name).Int("submissions", len(batch.Content)).Msg("processing batch file")

		for _, sub := range batch.Content {
			if err := ctx.Err(); err != nil {
				return sum, err
			}
			sum.Submissions++
			if sub.Status != domain.StatusActive {
				sum.count(OutcomeInactive)
				observability.ObserveIngest(string(OutcomeInactive))
				continue
			}

			res, err := r.ing.IngestSubmission(ctx, sub)
			if err != nil {
				res.Outcome = OutcomeFailed
				log.Error().Err(err).
					Str("error_type", observability.LabelErr(errors.Unwrap(err))).
					Str("file", name).
					Str("submission", sub.ID).
					Str("stage", string(res.Stage)).
					Msg("submission aborted")
			}
			sum.count(res.Outcome)
			observability.ObserveIngest(string(res.Outcome))
		}
	}
	return sum, nil
}
