package app

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"apt_reviews/internal/adapters/observability"
	"apt_reviews/internal/domain"
)

type FetchSummary struct {
	Pages   int
	Written int
	Empty   int
	Failed  int
}

// FetchService pages through the forms API and writes each non-empty page
// as its own batch file.
type FetchService struct {
	forms     domain.FormsClient
	store     domain.BatchStore
	batchSize int
	max       int
	workers   int
}

func NewFetchService(c domain.FormsClient, store domain.BatchStore, batchSize, max, workers int) *FetchService {
	if batchSize <= 0 {
		batchSize = 20
	}
	if max <= 0 {
		max = 300
	}
	if workers <= 0 {
		workers = 1
	}
	return &FetchService{forms: c, store: store, batchSize: batchSize, max: max, workers: workers}
}

// Run fetches offsets 0, batchSize, 2*batchSize ... below max. A page that
// cannot be fetched or parsed is logged and skipped; a page that cannot be
// written stops the run.
func (s *FetchService) Run(ctx context.Context) (FetchSummary, error) {
	var (
		mu  sync.Mutex
		sum FetchSummary
	)
	tally := func(f func(*FetchSummary)) {
		mu.Lock()
		f(&sum)
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for offset := 0; offset < s.max; offset += s.batchSize {
		offset := offset
		g.Go(func() error {
			tally(func(x *FetchSummary) { x.Pages++ })
			l := log.With().Int("offset", offset).Logger()

			body, err := s.forms.FetchPage(gctx, s.batchSize, offset)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				tally(func(x *FetchSummary) { x.Failed++ })
				observability.ObserveFetchPage("failed")
				l.Error().Err(err).Msg("fetch page failed")
				return nil
			}

			var env struct {
				ResponseCode int               `json:"responseCode"`
				Message      string            `json:"message"`
				Content      []json.RawMessage `json:"content"`
			}
			if err := json.Unmarshal(body, &env); err != nil {
				tally(func(x *FetchSummary) { x.Failed++ })
				observability.ObserveFetchPage("failed")
				l.Error().Err(err).Msg("page is not a submissions envelope")
				return nil
			}
			if env.ResponseCode != 0 && env.ResponseCode != 200 {
				tally(func(x *FetchSummary) { x.Failed++ })
				observability.ObserveFetchPage("failed")
				l.Error().Int("code", env.ResponseCode).Str("message", env.Message).Msg("forms API rejected page")
				return nil
			}
			if len(env.Content) == 0 {
				tally(func(x *FetchSummary) { x.Empty++ })
				observability.ObserveFetchPage("empty")
				l.Info().Msg("empty page, nothing written")
				return nil
			}

			l.Info().Int("submissions", len(env.Content)).Msg("running batch")
			name := domain.BatchFileName(offset)
			if err := s.store.Write(gctx, name, body); err != nil {
				return fmt.Errorf("write %s: %w", name, err)
			}
			tally(func(x *FetchSummary) { x.Written++ })
			observability.ObserveFetchPage("written")
			l.Info().Str("file", name).Msg("batch file created")
			return nil
		})
	}

	err := g.Wait()
	return sum, err
}
