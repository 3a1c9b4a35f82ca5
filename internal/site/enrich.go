package site

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/maraisdata/seatmap/pkg/affluences"
)

// Enricher runs per-site detail fetches with bounded concurrency.
type Enricher struct {
	client      affluences.Client
	concurrency int
}

// NewEnricher creates an Enricher. Concurrency below 1 is clamped to 1.
func NewEnricher(client affluences.Client, concurrency int) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{client: client, concurrency: concurrency}
}

// Enrich fetches the detail record for every summary and builds the final
// Site slice, in input order regardless of fetch completion order.
//
// A failed detail fetch is logged and skipped: the site still appears in
// the output, built from listing-level data alone. Only context
// cancellation aborts the batch. The returned count is the number of
// detail fetches that failed.
func (e *Enricher) Enrich(ctx context.Context, summaries []affluences.SiteSummary) ([]Site, int, error) {
	sites := make([]Site, len(summaries))
	var failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)

	for i, summary := range summaries {
		i, summary := i, summary
		g.Go(func() error {
			log := zap.L().With(zap.String("slug", summary.Slug))

			detail, err := e.client.GetSite(gctx, summary.Slug)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Warn("detail fetch failed, using listing data", zap.Error(err))
				failed.Add(1)
				detail = nil
			}

			sites[i] = Build(summary, detail)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, int(failed.Load()), err
	}

	return sites, int(failed.Load()), nil
}
