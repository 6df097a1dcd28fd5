package scan

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/depexport/pkg/errors"
	"github.com/matzehuels/depexport/pkg/model"
	"github.com/matzehuels/depexport/pkg/observability"
	"github.com/matzehuels/depexport/pkg/registry"
)

// BatchSize is the number of coordinates sent per registry lookup.
const BatchSize = 50

// Resolution is the outcome of [Resolver.Resolve].
type Resolution struct {
	Components []model.Component // in batch order, possibly with duplicates
	Warnings   []Warning
}

// Resolver maps coordinates to components through the registry.
type Resolver struct {
	Registry    registry.Lookup
	URL         string // registry URL used in error messages
	Concurrency int    // parallel batches (default 1)
	Logger      *log.Logger
}

// Resolve looks up coords in batches of [BatchSize]. Batches may run
// concurrently but results are assembled in batch order. An empty input
// makes no registry call. Any registry failure aborts the whole resolution.
func (r *Resolver) Resolve(ctx context.Context, coords []model.Coordinate) (*Resolution, error) {
	res := &Resolution{}
	if len(coords) == 0 {
		return res, nil
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	batches := slices.Collect(slices.Chunk(coords, BatchSize))
	results := make([][]registry.ArtifactComponent, len(batches))
	hooks := observability.Export()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))
	for i, batch := range batches {
		g.Go(func() error {
			start := time.Now()
			found, err := r.Registry.FindComponents(gctx, batch)
			hooks.OnBatch(gctx, len(batch), time.Since(start), err)
			if err != nil {
				return err
			}
			logger.Debug("registry batch resolved", "batch", i+1, "of", len(batches), "artifacts", len(batch), "results", len(found))
			results[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if errors.Is(err, errors.ErrCodeRegistry) {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeRegistry, err, "failed to query components registry at '%s'", r.URL)
	}

	for _, batch := range results {
		for _, ac := range batch {
			if ac.Component == nil {
				w := Warning{Kind: WarningUnmappedArtifact, Subject: ac.Artifact.String()}
				logger.Warn("no component found for artifact", "artifact", w.Subject)
				res.Warnings = append(res.Warnings, w)
				continue
			}
			res.Components = append(res.Components, *ac.Component)
		}
	}
	return res, nil
}
