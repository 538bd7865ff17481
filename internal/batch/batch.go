// Package batch runs independent map-match queries concurrently. Each Job
// owns its own decoder (and therefore its own graph and index instances);
// no mutable state crosses goroutines, so the core matcher packages stay
// synchronous exactly as designed while this layer supplies the
// concurrency.
package batch

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/matcher"
	"github.com/udisondev/geomatch/internal/observation"
)

// Decoder is the surface batch needs from a matcher.ViterbiMapMatcher:
// decode an observation sequence into scored, ranked candidate paths.
type Decoder interface {
	Decode(observations []geom.Point) ([]matcher.ScoredPath, error)
}

// Job is one independent match query. ID is used to correlate its Result
// in logs and is generated via uuid if left blank.
type Job struct {
	ID       string
	Decoder  Decoder
	Sequence observation.Sequence
}

// Result pairs a Job's identifier with its decode outcome.
type Result struct {
	JobID string
	Paths []matcher.ScoredPath
	Err   error
}

// MatchAll runs every job concurrently via errgroup, collecting results in
// job order regardless of completion order. A single job's error is
// captured in its own Result rather than aborting the others — independent
// trips failing independently is the point of this layer, so MatchAll
// itself only ever returns a non-nil error for a context already
// cancelled before any job could run.
func MatchAll(ctx context.Context, jobs []Job) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]Result, len(jobs))
	g, gctx := errgroup.WithContext(ctx)

	for i, job := range jobs {
		i, job := i, job
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{JobID: job.ID, Err: err}
				return nil
			}
			paths, err := job.Decoder.Decode(job.Sequence.Points())
			if err != nil {
				results[i] = Result{JobID: job.ID, Err: fmt.Errorf("job %s: %w", job.ID, err)}
				return nil
			}
			results[i] = Result{JobID: job.ID, Paths: paths}
			return nil
		})
	}

	_ = g.Wait()
	return results, nil
}
