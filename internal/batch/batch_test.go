package batch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/matcher"
	"github.com/udisondev/geomatch/internal/observation"
)

type fakeDecoder struct {
	score float64
	err   error
}

func (f fakeDecoder) Decode(observations []geom.Point) ([]matcher.ScoredPath, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []matcher.ScoredPath{{Score: f.score}}, nil
}

func sequenceOf(n int) observation.Sequence {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	obs := make([]observation.Observation, n)
	for i := range obs {
		obs[i] = observation.Observation{Point: geom.NewPoint(float64(i), 0), Timestamp: base.Add(time.Duration(i) * time.Second)}
	}
	return observation.Sequence{Observations: obs}
}

func TestMatchAll_RunsJobsConcurrentlyInOrder(t *testing.T) {
	jobs := []Job{
		{ID: "trip-1", Decoder: fakeDecoder{score: 1}, Sequence: sequenceOf(3)},
		{ID: "trip-2", Decoder: fakeDecoder{score: 2}, Sequence: sequenceOf(3)},
		{ID: "trip-3", Decoder: fakeDecoder{score: 3}, Sequence: sequenceOf(3)},
	}
	results, err := MatchAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("MatchAll() error = %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("MatchAll() len = %d, want 3", len(results))
	}
	for i, r := range results {
		if r.JobID != jobs[i].ID {
			t.Errorf("results[%d].JobID = %q, want %q (order preserved)", i, r.JobID, jobs[i].ID)
		}
		if r.Err != nil {
			t.Errorf("results[%d].Err = %v, want nil", i, r.Err)
		}
	}
}

func TestMatchAll_PerJobErrorDoesNotAbortOthers(t *testing.T) {
	jobs := []Job{
		{ID: "good", Decoder: fakeDecoder{score: 1}, Sequence: sequenceOf(2)},
		{ID: "bad", Decoder: fakeDecoder{err: errors.New("boom")}, Sequence: sequenceOf(2)},
	}
	results, err := MatchAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("MatchAll() error = %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("results[0].Err = %v, want nil", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("results[1].Err = nil, want an error")
	}
}

func TestMatchAll_GeneratesJobIDWhenBlank(t *testing.T) {
	jobs := []Job{{Decoder: fakeDecoder{score: 1}, Sequence: sequenceOf(2)}}
	results, err := MatchAll(context.Background(), jobs)
	if err != nil {
		t.Fatalf("MatchAll() error = %v", err)
	}
	if results[0].JobID == "" {
		t.Error("results[0].JobID = \"\", want a generated uuid")
	}
}

func TestMatchAll_CancelledContextBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := MatchAll(ctx, []Job{{Decoder: fakeDecoder{score: 1}, Sequence: sequenceOf(1)}}); err == nil {
		t.Error("MatchAll() with cancelled context: want error, got nil")
	}
}
