// Package mmerrors defines the closed set of error kinds surfaced across the
// geomatch API boundary. Internal numerical corner cases are handled locally
// by branching to an equivalent stable formula and never escalate here.
package mmerrors

import "errors"

// Sentinel errors for the map-matching pipeline. Every error returned across
// a package boundary wraps one of these with fmt.Errorf("...: %w", ...), so
// callers can test with errors.Is.
var (
	// ErrBadArgument signals malformed input: wrong dimension, a
	// non-positive radius, a null region, and similar caller mistakes.
	ErrBadArgument = errors.New("bad argument")

	// ErrNoGraph signals a matcher was asked to run against an empty road
	// graph.
	ErrNoGraph = errors.New("no graph")

	// ErrNoObservations signals an empty observation sequence.
	ErrNoObservations = errors.New("no observations")

	// ErrBuildLocked signals a mutation attempt against an index that only
	// supports build-once semantics (the HPR-tree) after build() has run.
	ErrBuildLocked = errors.New("index build locked")

	// ErrMaximumTreeDepth signals the succinct k-d tree's implicit
	// level-order addressing has been exhausted; the caller is expected to
	// call Rebalance.
	ErrMaximumTreeDepth = errors.New("maximum tree depth reached")

	// ErrCancelled signals a caller-supplied cancellation token tripped
	// during a long-running decode.
	ErrCancelled = errors.New("cancelled")
)
