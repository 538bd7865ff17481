// Package kalman implements the optional constant-velocity pre-filter used
// to smooth noisy GPS observations before they reach the spatial indexes.
// It is a named external collaborator: the matcher never requires it.
package kalman

import (
	"context"

	"gonum.org/v1/gonum/mat"

	"github.com/udisondev/geomatch/internal/geom"
	"github.com/udisondev/geomatch/internal/mmerrors"
	"github.com/udisondev/geomatch/internal/observation"
)

// Smoother smooths a sequence of observations. Implementations must
// preserve sequence length and ordering; only the points may change.
type Smoother interface {
	Smooth(ctx context.Context, obs []observation.Observation) ([]observation.Observation, error)
}

// ConstantVelocityFilter is a discrete 4-state (x, y, vx, vy) Kalman filter.
// State transitions assume constant velocity between fixes; process and
// measurement noise are configured independently of the fix spacing, which
// is instead derived per-step from consecutive timestamps.
type ConstantVelocityFilter struct {
	ProcessNoise     float64
	MeasurementNoise float64
}

// NewConstantVelocityFilter builds a filter with the given process and
// measurement noise variances.
func NewConstantVelocityFilter(processNoise, measurementNoise float64) ConstantVelocityFilter {
	return ConstantVelocityFilter{ProcessNoise: processNoise, MeasurementNoise: measurementNoise}
}

// Smooth runs the filter forward over obs, returning a new sequence of the
// same length with smoothed points. The first observation is used to seed
// the initial state with zero velocity. Respects ctx cancellation between
// steps for long sequences.
func (f ConstantVelocityFilter) Smooth(ctx context.Context, obs []observation.Observation) ([]observation.Observation, error) {
	if len(obs) == 0 {
		return nil, mmerrors.ErrNoObservations
	}

	out := make([]observation.Observation, len(obs))
	out[0] = obs[0]

	state := mat.NewVecDense(4, []float64{obs[0].Point.X, obs[0].Point.Y, 0, 0})
	cov := identity(4, f.ProcessNoise)

	for i := 1; i < len(obs); i++ {
		select {
		case <-ctx.Done():
			return nil, mmerrors.ErrCancelled
		default:
		}

		dt := obs[i].Timestamp.Sub(obs[i-1].Timestamp).Seconds()
		if dt <= 0 {
			dt = 1
		}

		state, cov = f.predict(state, cov, dt)
		state, cov = f.update(state, cov, obs[i].Point.X, obs[i].Point.Y)

		out[i] = observation.Observation{
			Point:     geom.NewPoint(state.AtVec(0), state.AtVec(1)),
			Timestamp: obs[i].Timestamp,
		}
	}
	return out, nil
}

// predict advances state and covariance by dt under the constant-velocity
// transition model x' = x + v*dt.
func (f ConstantVelocityFilter) predict(state *mat.VecDense, cov *mat.Dense, dt float64) (*mat.VecDense, *mat.Dense) {
	transition := mat.NewDense(4, 4, []float64{
		1, 0, dt, 0,
		0, 1, 0, dt,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	var predicted mat.VecDense
	predicted.MulVec(transition, state)

	var tmp, predictedCov mat.Dense
	tmp.Mul(transition, cov)
	predictedCov.Mul(&tmp, transition.T())
	predictedCov.Add(&predictedCov, identity(4, f.ProcessNoise))

	return &predicted, &predictedCov
}

// update applies the position-only measurement (x, y) via the standard
// Kalman gain correction.
func (f ConstantVelocityFilter) update(state *mat.VecDense, cov *mat.Dense, mx, my float64) (*mat.VecDense, *mat.Dense) {
	observationMatrix := mat.NewDense(2, 4, []float64{
		1, 0, 0, 0,
		0, 1, 0, 0,
	})
	measurement := mat.NewVecDense(2, []float64{mx, my})
	measurementNoise := identity(2, f.MeasurementNoise)

	var innovation mat.VecDense
	innovation.MulVec(observationMatrix, state)
	innovation.SubVec(measurement, &innovation)

	var innovationCov mat.Dense
	var tmp mat.Dense
	tmp.Mul(observationMatrix, cov)
	innovationCov.Mul(&tmp, observationMatrix.T())
	innovationCov.Add(&innovationCov, measurementNoise)

	var innovationCovInv mat.Dense
	if err := innovationCovInv.Inverse(&innovationCov); err != nil {
		// Singular innovation covariance: skip the correction this step
		// rather than propagate NaNs into the smoothed sequence.
		return state, cov
	}

	var gain mat.Dense
	var tmp2 mat.Dense
	tmp2.Mul(cov, observationMatrix.T())
	gain.Mul(&tmp2, &innovationCovInv)

	var correction mat.VecDense
	correction.MulVec(&gain, &innovation)

	var updated mat.VecDense
	updated.AddVec(state, &correction)

	var gainObs mat.Dense
	gainObs.Mul(&gain, observationMatrix)
	var updatedCov mat.Dense
	updatedCov.Sub(identity(4, 1), &gainObs)
	updatedCov.Mul(&updatedCov, cov)

	return &updated, &updatedCov
}

func identity(n int, diag float64) *mat.Dense {
	m := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		m.Set(i, i, diag)
	}
	return m
}
