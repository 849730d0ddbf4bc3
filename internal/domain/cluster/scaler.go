package cluster

import (
	"fmt"
	"math"

	"github.com/okian/insightify/internal/domain/model"
)

// ScalerKind names the transform a Scaler applies.
type ScalerKind string

const (
	// ScalerStandard computes (x - mean) / scale.
	ScalerStandard ScalerKind = "standard"
	// ScalerMinMax computes (x - dataMin) / (dataMax - dataMin) mapped into a feature range.
	ScalerMinMax ScalerKind = "minmax"
)

// Scaler is a pre-fitted, immutable per-feature transform.
type Scaler struct {
	kind   ScalerKind
	offset []float64
	scale  []float64
	// output range for minmax
	lo, hi float64
	// fitted bounds used for domain checks
	fitLo, fitHi []float64
}

// NewStandardScaler builds a standard scaler from fitted means and scales.
func NewStandardScaler(mean, scale []float64) (*Scaler, error) {
	if len(mean) == 0 || len(mean) != len(scale) {
		return nil, fmt.Errorf("%w: mean has %d entries, scale has %d", ErrRaggedMatrix, len(mean), len(scale))
	}
	if err := finite(mean); err != nil {
		return nil, err
	}
	for i, s := range scale {
		if s == 0 || math.IsNaN(s) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("%w: index %d", ErrInvalidScale, i)
		}
	}
	return &Scaler{
		kind:   ScalerStandard,
		offset: clone(mean),
		scale:  clone(scale),
		fitLo:  clone(mean),
		fitHi:  clone(mean),
	}, nil
}

// NewMinMaxScaler builds a min-max scaler from the fitted data bounds and the
// target feature range. Constant features map to the lower end of the range.
func NewMinMaxScaler(dataMin, dataMax []float64, lo, hi float64) (*Scaler, error) {
	if len(dataMin) == 0 || len(dataMin) != len(dataMax) {
		return nil, fmt.Errorf("%w: data_min has %d entries, data_max has %d", ErrRaggedMatrix, len(dataMin), len(dataMax))
	}
	if err := finite(dataMin); err != nil {
		return nil, err
	}
	if err := finite(dataMax); err != nil {
		return nil, err
	}
	if !(hi > lo) || math.IsInf(hi, 0) || math.IsInf(lo, 0) {
		return nil, fmt.Errorf("%w: feature range [%v, %v]", ErrInvalidScale, lo, hi)
	}
	scale := make([]float64, len(dataMin))
	for i := range dataMin {
		span := dataMax[i] - dataMin[i]
		if span < 0 {
			return nil, fmt.Errorf("%w: data_max below data_min at index %d", ErrInvalidScale, i)
		}
		if span == 0 {
			span = 1
		}
		scale[i] = span
	}
	return &Scaler{
		kind:   ScalerMinMax,
		offset: clone(dataMin),
		scale:  scale,
		lo:     lo,
		hi:     hi,
		fitLo:  clone(dataMin),
		fitHi:  clone(dataMax),
	}, nil
}

// Kind reports the transform kind.
func (s *Scaler) Kind() ScalerKind { return s.kind }

// Dim is the number of features the scaler expects.
func (s *Scaler) Dim() int { return len(s.offset) }

// FittedRange returns the fitted bounds of feature i: the mean twice for a
// standard scaler, data min and max for a min-max scaler.
func (s *Scaler) FittedRange(i int) (float64, float64) {
	return s.fitLo[i], s.fitHi[i]
}

// Transform scales x. The input is not modified.
func (s *Scaler) Transform(x []float64) ([]float64, error) {
	if len(x) != len(s.offset) {
		return nil, fmt.Errorf("%w: scaler expects %d features, got %d", model.ErrContractViolation, len(s.offset), len(x))
	}
	out := make([]float64, len(x))
	for i, v := range x {
		z := (v - s.offset[i]) / s.scale[i]
		if s.kind == ScalerMinMax {
			z = z*(s.hi-s.lo) + s.lo
		}
		out[i] = z
	}
	return out, nil
}

func finite(xs []float64) error {
	for i, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
	}
	return nil
}

func clone(xs []float64) []float64 {
	out := make([]float64, len(xs))
	copy(out, xs)
	return out
}
