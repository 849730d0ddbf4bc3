// Package cluster maps scaled feature vectors to pre-trained clusters.
package cluster

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/insightify/internal/domain/model"
)

// Assignment is the raw result of an Assigner.
type Assignment struct {
	Cluster  int
	Distance float64
}

// Assigner maps a scaled vector to a cluster. Implementations are immutable
// and safe for concurrent use.
type Assigner interface {
	// Assign returns the chosen cluster and the distance to its center.
	Assign(ctx context.Context, scaled []float64) (Assignment, error)
	// Labels lists every cluster id the assigner can return.
	Labels() []int
	// Dim is the expected vector length.
	Dim() int
	// Strategy names the assignment strategy.
	Strategy() string
}

// Engine scales a feature vector and assigns it.
type Engine struct {
	scaler   *Scaler
	assigner Assigner
}

// NewEngine pairs a scaler with an assigner of the same dimension.
func NewEngine(scaler *Scaler, assigner Assigner) (*Engine, error) {
	if scaler == nil || assigner == nil {
		return nil, ErrNilEngineElement
	}
	if scaler.Dim() != assigner.Dim() {
		return nil, fmt.Errorf("%w: scaler %d, assigner %d", ErrDimensionMisfit, scaler.Dim(), assigner.Dim())
	}
	if scaler.Dim() != model.FeatureCount {
		return nil, fmt.Errorf("%w: engine built for %d features, vector has %d", ErrDimensionMisfit, scaler.Dim(), model.FeatureCount)
	}
	return &Engine{scaler: scaler, assigner: assigner}, nil
}

// Assign scales v and assigns it to a cluster.
func (e *Engine) Assign(ctx context.Context, v model.FeatureVector) (Assignment, error) {
	if err := ctx.Err(); err != nil {
		return Assignment{}, fmt.Errorf("context cancelled: %w", err)
	}
	if err := v.Validate(); err != nil {
		return Assignment{}, err
	}
	scaled, err := e.scaler.Transform(v.Values())
	if err != nil {
		return Assignment{}, err
	}
	return e.assigner.Assign(ctx, scaled)
}

// Scaler returns the engine's scaler.
func (e *Engine) Scaler() *Scaler { return e.scaler }

// Assigner returns the engine's assigner.
func (e *Engine) Assigner() Assigner { return e.assigner }

func euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

func checkDim(want int, x []float64) error {
	if len(x) != want {
		return fmt.Errorf("%w: expected %d dimensions, got %d", model.ErrContractViolation, want, len(x))
	}
	return nil
}

func checkMatrix(rows [][]float64) (int, error) {
	if len(rows) == 0 {
		return 0, ErrNoClusters
	}
	dim := len(rows[0])
	if dim == 0 {
		return 0, fmt.Errorf("%w: empty row", ErrRaggedMatrix)
	}
	for i, r := range rows {
		if len(r) != dim {
			return 0, fmt.Errorf("%w: row %d has %d entries, want %d", ErrRaggedMatrix, i, len(r), dim)
		}
		if err := finite(r); err != nil {
			return 0, fmt.Errorf("row %d: %w", i, err)
		}
	}
	return dim, nil
}

func copyMatrix(rows [][]float64) [][]float64 {
	out := make([][]float64, len(rows))
	for i, r := range rows {
		out[i] = clone(r)
	}
	return out
}

func resolveLabels(labels []int, n int) ([]int, error) {
	if labels == nil {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out, nil
	}
	if len(labels) != n {
		return nil, fmt.Errorf("%w: %d labels for %d clusters", ErrLabelCount, len(labels), n)
	}
	seen := make(map[int]struct{}, n)
	for _, l := range labels {
		if _, dup := seen[l]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateLabel, l)
		}
		seen[l] = struct{}{}
	}
	out := make([]int, n)
	copy(out, labels)
	return out, nil
}
