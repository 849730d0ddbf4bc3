package cluster

import (
	"context"
	"fmt"
)

// StrategyCentroid is the strategy name of CentroidAssigner.
const StrategyCentroid = "centroid"

// CentroidAssigner picks the nearest centroid by Euclidean distance.
// Ties go to the centroid listed first.
type CentroidAssigner struct {
	centroids [][]float64
	labels    []int
	dim       int
}

// NewCentroidAssigner builds an assigner over the given centroids.
func NewCentroidAssigner(centroids [][]float64, opts ...Option) (*CentroidAssigner, error) {
	dim, err := checkMatrix(centroids)
	if err != nil {
		return nil, fmt.Errorf("centroids: %w", err)
	}
	s := applyOptions(opts)
	labels, err := resolveLabels(s.labels, len(centroids))
	if err != nil {
		return nil, err
	}
	return &CentroidAssigner{
		centroids: copyMatrix(centroids),
		labels:    labels,
		dim:       dim,
	}, nil
}

// Assign returns the nearest centroid.
func (a *CentroidAssigner) Assign(_ context.Context, scaled []float64) (Assignment, error) {
	if err := checkDim(a.dim, scaled); err != nil {
		return Assignment{}, err
	}
	best := 0
	bestDist := euclidean(scaled, a.centroids[0])
	for i := 1; i < len(a.centroids); i++ {
		if d := euclidean(scaled, a.centroids[i]); d < bestDist {
			best, bestDist = i, d
		}
	}
	return Assignment{Cluster: a.labels[best], Distance: bestDist}, nil
}

// Labels returns a copy of the cluster ids.
func (a *CentroidAssigner) Labels() []int { return append([]int(nil), a.labels...) }

// Dim returns the centroid dimension.
func (a *CentroidAssigner) Dim() int { return a.dim }

// Strategy returns StrategyCentroid.
func (a *CentroidAssigner) Strategy() string { return StrategyCentroid }
