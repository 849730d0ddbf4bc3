package cluster

import (
	"context"
	"fmt"
	"math"

	"github.com/okian/insightify/internal/domain/model"
)

// StrategyPredict is the strategy name of PredictAssigner.
const StrategyPredict = "predict"

// Predictor is a fitted model with its own assignment rule.
type Predictor interface {
	// Predict returns the index of the chosen cluster.
	Predict(x []float64) (int, error)
	// Centers returns the cluster centers in index order.
	Centers() [][]float64
	// Family names the model family.
	Family() string
}

// PredictAssigner delegates the choice of cluster to a Predictor and reports
// the distance to the chosen cluster's center.
type PredictAssigner struct {
	predictor Predictor
	centers   [][]float64
	labels    []int
	dim       int
}

// NewPredictAssigner wraps p.
func NewPredictAssigner(p Predictor, opts ...Option) (*PredictAssigner, error) {
	if p == nil {
		return nil, ErrNilEngineElement
	}
	centers := p.Centers()
	dim, err := checkMatrix(centers)
	if err != nil {
		return nil, fmt.Errorf("%s centers: %w", p.Family(), err)
	}
	s := applyOptions(opts)
	labels, err := resolveLabels(s.labels, len(centers))
	if err != nil {
		return nil, err
	}
	return &PredictAssigner{predictor: p, centers: copyMatrix(centers), labels: labels, dim: dim}, nil
}

// Assign predicts the cluster and measures the distance to its center.
func (a *PredictAssigner) Assign(_ context.Context, scaled []float64) (Assignment, error) {
	if err := checkDim(a.dim, scaled); err != nil {
		return Assignment{}, err
	}
	idx, err := a.predictor.Predict(scaled)
	if err != nil {
		return Assignment{}, err
	}
	if idx < 0 || idx >= len(a.centers) {
		return Assignment{}, fmt.Errorf("%w: %s predicted cluster index %d of %d", model.ErrContractViolation, a.predictor.Family(), idx, len(a.centers))
	}
	return Assignment{Cluster: a.labels[idx], Distance: euclidean(scaled, a.centers[idx])}, nil
}

// Labels returns a copy of the cluster ids.
func (a *PredictAssigner) Labels() []int { return append([]int(nil), a.labels...) }

// Dim returns the model dimension.
func (a *PredictAssigner) Dim() int { return a.dim }

// Strategy returns StrategyPredict with the model family.
func (a *PredictAssigner) Strategy() string { return StrategyPredict + "/" + a.predictor.Family() }

// KMeansModel predicts the nearest cluster center.
type KMeansModel struct {
	centers [][]float64
}

// NewKMeansModel builds a k-means predictor.
func NewKMeansModel(centers [][]float64) (*KMeansModel, error) {
	if _, err := checkMatrix(centers); err != nil {
		return nil, fmt.Errorf("kmeans: %w", err)
	}
	return &KMeansModel{centers: copyMatrix(centers)}, nil
}

// Predict returns the index of the nearest center.
func (m *KMeansModel) Predict(x []float64) (int, error) {
	if err := checkDim(len(m.centers[0]), x); err != nil {
		return 0, err
	}
	best, bestDist := 0, math.Inf(1)
	for i, c := range m.centers {
		var sq float64
		for j := range c {
			d := x[j] - c[j]
			sq += d * d
		}
		if sq < bestDist {
			best, bestDist = i, sq
		}
	}
	return best, nil
}

// Centers returns the model centers.
func (m *KMeansModel) Centers() [][]float64 { return copyMatrix(m.centers) }

// Family returns "kmeans".
func (m *KMeansModel) Family() string { return "kmeans" }

// GaussianMixtureModel is a diagonal-covariance mixture. Predict returns the
// component with the highest posterior.
type GaussianMixtureModel struct {
	means     [][]float64
	variances [][]float64
	logWeight []float64
}

// NewGaussianMixtureModel builds a mixture predictor.
func NewGaussianMixtureModel(means, variances [][]float64, weights []float64) (*GaussianMixtureModel, error) {
	dim, err := checkMatrix(means)
	if err != nil {
		return nil, fmt.Errorf("gaussian_mixture means: %w", err)
	}
	vdim, err := checkMatrix(variances)
	if err != nil {
		return nil, fmt.Errorf("gaussian_mixture variances: %w", err)
	}
	if vdim != dim || len(variances) != len(means) {
		return nil, fmt.Errorf("%w: variances shape differs from means", ErrRaggedMatrix)
	}
	if len(weights) != len(means) {
		return nil, fmt.Errorf("%w: %d weights for %d components", ErrLabelCount, len(weights), len(means))
	}
	for i, row := range variances {
		for j, v := range row {
			if v <= 0 {
				return nil, fmt.Errorf("%w: component %d feature %d", ErrInvalidVariance, i, j)
			}
		}
	}
	logWeight := make([]float64, len(weights))
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: component %d", ErrInvalidWeight, i)
		}
		logWeight[i] = math.Log(w)
	}
	return &GaussianMixtureModel{
		means:     copyMatrix(means),
		variances: copyMatrix(variances),
		logWeight: logWeight,
	}, nil
}

// Predict returns the component maximizing log weight plus log likelihood.
func (m *GaussianMixtureModel) Predict(x []float64) (int, error) {
	if err := checkDim(len(m.means[0]), x); err != nil {
		return 0, err
	}
	best, bestScore := 0, math.Inf(-1)
	for k := range m.means {
		score := m.logWeight[k]
		for j := range x {
			v := m.variances[k][j]
			d := x[j] - m.means[k][j]
			score -= 0.5 * (math.Log(2*math.Pi*v) + d*d/v)
		}
		if score > bestScore {
			best, bestScore = k, score
		}
	}
	return best, nil
}

// Centers returns the component means.
func (m *GaussianMixtureModel) Centers() [][]float64 { return copyMatrix(m.means) }

// Family returns "gaussian_mixture".
func (m *GaussianMixtureModel) Family() string { return "gaussian_mixture" }
