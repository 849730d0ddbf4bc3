// Package artifact loads the pre-trained scaler and cluster model.
package artifact

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"

	"github.com/okian/insightify/internal/domain/cluster"
	"github.com/okian/insightify/internal/domain/features"
	"github.com/okian/insightify/internal/domain/model"
)

// Model families understood by the loader.
const (
	FamilyCentroids       = "centroids"
	FamilyKMeans          = "kmeans"
	FamilyGaussianMixture = "gaussian_mixture"
)

// Document is the on-disk artifact layout.
type Document struct {
	Version               string         `json:"version"`
	InterpretationVersion string         `json:"interpretation_version"`
	Family                string         `json:"family"`
	Features              []string       `json:"features"`
	Scaler                ScalerDocument `json:"scaler"`
	Labels                []int          `json:"labels,omitempty"`

	// centroids and kmeans
	Centroids [][]float64 `json:"centroids,omitempty"`

	// gaussian_mixture
	Means     [][]float64 `json:"means,omitempty"`
	Variances [][]float64 `json:"variances,omitempty"`
	Weights   []float64   `json:"weights,omitempty"`
}

// ScalerDocument describes a fitted scaler.
type ScalerDocument struct {
	Kind         string     `json:"kind"`
	Mean         []float64  `json:"mean,omitempty"`
	Scale        []float64  `json:"scale,omitempty"`
	DataMin      []float64  `json:"data_min,omitempty"`
	DataMax      []float64  `json:"data_max,omitempty"`
	FeatureRange [2]float64 `json:"feature_range,omitempty"`
}

// Bundle is a loaded, validated and immutable model.
type Bundle struct {
	Version               string
	InterpretationVersion string
	Family                string
	Path                  string
	engine                *cluster.Engine
}

// Engine returns the scaler and assigner pair.
func (b *Bundle) Engine() *cluster.Engine { return b.engine }

// Labels lists the cluster ids the model can produce.
func (b *Bundle) Labels() []int { return b.engine.Assigner().Labels() }

// Summary describes the bundle for logs, health checks and the CLI.
type Summary struct {
	Version               string   `json:"version"`
	InterpretationVersion string   `json:"interpretation_version"`
	Family                string   `json:"family"`
	Strategy              string   `json:"strategy"`
	Scaler                string   `json:"scaler"`
	Features              []string `json:"features"`
	Clusters              []int    `json:"clusters"`
	Path                  string   `json:"path,omitempty"`
}

// Summary returns a description of the bundle.
func (b *Bundle) Summary() Summary {
	return Summary{
		Version:               b.Version,
		InterpretationVersion: b.InterpretationVersion,
		Family:                b.Family,
		Strategy:              b.engine.Assigner().Strategy(),
		Scaler:                string(b.engine.Scaler().Kind()),
		Features:              model.FeatureNames[:],
		Clusters:              b.Labels(),
		Path:                  b.Path,
	}
}

// Load reads and validates the artifact at path.
func Load(ctx context.Context, path string) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from operator config
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrReadArtifact, path, err)
	}
	b, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	b.Path = path
	return b, nil
}

// Parse decodes and validates an artifact document.
func Parse(data []byte) (*Bundle, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}
	return Build(doc)
}

// Build validates doc and constructs the bundle.
func Build(doc Document) (*Bundle, error) {
	if doc.Version == "" {
		return nil, fmt.Errorf("%w: version is required", ErrMalformedArtifact)
	}
	if doc.InterpretationVersion == "" {
		return nil, fmt.Errorf("%w: interpretation_version is required", ErrMalformedArtifact)
	}
	if err := checkFeatures(doc.Features); err != nil {
		return nil, err
	}

	scaler, err := buildScaler(doc.Scaler)
	if err != nil {
		return nil, err
	}
	if err := checkDomains(scaler); err != nil {
		return nil, err
	}

	assigner, err := buildAssigner(doc)
	if err != nil {
		return nil, err
	}

	engine, err := cluster.NewEngine(scaler, assigner)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedArtifact, err)
	}

	return &Bundle{
		Version:               doc.Version,
		InterpretationVersion: doc.InterpretationVersion,
		Family:                doc.Family,
		engine:                engine,
	}, nil
}

func checkFeatures(names []string) error {
	if len(names) != model.FeatureCount {
		return fmt.Errorf("%w: got %d features, want %d", ErrFeatureOrder, len(names), model.FeatureCount)
	}
	for i, n := range names {
		if n != model.FeatureNames[i] {
			return fmt.Errorf("%w: position %d is %q, want %q", ErrFeatureOrder, i, n, model.FeatureNames[i])
		}
	}
	return nil
}

func buildScaler(s ScalerDocument) (*cluster.Scaler, error) {
	var (
		scaler *cluster.Scaler
		err    error
	)
	switch cluster.ScalerKind(s.Kind) {
	case cluster.ScalerStandard:
		scaler, err = cluster.NewStandardScaler(s.Mean, s.Scale)
	case cluster.ScalerMinMax:
		lo, hi := s.FeatureRange[0], s.FeatureRange[1]
		if lo == 0 && hi == 0 {
			hi = 1
		}
		scaler, err = cluster.NewMinMaxScaler(s.DataMin, s.DataMax, lo, hi)
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrMalformedArtifact, cluster.ErrUnknownScaler, s.Kind)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: scaler: %w", ErrMalformedArtifact, err)
	}
	return scaler, nil
}

func checkDomains(s *cluster.Scaler) error {
	for i := 0; i < s.Dim() && i < model.FeatureCount; i++ {
		lo, hi := s.FittedRange(i)
		if err := features.CheckDomain(i, lo); err != nil {
			return fmt.Errorf("%w: %w", ErrFeatureDomain, err)
		}
		if err := features.CheckDomain(i, hi); err != nil {
			return fmt.Errorf("%w: %w", ErrFeatureDomain, err)
		}
	}
	return nil
}

func buildAssigner(doc Document) (cluster.Assigner, error) {
	opts := []cluster.Option{}
	if doc.Labels != nil {
		opts = append(opts, cluster.WithLabels(doc.Labels))
	}

	var (
		assigner cluster.Assigner
		err      error
	)
	switch doc.Family {
	case FamilyCentroids:
		if len(doc.Centroids) == 0 {
			return nil, fmt.Errorf("%w: centroids", ErrMissingModelFields)
		}
		assigner, err = cluster.NewCentroidAssigner(doc.Centroids, opts...)
	case FamilyKMeans:
		if len(doc.Centroids) == 0 {
			return nil, fmt.Errorf("%w: centroids", ErrMissingModelFields)
		}
		var km *cluster.KMeansModel
		if km, err = cluster.NewKMeansModel(doc.Centroids); err == nil {
			assigner, err = cluster.NewPredictAssigner(km, opts...)
		}
	case FamilyGaussianMixture:
		if len(doc.Means) == 0 || len(doc.Variances) == 0 || len(doc.Weights) == 0 {
			return nil, fmt.Errorf("%w: means, variances and weights", ErrMissingModelFields)
		}
		var gm *cluster.GaussianMixtureModel
		if gm, err = cluster.NewGaussianMixtureModel(doc.Means, doc.Variances, doc.Weights); err == nil {
			assigner, err = cluster.NewPredictAssigner(gm, opts...)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, doc.Family)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMalformedArtifact, doc.Family, err)
	}
	return assigner, nil
}
