package model

import (
	"fmt"
	"math"
)

// FeatureCount is the dimensionality of every FeatureVector.
const FeatureCount = 5

// FeatureNames lists the features in their fixed order.
var FeatureNames = [FeatureCount]string{
	"avg_study_duration",
	"avg_time_utilization",
	"average_score",
	"consistency_ratio",
	"pass_rate",
}

// FeatureVector is the per-learner input of the cluster engine.
// Field order matches FeatureNames and is kept in JSON output.
type FeatureVector struct {
	AvgStudyDuration   float64 `json:"avg_study_duration"`
	AvgTimeUtilization float64 `json:"avg_time_utilization"`
	AverageScore       float64 `json:"average_score"`
	ConsistencyRatio   float64 `json:"consistency_ratio"`
	PassRate           float64 `json:"pass_rate"`
}

// Values returns the vector as a slice in FeatureNames order.
func (v FeatureVector) Values() []float64 {
	return []float64{
		v.AvgStudyDuration,
		v.AvgTimeUtilization,
		v.AverageScore,
		v.ConsistencyRatio,
		v.PassRate,
	}
}

// Validate reports a contract violation when any component is not finite.
func (v FeatureVector) Validate() error {
	for i, x := range v.Values() {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("%w: feature %s is not finite", ErrContractViolation, FeatureNames[i])
		}
	}
	return nil
}

// FeatureVectorFromValues builds a vector from an ordered slice.
func FeatureVectorFromValues(values []float64) (FeatureVector, error) {
	if len(values) != FeatureCount {
		return FeatureVector{}, fmt.Errorf("%w: expected %d features, got %d", ErrContractViolation, FeatureCount, len(values))
	}
	v := FeatureVector{
		AvgStudyDuration:   values[0],
		AvgTimeUtilization: values[1],
		AverageScore:       values[2],
		ConsistencyRatio:   values[3],
		PassRate:           values[4],
	}
	return v, v.Validate()
}
