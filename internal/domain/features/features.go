package features

import (
	"fmt"
	"math"

	"github.com/okian/insightify/internal/domain/model"
)

// Input holds the raw records of one learner.
type Input struct {
	Activities  []model.ActivityEvent
	QuizResults []model.QuizResult
	Quizzes     []model.QuizMetadata
}

// Derive computes the feature vector for one learner. Missing data yields
// zero components; only a quiz join without any metadata is an error.
func Derive(in Input) (model.FeatureVector, error) {
	rows, err := JoinQuiz(in.QuizResults, in.Quizzes)
	if err != nil {
		return model.FeatureVector{}, err
	}

	v := model.FeatureVector{
		AvgStudyDuration:   AvgStudyDuration(BuildTimelines(in.Activities)),
		AvgTimeUtilization: AvgTimeUtilization(rows),
		AverageScore:       AverageScore(rows),
		ConsistencyRatio:   ConsistencyRatio(in.Activities),
		PassRate:           PassRate(rows),
	}
	if err := v.Validate(); err != nil {
		return model.FeatureVector{}, err
	}
	return v, nil
}

// Domain is the closed interval a feature's values are expected to fall in.
type Domain struct {
	Min float64
	Max float64
}

// Contains reports whether x lies in the domain.
func (d Domain) Contains(x float64) bool {
	return !math.IsNaN(x) && x >= d.Min && x <= d.Max
}

// Domains declares the value range of each feature in FeatureNames order.
var Domains = [model.FeatureCount]Domain{
	{Min: 0, Max: math.Inf(1)}, // minutes
	{Min: 0, Max: math.Inf(1)}, // percent, overruns exceed 100
	{Min: 0, Max: 100},
	{Min: 0, Max: 1},
	{Min: 0, Max: 1},
}

// CheckDomain verifies that value lies in the domain of feature i.
func CheckDomain(i int, value float64) error {
	if i < 0 || i >= model.FeatureCount {
		return fmt.Errorf("%w: feature index %d out of range", model.ErrContractViolation, i)
	}
	if !Domains[i].Contains(value) {
		return fmt.Errorf("%w: %s=%v outside [%v, %v]", model.ErrContractViolation,
			model.FeatureNames[i], value, Domains[i].Min, Domains[i].Max)
	}
	return nil
}
