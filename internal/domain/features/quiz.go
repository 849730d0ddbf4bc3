package features

import (
	"fmt"
	"math"

	"github.com/okian/insightify/internal/domain/model"
)

// QuizRow is one quiz result joined with the metadata of its module.
type QuizRow struct {
	Result          model.QuizResult
	MaximumDuration *float64
	// Utilization is duration/maximumDuration*100 clipped at 0, nil when undefined.
	Utilization *float64
}

// ModuleIDs returns the distinct module ids referenced by results, in first
// seen order.
func ModuleIDs(results []model.QuizResult) []string {
	seen := make(map[string]struct{}, len(results))
	ids := make([]string, 0, len(results))
	for _, r := range results {
		if r.ModuleID == "" {
			continue
		}
		if _, ok := seen[r.ModuleID]; ok {
			continue
		}
		seen[r.ModuleID] = struct{}{}
		ids = append(ids, r.ModuleID)
	}
	return ids
}

// JoinQuiz left-joins results to metadata on module id. A result matching
// several metadata records yields one row per match. When results reference
// modules but no metadata exists at all, the join fails with
// ErrInsufficientData.
func JoinQuiz(results []model.QuizResult, metadata []model.QuizMetadata) ([]QuizRow, error) {
	if len(results) == 0 {
		return nil, nil
	}

	ids := ModuleIDs(results)
	if len(ids) == 0 {
		rows := make([]QuizRow, 0, len(results))
		for _, r := range results {
			rows = append(rows, QuizRow{Result: r})
		}
		return rows, nil
	}
	if len(metadata) == 0 {
		return nil, fmt.Errorf("%w: no quiz metadata for %d modules", model.ErrInsufficientData, len(ids))
	}

	byModule := make(map[string][]model.QuizMetadata, len(metadata))
	for _, m := range metadata {
		byModule[m.ModuleID] = append(byModule[m.ModuleID], m)
	}

	rows := make([]QuizRow, 0, len(results))
	for _, r := range results {
		matches := byModule[r.ModuleID]
		if r.ModuleID == "" || len(matches) == 0 {
			rows = append(rows, QuizRow{Result: r})
			continue
		}
		for _, m := range matches {
			rows = append(rows, QuizRow{
				Result:          r,
				MaximumDuration: m.MaximumDuration,
				Utilization:     utilization(r.Duration, m.MaximumDuration),
			})
		}
	}
	return rows, nil
}

func utilization(duration, maximum *float64) *float64 {
	if duration == nil || maximum == nil || *maximum == 0 {
		return nil
	}
	u := *duration / *maximum * 100
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return nil
	}
	if u < 0 {
		u = 0
	}
	return &u
}

// AvgTimeUtilization is the mean of the defined utilizations.
func AvgTimeUtilization(rows []QuizRow) float64 {
	var m mean
	for _, r := range rows {
		if r.Utilization != nil {
			m.add(*r.Utilization)
		}
	}
	return m.value()
}

// AverageScore is the mean of the present scores.
func AverageScore(rows []QuizRow) float64 {
	var m mean
	for _, r := range rows {
		if r.Result.Score != nil {
			m.add(*r.Result.Score)
		}
	}
	return m.value()
}

// PassRate is the mean of the present pass flags as 0/1.
func PassRate(rows []QuizRow) float64 {
	var m mean
	for _, r := range rows {
		if r.Result.Passed == nil {
			continue
		}
		if *r.Result.Passed {
			m.add(1)
		} else {
			m.add(0)
		}
	}
	return m.value()
}
