// Package interpret translates cluster ids into learner profiles.
package interpret

import (
	"fmt"
	"sort"

	"github.com/okian/insightify/internal/domain/model"
)

// Version identifies the profile table. Model artifacts declare the version
// they were labeled against and must match it.
const Version = "learner-profiles/v1"

// Table is an immutable mapping from cluster id to profile.
type Table struct {
	version  string
	profiles map[int]model.Profile
}

// NewTable builds a table from a profile map. The map is copied.
func NewTable(version string, profiles map[int]model.Profile) *Table {
	t := &Table{version: version, profiles: make(map[int]model.Profile, len(profiles))}
	for id, p := range profiles {
		t.profiles[id] = copyProfile(p)
	}
	return t
}

// Default returns the built-in profile table.
func Default() *Table {
	return NewTable(Version, defaultProfiles)
}

// Version returns the table version.
func (t *Table) Version() string { return t.version }

// IDs returns the known cluster ids in ascending order.
func (t *Table) IDs() []int {
	ids := make([]int, 0, len(t.profiles))
	for id := range t.profiles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Lookup returns the profile for a cluster id. An unknown id means the model
// and the table disagree and is a contract violation.
func (t *Table) Lookup(cluster int) (model.Profile, error) {
	p, ok := t.profiles[cluster]
	if !ok {
		return model.Profile{}, fmt.Errorf("%w: no profile for cluster %d in %s", model.ErrContractViolation, cluster, t.version)
	}
	return copyProfile(p), nil
}

// Covers verifies that every label has a profile.
func (t *Table) Covers(labels []int) error {
	for _, l := range labels {
		if _, ok := t.profiles[l]; !ok {
			return fmt.Errorf("%w: cluster %d has no profile in %s", model.ErrContractViolation, l, t.version)
		}
	}
	return nil
}

func copyProfile(p model.Profile) model.Profile {
	return model.Profile{
		LearnerType: p.LearnerType,
		Strength:    append([]string(nil), p.Strength...),
		Weakness:    append([]string(nil), p.Weakness...),
		Tips:        append([]string(nil), p.Tips...),
	}
}

var defaultProfiles = map[int]model.Profile{
	0: {
		LearnerType: "Consistent Learner",
		Strength: []string{
			"Studies on a steady weekly routine",
			"Finishes quizzes well within the allotted time",
			"Keeps a high pass rate across modules",
		},
		Weakness: []string{
			"May move on before exploring material in depth",
			"Rarely revisits completed modules",
		},
		Tips: []string{
			"Add a short review session for modules already completed",
			"Try optional exercises to deepen understanding",
			"Keep the current schedule; it is working",
		},
	},
	1: {
		LearnerType: "Reflective Learner",
		Strength: []string{
			"Spends generous time on each module",
			"Reads questions carefully before answering",
		},
		Weakness: []string{
			"Often uses most or all of the quiz time",
			"Progress through modules is slow",
			"Study days are irregular",
		},
		Tips: []string{
			"Set a time target per module and track it",
			"Practice timed quizzes to build pace",
			"Pick two fixed study days each week",
		},
	},
	2: {
		LearnerType: "Fast Learner",
		Strength: []string{
			"Completes modules quickly",
			"Uses little of the available quiz time",
		},
		Weakness: []string{
			"Quiz scores suggest gaps in understanding",
			"Pass rate is below the cohort average",
			"Activity comes in bursts rather than a routine",
		},
		Tips: []string{
			"Slow down on modules that end in a failed quiz",
			"Retake quizzes after reviewing the module summary",
			"Spread study over more days of the week",
		},
	},
}
