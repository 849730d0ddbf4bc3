// Package features derives the fixed learner feature vector from raw records.
package features

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/insightify/internal/domain/model"
)

// timestampLayouts are tried in order for textual timestamps.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// ParseTimestamp returns the event time. ok is false when the timestamp is
// missing or cannot be parsed; such events count as unknown.
func ParseTimestamp(e model.ActivityEvent) (time.Time, bool) {
	if !e.Timestamp.IsZero() {
		return e.Timestamp.UTC(), true
	}
	raw := strings.TrimSpace(e.RawTimestamp)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// BuildTimelines takes the earliest started and completed time per module and
// keeps modules with a known completion. Output is sorted by module id.
func BuildTimelines(events []model.ActivityEvent) []model.ModuleTimeline {
	type bounds struct {
		started   *time.Time
		completed *time.Time
	}
	byModule := make(map[string]*bounds)

	for _, e := range events {
		if e.ModuleID == "" {
			continue
		}
		b, ok := byModule[e.ModuleID]
		if !ok {
			b = &bounds{}
			byModule[e.ModuleID] = b
		}
		ts, known := ParseTimestamp(e)
		if !known {
			continue
		}
		switch e.Status {
		case model.StatusStarted:
			b.started = earliest(b.started, ts)
		case model.StatusCompleted:
			b.completed = earliest(b.completed, ts)
		}
	}

	timelines := make([]model.ModuleTimeline, 0, len(byModule))
	for id, b := range byModule {
		if b.completed == nil {
			continue
		}
		timelines = append(timelines, model.ModuleTimeline{
			ModuleID:    id,
			StartedAt:   b.started,
			CompletedAt: *b.completed,
		})
	}
	sort.Slice(timelines, func(i, j int) bool {
		return timelines[i].ModuleID < timelines[j].ModuleID
	})
	return timelines
}

func earliest(cur *time.Time, ts time.Time) *time.Time {
	if cur == nil || ts.Before(*cur) {
		t := ts
		return &t
	}
	return cur
}

// AvgStudyDuration is the mean module duration in minutes. Modules without a
// start, or with a zero or negative duration, are excluded.
func AvgStudyDuration(timelines []model.ModuleTimeline) float64 {
	var m mean
	for _, tl := range timelines {
		if tl.StartedAt == nil {
			continue
		}
		d := tl.CompletedAt.Sub(*tl.StartedAt)
		if d <= 0 {
			continue
		}
		m.add(d.Minutes())
	}
	return m.value()
}

// ConsistencyRatio is the share of timed activity that falls on the learner's
// most frequent weekday.
func ConsistencyRatio(events []model.ActivityEvent) float64 {
	var counts [7]int
	total := 0
	for _, e := range events {
		ts, ok := ParseTimestamp(e)
		if !ok {
			continue
		}
		counts[ts.Weekday()]++
		total++
	}
	if total == 0 {
		return 0
	}
	top := 0
	for _, c := range counts {
		if c > top {
			top = c
		}
	}
	return float64(top) / float64(total)
}
