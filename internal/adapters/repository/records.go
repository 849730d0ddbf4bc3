package repository

import (
	"math"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/okian/insightify/internal/domain/model"
)

// Raw documents. Fields are decoded loosely because imported data mixes
// ObjectIDs with strings and dates with text.

type activityDoc struct {
	User       bson.RawValue `bson:"user"`
	Module     bson.RawValue `bson:"module"`
	Type       bson.RawValue `bson:"type"`
	OccurredAt bson.RawValue `bson:"occurredAt"`
}

type quizResultDoc struct {
	UserID   bson.RawValue `bson:"userId"`
	ModuleID bson.RawValue `bson:"moduleId"`
	Score    bson.RawValue `bson:"score"`
	Passed   bson.RawValue `bson:"passed"`
	Duration bson.RawValue `bson:"duration"`
}

type quizDoc struct {
	ModuleID        bson.RawValue `bson:"moduleId"`
	MaximumDuration bson.RawValue `bson:"maximumDuration"`
}

func (d activityDoc) toModel() (model.ActivityEvent, bool) {
	raw, _ := d.Type.StringValueOK()
	status, ok := NormalizeStatus(raw)
	if !ok {
		return model.ActivityEvent{}, false
	}
	ts, text := timeValue(d.OccurredAt)
	return model.ActivityEvent{
		UserID:       idValue(d.User),
		ModuleID:     idValue(d.Module),
		Status:       status,
		Timestamp:    ts,
		RawTimestamp: text,
	}, true
}

func (d quizResultDoc) toModel() model.QuizResult {
	return model.QuizResult{
		UserID:   idValue(d.UserID),
		ModuleID: idValue(d.ModuleID),
		Score:    floatValue(d.Score),
		Passed:   boolValue(d.Passed),
		Duration: floatValue(d.Duration),
	}
}

func (d quizDoc) toModel() model.QuizMetadata {
	return model.QuizMetadata{
		ModuleID:        idValue(d.ModuleID),
		MaximumDuration: floatValue(d.MaximumDuration),
	}
}

// idValue renders ObjectIDs as hex and passes strings through.
func idValue(v bson.RawValue) string {
	if oid, ok := v.ObjectIDOK(); ok {
		return oid.Hex()
	}
	if s, ok := v.StringValueOK(); ok {
		return s
	}
	return ""
}

// timeValue returns a native date or the textual form of the timestamp.
func timeValue(v bson.RawValue) (time.Time, string) {
	if ms, ok := v.DateTimeOK(); ok {
		return time.UnixMilli(ms).UTC(), ""
	}
	if sec, _, ok := v.TimestampOK(); ok {
		return time.Unix(int64(sec), 0).UTC(), ""
	}
	if s, ok := v.StringValueOK(); ok {
		return time.Time{}, s
	}
	return time.Time{}, ""
}

func floatValue(v bson.RawValue) *float64 {
	var f float64
	if x, ok := v.DoubleOK(); ok {
		f = x
	} else if x, ok := v.Int32OK(); ok {
		f = float64(x)
	} else if x, ok := v.Int64OK(); ok {
		f = float64(x)
	} else if x, ok := v.Decimal128OK(); ok {
		parsed, err := strconv.ParseFloat(x.String(), 64)
		if err != nil {
			return nil
		}
		f = parsed
	} else {
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func boolValue(v bson.RawValue) *bool {
	var b bool
	if x, ok := v.BooleanOK(); ok {
		b = x
	} else if f := floatValue(v); f != nil {
		b = *f != 0
	} else {
		return nil
	}
	return &b
}
