package model_test

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/okian/insightify/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFeatureVector(t *testing.T) {
	Convey("Given a feature vector", t, func() {
		v := model.FeatureVector{
			AvgStudyDuration:   30,
			AvgTimeUtilization: 50,
			AverageScore:       80,
			ConsistencyRatio:   0.5,
			PassRate:           1,
		}

		Convey("Values follows the fixed feature order", func() {
			So(v.Values(), ShouldResemble, []float64{30, 50, 80, 0.5, 1})
			So(len(model.FeatureNames), ShouldEqual, model.FeatureCount)
			So(model.FeatureNames[0], ShouldEqual, "avg_study_duration")
			So(model.FeatureNames[4], ShouldEqual, "pass_rate")
		})

		Convey("Round-trips through an ordered slice", func() {
			back, err := model.FeatureVectorFromValues(v.Values())
			So(err, ShouldBeNil)
			So(back, ShouldResemble, v)
		})

		Convey("Rejects a slice of the wrong length", func() {
			_, err := model.FeatureVectorFromValues([]float64{1, 2, 3})
			So(errors.Is(err, model.ErrContractViolation), ShouldBeTrue)
		})

		Convey("Rejects non-finite components", func() {
			v.AverageScore = math.NaN()
			So(errors.Is(v.Validate(), model.ErrContractViolation), ShouldBeTrue)
			v.AverageScore = math.Inf(1)
			So(errors.Is(v.Validate(), model.ErrContractViolation), ShouldBeTrue)
		})

		Convey("The zero vector is valid", func() {
			So(model.FeatureVector{}.Validate(), ShouldBeNil)
		})
	})
}

func TestKind(t *testing.T) {
	Convey("Kind labels wrapped errors", t, func() {
		So(model.Kind(nil), ShouldEqual, "")
		So(model.Kind(fmt.Errorf("x: %w", model.ErrInsufficientData)), ShouldEqual, "insufficient_data")
		So(model.Kind(fmt.Errorf("x: %w", model.ErrUpstream)), ShouldEqual, "upstream")
		So(model.Kind(model.ErrUnavailable), ShouldEqual, "unavailable")
		So(model.Kind(model.ErrContractViolation), ShouldEqual, "contract_violation")
		So(model.Kind(model.ErrInvalidUserID), ShouldEqual, "invalid_user_id")
		So(model.Kind(errors.New("boom")), ShouldEqual, "internal")
	})
}
