package artifact_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/insightify/internal/adapters/artifact"
	"github.com/okian/insightify/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func validDoc() artifact.Document {
	return artifact.Document{
		Version:               "test",
		InterpretationVersion: "learner-profiles/v1",
		Family:                artifact.FamilyCentroids,
		Features:              model.FeatureNames[:],
		Scaler: artifact.ScalerDocument{
			Kind:  "standard",
			Mean:  []float64{45, 65, 72, 0.45, 0.7},
			Scale: []float64{25, 30, 14, 0.2, 0.25},
		},
		Centroids: [][]float64{
			{0, 0, 0, 0, 0},
			{1, 1, 1, 1, 1},
		},
	}
}

func TestLoad(t *testing.T) {
	Convey("Given the k-means fixture", t, func() {
		b, err := artifact.Load(context.Background(), "testdata/kmeans.json")

		Convey("Then it loads a predict strategy", func() {
			So(err, ShouldBeNil)
			So(b.Family, ShouldEqual, artifact.FamilyKMeans)
			So(b.Labels(), ShouldResemble, []int{0, 1, 2})
			s := b.Summary()
			So(s.Strategy, ShouldEqual, "predict/kmeans")
			So(s.Scaler, ShouldEqual, "standard")
			So(s.Path, ShouldEqual, "testdata/kmeans.json")
		})

		Convey("Then the all-zero vector is assigned", func() {
			got, err := b.Engine().Assign(context.Background(), model.FeatureVector{})
			So(err, ShouldBeNil)
			So(got.Cluster, ShouldEqual, 2)
		})
	})

	Convey("Given the gaussian mixture fixture", t, func() {
		b, err := artifact.Load(context.Background(), "testdata/gaussian_mixture.json")

		Convey("Then it loads with a min-max scaler", func() {
			So(err, ShouldBeNil)
			So(b.Summary().Strategy, ShouldEqual, "predict/gaussian_mixture")
			So(b.Summary().Scaler, ShouldEqual, "minmax")
			got, err := b.Engine().Assign(context.Background(), model.FeatureVector{
				AvgStudyDuration: 36, AvgTimeUtilization: 60, AverageScore: 85, ConsistencyRatio: 0.7, PassRate: 0.9,
			})
			So(err, ShouldBeNil)
			So(got.Cluster, ShouldEqual, 0)
			So(got.Distance, ShouldAlmostEqual, 0, 1e-9)
		})
	})

	Convey("Given a missing file", t, func() {
		_, err := artifact.Load(context.Background(), "testdata/missing.json")
		So(errors.Is(err, artifact.ErrReadArtifact), ShouldBeTrue)
	})

	Convey("Given invalid JSON", t, func() {
		_, err := artifact.Parse([]byte("{"))
		So(errors.Is(err, artifact.ErrMalformedArtifact), ShouldBeTrue)
	})
}

func TestBuild(t *testing.T) {
	Convey("Given a valid centroid document", t, func() {
		doc := validDoc()

		Convey("Then it builds", func() {
			b, err := artifact.Build(doc)
			So(err, ShouldBeNil)
			So(b.Summary().Strategy, ShouldEqual, "centroid")
		})

		Convey("When the feature order differs", func() {
			doc.Features = []string{"pass_rate", "avg_time_utilization", "average_score", "consistency_ratio", "avg_study_duration"}
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrFeatureOrder), ShouldBeTrue)
		})

		Convey("When the score scale was fitted on 0-1 values", func() {
			doc.Scaler.Mean = []float64{45, 65, 0.72, 0.45, 70}
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrFeatureDomain), ShouldBeTrue)
		})

		Convey("When a scale is zero", func() {
			doc.Scaler.Scale[1] = 0
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrMalformedArtifact), ShouldBeTrue)
		})

		Convey("When centroids have the wrong dimension", func() {
			doc.Centroids = [][]float64{{0, 0, 0}}
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrMalformedArtifact), ShouldBeTrue)
		})

		Convey("When the family is unknown", func() {
			doc.Family = "dbscan"
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrUnknownFamily), ShouldBeTrue)
		})

		Convey("When model parameters are missing", func() {
			doc.Centroids = nil
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrMissingModelFields), ShouldBeTrue)
		})

		Convey("When the scaler kind is unknown", func() {
			doc.Scaler.Kind = "robust"
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrMalformedArtifact), ShouldBeTrue)
		})

		Convey("When versions are missing", func() {
			doc.InterpretationVersion = ""
			_, err := artifact.Build(doc)
			So(errors.Is(err, artifact.ErrMalformedArtifact), ShouldBeTrue)
		})
	})
}
