package repository

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/okian/insightify/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func decode[T any](doc bson.M) T {
	raw, err := bson.Marshal(doc)
	if err != nil {
		panic(err)
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return out
}

func TestRecordDecoding(t *testing.T) {
	Convey("Given raw activity documents", t, func() {
		user := primitive.NewObjectID()
		module := primitive.NewObjectID()
		when := time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)

		Convey("A native date and ObjectIDs decode", func() {
			d := decode[activityDoc](bson.M{
				"user": user, "module": module, "type": "module_start",
				"occurredAt": primitive.NewDateTimeFromTime(when),
			})
			e, ok := d.toModel()
			So(ok, ShouldBeTrue)
			So(e.UserID, ShouldEqual, user.Hex())
			So(e.ModuleID, ShouldEqual, module.Hex())
			So(e.Status, ShouldEqual, model.StatusStarted)
			So(e.Timestamp.Equal(when), ShouldBeTrue)
		})

		Convey("A textual timestamp is kept raw", func() {
			d := decode[activityDoc](bson.M{
				"user": user.Hex(), "module": "m1", "type": "module_complete",
				"occurredAt": "2024-03-04 09:30:00",
			})
			e, ok := d.toModel()
			So(ok, ShouldBeTrue)
			So(e.UserID, ShouldEqual, user.Hex())
			So(e.Timestamp.IsZero(), ShouldBeTrue)
			So(e.RawTimestamp, ShouldEqual, "2024-03-04 09:30:00")
		})

		Convey("Non-lifecycle events are dropped", func() {
			d := decode[activityDoc](bson.M{"user": user, "type": "video_play"})
			_, ok := d.toModel()
			So(ok, ShouldBeFalse)
		})
	})

	Convey("Given raw quiz result documents", t, func() {
		Convey("Numeric types and missing values decode", func() {
			d := decode[quizResultDoc](bson.M{
				"userId": primitive.NewObjectID(), "moduleId": "m1",
				"score": int32(80), "passed": true, "duration": int64(600),
			})
			r := d.toModel()
			So(*r.Score, ShouldEqual, 80.0)
			So(*r.Passed, ShouldBeTrue)
			So(*r.Duration, ShouldEqual, 600.0)

			empty := decode[quizResultDoc](bson.M{"moduleId": "m1", "score": nil}).toModel()
			So(empty.Score, ShouldBeNil)
			So(empty.Passed, ShouldBeNil)
			So(empty.Duration, ShouldBeNil)
		})

		Convey("Pass flags stored as numbers decode", func() {
			r := decode[quizResultDoc](bson.M{"passed": int32(0)}).toModel()
			So(*r.Passed, ShouldBeFalse)
		})
	})

	Convey("Given raw quiz documents", t, func() {
		dec, _ := primitive.ParseDecimal128("1200.5")
		q := decode[quizDoc](bson.M{"moduleId": "m1", "maximumDuration": dec}).toModel()
		So(q.ModuleID, ShouldEqual, "m1")
		So(*q.MaximumDuration, ShouldEqual, 1200.5)
	})
}
