package interpret_test

import (
	"errors"
	"testing"

	"github.com/okian/insightify/internal/domain/interpret"
	"github.com/okian/insightify/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultTable(t *testing.T) {
	Convey("Given the default table", t, func() {
		table := interpret.Default()

		Convey("Then every known id has a non-empty profile", func() {
			So(table.IDs(), ShouldResemble, []int{0, 1, 2})
			for _, id := range table.IDs() {
				p, err := table.Lookup(id)
				So(err, ShouldBeNil)
				So(p.LearnerType, ShouldNotBeEmpty)
				So(p.Strength, ShouldNotBeEmpty)
				So(p.Weakness, ShouldNotBeEmpty)
				So(p.Tips, ShouldNotBeEmpty)
			}
		})

		Convey("Then an unknown id is a contract violation", func() {
			_, err := table.Lookup(3)
			So(errors.Is(err, model.ErrContractViolation), ShouldBeTrue)
			So(errors.Is(err, model.ErrInsufficientData), ShouldBeFalse)
			_, err = table.Lookup(-1)
			So(errors.Is(err, model.ErrContractViolation), ShouldBeTrue)
		})

		Convey("Then returned profiles cannot mutate the table", func() {
			p, _ := table.Lookup(0)
			p.Tips[0] = "changed"
			again, _ := table.Lookup(0)
			So(again.Tips[0], ShouldNotEqual, "changed")
		})

		Convey("Then coverage checks the model labels", func() {
			So(table.Covers([]int{0, 1, 2}), ShouldBeNil)
			So(errors.Is(table.Covers([]int{0, 4}), model.ErrContractViolation), ShouldBeTrue)
			So(table.Version(), ShouldEqual, interpret.Version)
		})
	})
}
