package goodwill

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOrganizational(t *testing.T) {
	Convey("Given a goodwill calculator", t, func() {
		c := New()

		Convey("The reference inputs produce the known score", func() {
			// 0.85 × 0.75 × 0.80 × (1.05^1.0 − 0.10) / 1.0
			got, err := c.Organizational(0.85, 0.75, 0.80, 1.05, 1.0, 0.10, 1.0)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, 0.4845, 1e-9)
		})

		Convey("The time weight exponentiates revenue growth", func() {
			squared, err := c.Organizational(1, 1, 1, 2.0, 2.0, 0, 1.0)
			So(err, ShouldBeNil)
			So(squared, ShouldAlmostEqual, 4.0, 1e-9)
		})

		Convey("Backlash exceeding grown revenue goes negative", func() {
			got, err := c.Organizational(1, 1, 1, 1.0, 1.0, 1.5, 1.0)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, -0.5, 1e-9)
		})

		Convey("The smoothing divisor scales the result", func() {
			whole, err := c.Organizational(0.85, 0.75, 0.80, 1.05, 1.0, 0.10, 1.0)
			So(err, ShouldBeNil)
			halved, err := c.Organizational(0.85, 0.75, 0.80, 1.05, 1.0, 0.10, 2.0)
			So(err, ShouldBeNil)
			So(halved, ShouldAlmostEqual, whole/2, 1e-9)
		})

		Convey("Zero smoothing is rejected", func() {
			_, err := c.Organizational(0.85, 0.75, 0.80, 1.05, 1.0, 0.10, 0)
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		})
	})
}

func TestConsumer(t *testing.T) {
	Convey("Given a goodwill calculator", t, func() {
		c := New()

		Convey("The reference inputs produce the known score", func() {
			// 0.90 × 0.85 × 0.70 × 0.80 / 0.05
			got := c.Consumer(0.90, 0.85, 0.70, 0.80, 0.05)
			So(got, ShouldAlmostEqual, 8.568, 1e-9)
		})

		Convey("Exactly zero backlash is floored, not rejected", func() {
			product := 0.90 * 0.85 * 0.70 * 0.80
			got := c.Consumer(0.90, 0.85, 0.70, 0.80, 0)
			So(got, ShouldAlmostEqual, product/DefaultBacklashFloor, 1e-6)
		})

		Convey("A near-zero backlash is used as-is", func() {
			tiny := 0.0001
			product := 0.90 * 0.85 * 0.70 * 0.80
			got := c.Consumer(0.90, 0.85, 0.70, 0.80, tiny)
			So(got, ShouldAlmostEqual, product/tiny, 1e-6)
		})

		Convey("A configured floor overrides the default", func() {
			custom := New(WithBacklashFloor(0.01))
			product := 0.90 * 0.85 * 0.70 * 0.80
			So(custom.Consumer(0.90, 0.85, 0.70, 0.80, 0), ShouldAlmostEqual, product/0.01, 1e-6)
			So(custom.BacklashFloor(), ShouldEqual, 0.01)
		})
	})
}

func TestUnified(t *testing.T) {
	Convey("Given a goodwill calculator", t, func() {
		c := New()

		Convey("The reference blend produces the known score", func() {
			// 0.6 × 0.4845 + 0.4 × 8.568
			got, err := c.Unified(0.4845, 8.568, 0.6, 0.4, 1.0)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, 3.7179, 1e-9)
		})

		Convey("Weights need not sum to one", func() {
			got, err := c.Unified(2.0, 4.0, 1.0, 1.0, 1.0)
			So(err, ShouldBeNil)
			So(got, ShouldAlmostEqual, 6.0, 1e-9)
		})

		Convey("Zero smoothing is rejected", func() {
			_, err := c.Unified(0.4845, 8.568, 0.6, 0.4, 0)
			So(errors.Is(err, ErrInvalidInput), ShouldBeTrue)
		})
	})
}
