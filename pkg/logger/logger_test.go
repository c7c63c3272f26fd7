package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoggerInit(t *testing.T) {
	Convey("Given an uninitialized logger package", t, func() {
		Convey("When initializing the global logger", func() {
			err := Init()

			Convey("Then it should succeed", func() {
				So(err, ShouldBeNil)
				So(Get(), ShouldNotBeNil)
			})
		})
	})
}

func TestFieldConstructors(t *testing.T) {
	Convey("Given the field constructors", t, func() {
		Convey("When building fields of each kind", func() {
			s := String("k", "v")
			i := Int("n", 7)
			f := Float64("score", 3.7179)
			b := Bool("ok", true)
			d := Duration("elapsed", 5*time.Second)
			a := Any("payload", map[string]int{"x": 1})

			Convey("Then keys and values should round-trip", func() {
				So(s.Key, ShouldEqual, "k")
				So(s.Value, ShouldEqual, "v")
				So(i.Value, ShouldEqual, 7)
				So(f.Value, ShouldEqual, 3.7179)
				So(b.Value, ShouldEqual, true)
				So(d.Value, ShouldEqual, 5*time.Second)
				So(a.Key, ShouldEqual, "payload")
			})
		})

		Convey("When wrapping an error", func() {
			fld := Error(context.DeadlineExceeded)

			Convey("Then the key should be error", func() {
				So(fld.Key, ShouldEqual, "error")
				So(fld.Value, ShouldEqual, context.DeadlineExceeded)
			})
		})
	})
}

func TestLevels(t *testing.T) {
	Convey("Given an initialized logger", t, func() {
		So(Init(), ShouldBeNil)

		Convey("When setting levels by string", func() {
			Convey("Then known levels should parse", func() {
				So(SetLevelString("debug"), ShouldBeNil)
				So(SetLevelString("info"), ShouldBeNil)
				So(SetLevelString("WARN"), ShouldBeNil)
				So(SetLevelString("warning"), ShouldBeNil)
				So(SetLevelString("error"), ShouldBeNil)
				So(SetLevelString(""), ShouldBeNil)
			})

			Convey("And unknown levels should fail", func() {
				So(SetLevelString("loud"), ShouldNotBeNil)
			})
		})

		Convey("When logging through the interface", func() {
			SetLevel(slog.LevelDebug)
			lg := Named("test")

			Convey("Then logging should not panic", func() {
				So(func() {
					ctx := context.Background()
					lg.Debug(ctx, "debug line", String("k", "v"))
					lg.Info(ctx, "info line", Int("n", 1))
					lg.Warn(ctx, "warn line", Float64("f", 1.5))
					lg.Error(ctx, "error line", Error(context.Canceled))
				}, ShouldNotPanic)
			})
		})

		Convey("When syncing", func() {
			Convey("Then it should be a no-op", func() {
				So(Sync(), ShouldBeNil)
			})
		})
	})
}
