package framesync

import (
	"testing"

	"github.com/castsync/castsync/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestTuning(t *testing.T) {
	Convey("Given the sync settings", t, func() {
		Reset(func() { viper.Set(key.SyncToleranceFrames, defaultToleranceFrames) })

		Convey("A zero tolerance is kept", func() {
			viper.Set(key.SyncToleranceFrames, 0.0)
			tuning := DefaultTuning()
			So(tuning.ToleranceFrames, ShouldEqual, 0.0)
			So(tuning.tolerance(30), ShouldEqual, 0.0)
		})

		Convey("A negative tolerance falls back to half a frame", func() {
			viper.Set(key.SyncToleranceFrames, -1.0)
			So(DefaultTuning().ToleranceFrames, ShouldEqual, defaultToleranceFrames)
		})

		Convey("A configured tolerance is converted at the frame rate", func() {
			viper.Set(key.SyncToleranceFrames, 2.0)
			So(DefaultTuning().tolerance(40), ShouldAlmostEqual, 0.05)
		})

		Convey("WithTolerance accepts zero and ignores negatives", func() {
			tuning := Tuning{ToleranceFrames: defaultToleranceFrames}
			WithTolerance(0)(&tuning)
			So(tuning.ToleranceFrames, ShouldEqual, 0.0)

			WithTolerance(-3)(&tuning)
			So(tuning.ToleranceFrames, ShouldEqual, 0.0)
		})
	})
}
