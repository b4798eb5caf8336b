package open

import (
	"runtime"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCommand(t *testing.T) {
	Convey("Given the current platform", t, func() {
		if runtime.GOOS != "linux" {
			SkipConvey("commands are checked on linux only", func() {})
			return
		}

		Convey("The default handler is xdg-open", func() {
			cmd, ok := command("/tmp/frames")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"xdg-open", "/tmp/frames"})
		})

		Convey("A named application receives the input directly", func() {
			cmd, ok := commandWith("/tmp/frames", "nautilus")
			So(ok, ShouldBeTrue)
			So(cmd.Args, ShouldResemble, []string{"nautilus", "/tmp/frames"})
		})
	})
}
