package recent

import (
	"testing"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func init() {
	filesystem.SetMemMapFs()
	viper.Set(key.RecentRemember, true)
	viper.Set(key.RecentLimit, 10)
}

func TestRecent(t *testing.T) {
	Convey("Given remembered recordings", t, func() {
		So(Remember("/casts/deploy-demo.cast", "Deploying", 1), ShouldBeNil)
		So(Remember("/casts/vim-tricks.cast", "", 5), ShouldBeNil)
		So(Remember("https://asciinema.org/a/335480", "Vim golf", 2), ShouldBeNil)

		Convey("Suggestions match fuzzily and rank first", func() {
			suggestions := Suggest("vim")
			So(len(suggestions), ShouldBeGreaterThanOrEqualTo, 2)
			So(suggestions[0], ShouldEqual, "/casts/vim-tricks.cast")
			So(suggestions, ShouldContain, "https://asciinema.org/a/335480")
			So(suggestions, ShouldNotContain, "/casts/deploy-demo.cast")
		})

		Convey("Titles are matched too", func() {
			So(Suggest("deploying"), ShouldContain, "/casts/deploy-demo.cast")
		})

		Convey("The list is ordered by last use", func() {
			So(Remember("/casts/deploy-demo.cast", "", 1), ShouldBeNil)
			records := List()
			So(records[0].Source, ShouldEqual, "/casts/deploy-demo.cast")
			So(records[0].Title, ShouldEqual, "Deploying")
			So(records[0].Rank, ShouldBeGreaterThanOrEqualTo, 2)
		})

		Convey("The limit caps suggestions", func() {
			viper.Set(key.RecentLimit, 1)
			defer viper.Set(key.RecentLimit, 10)
			So(len(Suggest("")), ShouldEqual, 1)
		})

		Convey("Nothing is stored when remembering is off", func() {
			viper.Set(key.RecentRemember, false)
			defer viper.Set(key.RecentRemember, true)

			So(Remember("/casts/secret.cast", "", 1), ShouldBeNil)
			So(Suggest("secret"), ShouldBeEmpty)
		})
	})
}
