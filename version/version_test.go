package version

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castsync/castsync/filesystem"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestCompare(t *testing.T) {
	Convey("Compare", t, func() {
		cmp, err := Compare("1.2.3", "v1.2.3")
		So(err, ShouldBeNil)
		So(cmp, ShouldEqual, 0)

		cmp, _ = Compare("0.10.0", "0.9.9")
		So(cmp, ShouldEqual, 1)

		cmp, _ = Compare("0.3.0", "1.0.0")
		So(cmp, ShouldEqual, -1)

		_, err = Compare("latest", "1.0.0")
		So(err, ShouldNotBeNil)
	})
}

func TestLatest(t *testing.T) {
	Convey("Given a releases endpoint", t, func() {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			_, _ = w.Write([]byte(`{"tag_name": "v0.4.1"}`))
		}))
		defer server.Close()

		previous := releasesURL
		releasesURL = server.URL
		defer func() { releasesURL = previous }()

		version, err := Latest(context.Background())
		So(err, ShouldBeNil)
		So(version, ShouldEqual, "0.4.1")

		Convey("The answer is cached", func() {
			version, err := Latest(context.Background())
			So(err, ShouldBeNil)
			So(version, ShouldEqual, "0.4.1")
			So(requests, ShouldEqual, 1)
		})
	})
}
