package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castsync/castsync/key"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
)

func TestFetch(t *testing.T) {
	Convey("Given a recording server", t, func() {
		viper.Set(key.NetworkFingerprint, false)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/demo.cast":
				w.Header().Set("Content-Type", "application/x-asciicast")
				_, _ = w.Write([]byte(`{"version": 2, "width": 80, "height": 24}`))
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		Convey("It returns the body of a successful response", func() {
			body, err := Fetch(context.Background(), server.URL+"/demo.cast")
			So(err, ShouldBeNil)
			So(string(body), ShouldContainSubstring, `"version": 2`)
		})

		Convey("It reports unexpected statuses", func() {
			_, err := Fetch(context.Background(), server.URL+"/missing.cast")
			var status *StatusError
			So(errors.As(err, &status), ShouldBeTrue)
			So(status.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("It honors a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := Fetch(ctx, server.URL+"/demo.cast")
			So(err, ShouldNotBeNil)
		})
	})
}
