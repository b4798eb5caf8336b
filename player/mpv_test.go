package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakeMPV answers IPC commands the way mpv does, broadcasting an event before every reply.
type fakeMPV struct {
	listener net.Listener
	mu       sync.Mutex
	received [][]interface{}
}

func newFakeMPV(t *testing.T) *fakeMPV {
	dir, err := os.MkdirTemp("", "mpv-ipc")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })

	l, err := net.Listen("unix", filepath.Join(dir, "mpv.sock"))
	if err != nil {
		t.Fatal(err)
	}

	f := &fakeMPV{listener: l}
	go f.serve()
	t.Cleanup(func() { _ = l.Close() })
	return f
}

func (f *fakeMPV) socket() string {
	return f.listener.Addr().String()
}

func (f *fakeMPV) serve() {
	for {
		conn, err := f.listener.Accept()
		if err != nil {
			return
		}
		go f.handle(conn)
	}
}

func (f *fakeMPV) handle(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)

	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return
		}

		var cmd ipcCommand
		if err := json.Unmarshal(line, &cmd); err != nil {
			return
		}

		f.mu.Lock()
		f.received = append(f.received, cmd.Command)
		f.mu.Unlock()

		_, _ = conn.Write([]byte(`{"event":"playback-restart"}` + "\n"))

		switch cmd.Command[0] {
		case "get_property":
			if cmd.Command[1] == "duration" {
				_, _ = conn.Write([]byte(`{"data":12.5,"error":"success"}` + "\n"))
			} else {
				_, _ = conn.Write([]byte(`{"error":"property unavailable"}` + "\n"))
			}
		case "observe_property":
			_, _ = conn.Write([]byte(`{"error":"success","request_id":1000}` + "\n"))
			_, _ = conn.Write([]byte(`{"event":"property-change","id":1,"name":"time-pos","data":3.25}` + "\n"))
		default:
			_, _ = conn.Write([]byte(`{"error":"success"}` + "\n"))
		}
	}
}

func TestIPC(t *testing.T) {
	Convey("Given an mpv IPC socket", t, func() {
		fake := newFakeMPV(t)

		Convey("doSendCommand skips broadcast events and returns the reply", func() {
			data, err := doSendCommand(fake.socket(), []interface{}{"get_property", "duration"})
			So(err, ShouldBeNil)
			So(data, ShouldEqual, 12.5)
		})

		Convey("doSendCommand surfaces mpv errors", func() {
			_, err := doSendCommand(fake.socket(), []interface{}{"get_property", "time-pos"})
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "property unavailable")
		})

		Convey("The event listener forwards property changes and events", func() {
			var mu sync.Mutex
			seen := map[string]interface{}{}

			el := NewEventListener(fake.socket(), func(name string, data interface{}) {
				mu.Lock()
				defer mu.Unlock()
				seen[name] = data
			})
			So(el.Start(), ShouldBeNil)
			defer el.Stop()

			deadline := time.Now().Add(2 * time.Second)
			for time.Now().Before(deadline) {
				mu.Lock()
				_, ok := seen["time-pos"]
				mu.Unlock()
				if ok {
					break
				}
				time.Sleep(10 * time.Millisecond)
			}

			mu.Lock()
			defer mu.Unlock()
			So(seen["time-pos"], ShouldEqual, 3.25)
			So(seen, ShouldContainKey, "playback-restart")
		})
	})
}

func TestMPVArgs(t *testing.T) {
	Convey("Given mpv options", t, func() {
		m := &MPV{
			source:     "/videos/demo.mp4",
			socketPath: "/tmp/mpv.sock",
			opts:       Options{Columns: 80, Rows: 24, Fit: FitNone, ShowControls: true}.withDefaults(),
		}

		args := strings.Join(m.args(), " ")

		Convey("mpv starts paused with an IPC socket", func() {
			So(args, ShouldContainSubstring, "--pause=yes")
			So(args, ShouldContainSubstring, "--input-ipc-server=/tmp/mpv.sock")
		})

		Convey("Geometry, controls and fit follow the options", func() {
			So(args, ShouldContainSubstring, "--geometry=720x432")
			So(args, ShouldContainSubstring, "--osc=yes")
			So(args, ShouldContainSubstring, "--video-unscaled=yes")
		})

		Convey("The source follows the end of options", func() {
			So(args, ShouldEndWith, "-- /videos/demo.mp4")
		})
	})

	Convey("sanitizeMediaTarget", t, func() {
		_, err := sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("ftp://example.com/demo.mp4")
		So(err, ShouldNotBeNil)

		target, err := sanitizeMediaTarget(" https://example.com/demo.mp4 ")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "https://example.com/demo.mp4")

		target, err = sanitizeMediaTarget("videos/../videos/demo.mp4")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "videos/demo.mp4")
	})
}
