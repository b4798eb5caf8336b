// Package cast reads asciicast terminal recordings (formats v1, v2 and v3).
package cast

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/castsync/castsync/constant"
)

// ErrUnknownFormat is returned when the input is not a supported asciicast recording.
var ErrUnknownFormat = errors.New("unknown recording format")

// Event codes.
const (
	CodeOutput = "o"
	CodeInput  = "i"
	CodeMarker = "m"
	CodeResize = "r"
	CodeExit   = "x"
)

// Event is one recorded terminal event. Time is absolute, in seconds from the start.
type Event struct {
	Time float64
	Code string
	Data string
}

// Header describes a recording.
type Header struct {
	Version       int     `json:"version"`
	Columns       int     `json:"columns"`
	Rows          int     `json:"rows"`
	Title         string  `json:"title,omitempty"`
	Timestamp     int64   `json:"timestamp,omitempty"`
	Duration      float64 `json:"duration,omitempty"`
	IdleTimeLimit float64 `json:"idle_time_limit,omitempty"`
}

// Recording is a parsed recording with events in chronological order.
type Recording struct {
	Header Header
	Events []Event
}

// Duration returns the header duration if present, otherwise the time of the last event.
func (r *Recording) Duration() float64 {
	if r.Header.Duration > 0 {
		return r.Header.Duration
	}

	if n := len(r.Events); n > 0 {
		return r.Events[n-1].Time
	}

	return 0
}

// Size returns the terminal geometry, falling back to the defaults for missing values.
func (r *Recording) Size() (columns, rows int) {
	columns, rows = r.Header.Columns, r.Header.Rows
	if columns <= 0 {
		columns = constant.DefaultColumns
	}
	if rows <= 0 {
		rows = constant.DefaultRows
	}
	return
}

// Marker is a labelled point in a recording.
type Marker struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
}

// Markers returns every marker event.
func (r *Recording) Markers() []Marker {
	var markers []Marker
	for _, e := range r.Events {
		if e.Code == CodeMarker {
			markers = append(markers, Marker{Time: e.Time, Label: e.Data})
		}
	}
	return markers
}

// Frames returns the number of frames a composition of the given length spans at fps.
// A composition always has at least one frame.
func Frames(seconds, fps float64) int {
	if fps <= 0 || seconds <= 0 || math.IsNaN(seconds) || math.IsInf(seconds, 0) {
		return 1
	}
	return max(1, int(math.Ceil(seconds*fps)))
}

// Parse reads a recording in any supported format.
func Parse(r io.Reader) (*Recording, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty recording: %w", ErrUnknownFormat)
	}

	// v1 is a single JSON document; v2 and v3 start with a one-line header.
	if rec, err := parseV1(data); err == nil {
		return rec, nil
	}

	return parseNDJSON(data)
}

type v1Document struct {
	Version  int               `json:"version"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Duration float64           `json:"duration"`
	Title    string            `json:"title"`
	Stdout   []json.RawMessage `json:"stdout"`
}

func parseV1(data []byte) (*Recording, error) {
	var doc v1Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Version != 1 {
		return nil, fmt.Errorf("version %d: %w", doc.Version, ErrUnknownFormat)
	}

	rec := &Recording{
		Header: Header{
			Version:  1,
			Columns:  doc.Width,
			Rows:     doc.Height,
			Title:    doc.Title,
			Duration: doc.Duration,
		},
		Events: make([]Event, 0, len(doc.Stdout)),
	}

	var clock float64
	for i, raw := range doc.Stdout {
		var frame []json.RawMessage
		if err := json.Unmarshal(raw, &frame); err != nil || len(frame) < 2 {
			return nil, fmt.Errorf("stdout frame %d: malformed", i)
		}

		delay, err := number(frame[0])
		if err != nil {
			return nil, fmt.Errorf("stdout frame %d: %w", i, err)
		}

		var text string
		if err := json.Unmarshal(frame[1], &text); err != nil {
			return nil, fmt.Errorf("stdout frame %d: %w", i, err)
		}

		clock += delay
		rec.Events = append(rec.Events, Event{Time: clock, Code: CodeOutput, Data: text})
	}

	return rec, nil
}

type ndjsonHeader struct {
	Version       int     `json:"version"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Timestamp     int64   `json:"timestamp"`
	Duration      float64 `json:"duration"`
	IdleTimeLimit float64 `json:"idle_time_limit"`
	Title         string  `json:"title"`
	Term          struct {
		Cols int `json:"cols"`
		Rows int `json:"rows"`
	} `json:"term"`
}

func parseNDJSON(data []byte) (*Recording, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	if !scanner.Scan() {
		return nil, ErrUnknownFormat
	}

	var h ndjsonHeader
	if err := json.Unmarshal(scanner.Bytes(), &h); err != nil {
		return nil, fmt.Errorf("header: %w", ErrUnknownFormat)
	}

	rec := &Recording{
		Header: Header{
			Version:       h.Version,
			Timestamp:     h.Timestamp,
			Duration:      h.Duration,
			IdleTimeLimit: h.IdleTimeLimit,
			Title:         h.Title,
		},
	}

	var relative bool
	switch h.Version {
	case 2:
		rec.Header.Columns, rec.Header.Rows = h.Width, h.Height
	case 3:
		rec.Header.Columns, rec.Header.Rows = h.Term.Cols, h.Term.Rows
		relative = true
	default:
		return nil, fmt.Errorf("version %d: %w", h.Version, ErrUnknownFormat)
	}

	var clock float64
	for line := 2; scanner.Scan(); line++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		// v3 allows comment lines
		if len(raw) == 0 || raw[0] == '#' {
			continue
		}

		var fields []json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil || len(fields) < 3 {
			return nil, fmt.Errorf("line %d: malformed event", line)
		}

		t, err := number(fields[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		var e Event
		if err := json.Unmarshal(fields[1], &e.Code); err != nil {
			return nil, fmt.Errorf("line %d: event code: %w", line, err)
		}
		if err := json.Unmarshal(fields[2], &e.Data); err != nil {
			return nil, fmt.Errorf("line %d: event data: %w", line, err)
		}

		if relative {
			clock += t
		} else {
			clock = max(clock, t)
		}
		e.Time = clock
		rec.Events = append(rec.Events, e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan recording: %w", err)
	}

	return rec, nil
}

// number decodes a JSON number, tolerating numbers encoded as strings.
func number(raw json.RawMessage) (float64, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected number, got %s", string(raw))
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("expected number, got %q", s)
	}
	return f, nil
}

// ParseSize decodes the "COLSxROWS" payload of a resize event.
func ParseSize(data string) (columns, rows int, ok bool) {
	c, r, found := strings.Cut(data, "x")
	if !found {
		return 0, 0, false
	}

	columns, err := strconv.Atoi(strings.TrimSpace(c))
	if err != nil || columns <= 0 {
		return 0, 0, false
	}

	rows, err = strconv.Atoi(strings.TrimSpace(r))
	if err != nil || rows <= 0 {
		return 0, 0, false
	}

	return columns, rows, true
}
