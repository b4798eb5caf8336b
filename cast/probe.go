package cast

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/where"
	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// Info summarizes a recording without keeping its events.
type Info struct {
	Source   string   `json:"source" jsonschema:"description=Path or URL the recording was read from"`
	Version  int      `json:"version" jsonschema:"enum=1,enum=2,enum=3"`
	Columns  int      `json:"columns"`
	Rows     int      `json:"rows"`
	Title    string   `json:"title,omitempty"`
	Duration float64  `json:"duration" jsonschema:"description=Length in seconds"`
	Events   int      `json:"events"`
	Markers  []Marker `json:"markers,omitempty"`

	ProbedAt time.Time `json:"probed_at"`
}

// Frames returns the composition length of the recording at fps.
func (i Info) Frames(fps float64) int {
	return Frames(i.Duration, fps)
}

// Describe builds the Info of a parsed recording.
func Describe(source string, rec *Recording) Info {
	columns, rows := rec.Size()
	return Info{
		Source:   source,
		Version:  rec.Header.Version,
		Columns:  columns,
		Rows:     rows,
		Title:    rec.Header.Title,
		Duration: rec.Duration(),
		Events:   len(rec.Events),
		Markers:  rec.Markers(),
		ProbedAt: time.Now(),
	}
}

// probeEntry is a cached Info. Stamp identifies the revision of a local file it was computed from.
type probeEntry struct {
	Info  Info   `json:"info"`
	Stamp string `json:"stamp,omitempty"`
}

type probeData struct {
	Probes map[string]probeEntry `json:"probes"`
}

// probeCache persists probe results keyed by source.
type probeCache struct {
	once     sync.Once
	internal *gache.Cache[*probeData]
	mu       sync.RWMutex
}

var probes = &probeCache{}

func (c *probeCache) cache() *gache.Cache[*probeData] {
	c.once.Do(func() {
		c.internal = gache.New[*probeData](&gache.Options{
			Path:       where.Probes(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return c.internal
}

func (c *probeCache) Get(source string) mo.Option[probeEntry] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, expired, err := c.cache().Get()
	if err != nil || expired || data == nil {
		return mo.None[probeEntry]()
	}

	entry, ok := data.Probes[source]
	if !ok {
		return mo.None[probeEntry]()
	}
	return mo.Some(entry)
}

func (c *probeCache) Set(source string, entry probeEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, expired, err := c.cache().Get()
	if err != nil || expired || data == nil || data.Probes == nil {
		data = &probeData{Probes: make(map[string]probeEntry)}
	}

	data.Probes[source] = entry
	return c.cache().Set(data)
}

// stamp identifies the current revision of a local file.
func stamp(source string) (string, error) {
	stat, err := filesystem.API().Stat(source)
	if err != nil {
		return "", fmt.Errorf("stat recording: %w", err)
	}
	return fmt.Sprintf("%d-%d", stat.Size(), stat.ModTime().UnixNano()), nil
}

// fresh reports whether a cached probe still describes source.
func fresh(entry probeEntry, source string) bool {
	if IsRemote(source) {
		lifetime := time.Duration(viper.GetInt(key.ProbeCacheHours)) * time.Hour
		return time.Since(entry.Info.ProbedAt) < lifetime
	}

	current, err := stamp(source)
	return err == nil && current == entry.Stamp
}

// Probe returns the Info of the recording at source, consulting the probe cache first.
func Probe(ctx context.Context, source string) (Info, error) {
	if cached, ok := probes.Get(source).Get(); ok && fresh(cached, source) {
		log.Debugf("probe cache hit for %s", source)
		return cached.Info, nil
	}

	rec, err := Load(ctx, source)
	if err != nil {
		return Info{}, err
	}

	entry := probeEntry{Info: Describe(source, rec)}
	if !IsRemote(source) {
		if entry.Stamp, err = stamp(source); err != nil {
			return Info{}, err
		}
	}

	if err := probes.Set(source, entry); err != nil {
		log.Warnf("cache probe of %s: %v", source, err)
	}

	return entry.Info, nil
}
