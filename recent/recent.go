// Package recent remembers the recordings a user has worked with and suggests them back.
package recent

import (
	"strings"
	"sync"
	"time"

	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/where"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/metafates/gache"
	"github.com/samber/lo"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Record is one remembered recording.
type Record struct {
	Source   string    `json:"source"`
	Title    string    `json:"title,omitempty"`
	Rank     int       `json:"rank"`
	LastUsed time.Time `json:"last_used"`
}

var (
	cacherOnce sync.Once
	cacher     *gache.Cache[map[string]*Record]
)

func registry() *gache.Cache[map[string]*Record] {
	cacherOnce.Do(func() {
		cacher = gache.New[map[string]*Record](&gache.Options{
			Path:       where.Recent(),
			FileSystem: &filesystem.GacheFs{},
		})
	})
	return cacher
}

func load() map[string]*Record {
	cached, expired, err := registry().Get()
	if expired || err != nil || cached == nil {
		return make(map[string]*Record)
	}
	return cached
}

// Remember records a use of source, raising its rank by weight. It does nothing when
// recent.remember is off.
func Remember(source, title string, weight int) error {
	if !viper.GetBool(key.RecentRemember) {
		return nil
	}

	source = strings.TrimSpace(source)
	if source == "" {
		return nil
	}

	records := load()
	record, ok := records[source]
	if !ok {
		record = &Record{Source: source}
		records[source] = record
	}

	record.Rank += weight
	record.LastUsed = time.Now()
	if title != "" {
		record.Title = title
	}

	return registry().Set(records)
}

// List returns every remembered recording, most recently used first.
func List() []Record {
	records := lo.MapToSlice(load(), func(_ string, r *Record) Record {
		return *r
	})

	slices.SortFunc(records, func(a, b Record) int {
		return b.LastUsed.Compare(a.LastUsed)
	})
	return records
}

// Suggest returns remembered sources fuzzily matching partial, highest rank first,
// at most recent.limit of them.
func Suggest(partial string) []string {
	partial = strings.ToLower(strings.TrimSpace(partial))

	matches := lo.Filter(List(), func(r Record, _ int) bool {
		return fuzzy.MatchFold(partial, r.Source) || (r.Title != "" && fuzzy.MatchFold(partial, r.Title))
	})

	slices.SortStableFunc(matches, func(a, b Record) int {
		return b.Rank - a.Rank
	})

	if limit := viper.GetInt(key.RecentLimit); limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return lo.Map(matches, func(r Record, _ int) string {
		return r.Source
	})
}
