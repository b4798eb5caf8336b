// Package config provides centralized management for application settings, defaults, and the Viper-based configuration engine.
package config

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/template"

	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/constant"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/style"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// Field represents a configuration field definition.
type Field struct {
	Key         string
	Value       any
	Description string
}

// Pretty returns a colored string representation of the field for display.
func (f *Field) Pretty() string {
	var b strings.Builder
	lo.Must0(prettyTemplate.Execute(&b, f))
	return b.String()
}

// Env returns the environment variable name for this field.
func (f *Field) Env() string {
	env := strings.ToUpper(EnvKeyReplacer.Replace(f.Key))
	prefix := strings.ToUpper(constant.App + "_")
	if strings.HasPrefix(env, prefix) {
		return env
	}
	return prefix + env
}

// MarshalJSON customizes JSON output to include current and default values.
func (f *Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key         string `json:"key"`
		Value       any    `json:"value"`
		Default     any    `json:"default"`
		Description string `json:"description"`
		Type        string `json:"type"`
	}{
		Key:         f.Key,
		Value:       viper.Get(f.Key),
		Default:     f.Value,
		Description: f.Description,
		Type:        f.typeName(),
	})
}

// typeName returns the string representation of the field's underlying value type.
func (f *Field) typeName() string {
	switch f.Value.(type) {
	case string:
		return "string"
	case int:
		return "int"
	case float64:
		return "float64"
	case bool:
		return "bool"
	case []string:
		return "[]string"
	case []int:
		return "[]int"
	default:
		return "unknown"
	}
}

// Default holds the map of all configuration fields.
var Default = make(map[string]Field)

// EnvExposed holds keys that are bound to environment variables.
var EnvExposed []string

func init() {
	register := func(k string, v any, desc string) {
		if _, exists := Default[k]; exists {
			panic("Duplicate config key: " + k)
		}
		f := Field{Key: k, Value: v, Description: desc}
		Default[k] = f
		EnvExposed = append(EnvExposed, k)
	}

	register(key.PlayerEngine, "terminal", "Playback engine used for mounts.\nAvailable options are: terminal, mpv")
	register(key.PlayerTheme, "asciinema", "Color theme of the terminal engine.\nAvailable options are: asciinema, tango, solarized-dark, solarized-light")
	register(key.PlayerColumns, 0, "Terminal width in columns.\n0 means use the width stored in the recording header")
	register(key.PlayerRows, 0, "Terminal height in rows.\n0 means use the height stored in the recording header")
	register(key.PlayerFit, "both", "How frames are fitted into the output area.\nAvailable options are: width, height, both, none")
	register(key.PlayerShowControls, false, "Draw playback controls below the terminal")
	register(key.PlayerMPVPath, "mpv", "Path to the mpv executable used by the mpv engine")
	register(key.SyncPollIntervalMs, 50, "Milliseconds between readiness checks of a freshly created player")
	register(key.SyncMaxPolls, 0, "Give up readiness polling after this many checks.\n0 means poll until the player is unmounted")
	register(key.SyncToleranceFrames, 0.5, "Seeks closer than this many frames to the last confirmed position are skipped")
	register(key.RenderFPS, 30, "Frames per second of rendered compositions")
	register(key.RenderFormat, "txt", "Format of rendered frames.\nAvailable options are: txt, ansi")
	register(key.RenderOpenAfter, false, "Open the output directory after rendering")
	register(key.ProbeCacheHours, 24, "Hours a remote recording probe stays cached")
	register(key.NetworkFingerprint, false, "Fetch remote recordings with a browser TLS fingerprint.\nUseful for hosts that reject non-browser clients")
	register(key.NetworkCacheHours, 168, "Hours a downloaded recording is reused before it is fetched again.\n0 disables the download cache")
	register(key.RecentRemember, true, "Remember probed and rendered recordings for suggestions")
	register(key.RecentLimit, 20, "Maximum number of suggestions shown for recording arguments")
	register(key.IconsVariant, "plain", "Icons variant.\nAvailable options are: emoji, kaomoji, plain, squares, nerd (nerd-font required)")
	register(key.LogsWrite, false, "Write logs")
	register(key.LogsLevel, "info", "Available options are: (from less to most verbose)\npanic, fatal, error, warn, info, debug, trace")
	register(key.LogsJson, false, "Use json format for logs")
	register(key.CliColored, true, "Enable colored CLI output")
	register(key.CliVersionCheck, false, "Enable automatic version check")
}

var prettyTemplate = lo.Must(template.New("pretty").Funcs(template.FuncMap{
	"faint":    style.Faint,
	"bold":     style.Bold,
	"purple":   style.Fg(color.Purple),
	"blue":     style.Fg(color.Blue),
	"cyan":     style.Fg(color.Cyan),
	"value":    func(k string) any { return viper.Get(k) },
	"typename": func(v any) string { return reflect.TypeOf(v).String() },
	"hl": func(v any) string {
		switch value := v.(type) {
		case bool:
			b := strconv.FormatBool(value)
			if value {
				return style.Fg(color.Green)(b)
			}
			return style.Fg(color.Red)(b)
		case string:
			return style.Fg(color.Yellow)(value)
		default:
			return fmt.Sprint(value)
		}
	},
}).Parse(`{{ faint .Description }}
{{ blue "Key:" }}     {{ purple .Key }}
{{ blue "Env:" }}     {{ .Env }}
{{ blue "Value:" }}   {{ hl (value .Key) }}
{{ blue "Default:" }} {{ hl (.Value) }}
{{ blue "Type:" }}    {{ typename .Value }}`))
