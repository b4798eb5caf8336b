package player

import (
	"fmt"
	"strconv"

	"github.com/samber/lo"
)

// Theme names.
const (
	ThemeAsciinema      = "asciinema"
	ThemeTango          = "tango"
	ThemeSolarizedDark  = "solarized-dark"
	ThemeSolarizedLight = "solarized-light"
)

// Theme is a terminal color scheme: default colors plus the 16 ANSI colors.
type Theme struct {
	Name       string
	Foreground string
	Background string
	Palette    [16]string
}

var solarizedPalette = [16]string{
	"#073642", "#dc322f", "#859900", "#b58900", "#268bd2", "#d33682", "#2aa198", "#eee8d5",
	"#002b36", "#cb4b16", "#586e75", "#657b83", "#839496", "#6c71c4", "#93a1a1", "#fdf6e3",
}

var themes = map[string]Theme{
	ThemeAsciinema: {
		Name:       ThemeAsciinema,
		Foreground: "#cccccc",
		Background: "#121314",
		Palette: [16]string{
			"#000000", "#dd3c69", "#4ebf22", "#ddaf3c", "#26b0d7", "#b954e1", "#54e1b9", "#d9d9d9",
			"#4d4d4d", "#dd3c69", "#4ebf22", "#ddaf3c", "#26b0d7", "#b954e1", "#54e1b9", "#ffffff",
		},
	},
	ThemeTango: {
		Name:       ThemeTango,
		Foreground: "#cccccc",
		Background: "#121314",
		Palette: [16]string{
			"#000000", "#cc0000", "#4e9a06", "#c4a000", "#3465a4", "#75507b", "#06989a", "#d3d7cf",
			"#555753", "#ef2929", "#8ae234", "#fce94f", "#729fcf", "#ad7fa8", "#34e2e2", "#eeeeec",
		},
	},
	ThemeSolarizedDark: {
		Name:       ThemeSolarizedDark,
		Foreground: "#839496",
		Background: "#002b36",
		Palette:    solarizedPalette,
	},
	ThemeSolarizedLight: {
		Name:       ThemeSolarizedLight,
		Foreground: "#657b83",
		Background: "#fdf6e3",
		Palette:    solarizedPalette,
	},
}

// AvailableThemes lists the registered theme names in a stable order.
func AvailableThemes() []string {
	return []string{ThemeAsciinema, ThemeTango, ThemeSolarizedDark, ThemeSolarizedLight}
}

// LookupTheme returns the named theme.
func LookupTheme(name string) (Theme, error) {
	t, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q, available: %v", name, lo.Keys(themes))
	}
	return t, nil
}

// rgb splits a #rrggbb color into its components.
func rgb(hex string) (r, g, b uint8) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0
	}

	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return 0, 0, 0
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v)
}

// sgr returns the select-graphic-rendition parameters for a foreground (38) or background (48) color.
func sgr(layer int, hex string) string {
	r, g, b := rgb(hex)
	return fmt.Sprintf("%d;2;%d;%d;%d", layer, r, g, b)
}
