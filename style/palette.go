package style

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the CLI draws with.
var (
	Base    = lipgloss.Color("#1e1e2e")
	Text    = lipgloss.Color("#cdd6f4")
	Overlay = lipgloss.Color("#6c7086")

	Mauve = lipgloss.Color("#cba6f7")
	Red   = lipgloss.Color("#f38ba8")
	Peach = lipgloss.Color("#fab387")
	Green = lipgloss.Color("#a6e3a1")
	Sky   = lipgloss.Color("#89dceb")

	AccentColor = Mauve
	HiRed       = Red
)

// Player mode colors, shared by the scrubber and command output.
var (
	PlayingColor = Green
	PausedColor  = Sky
	SeekingColor = Peach
	WaitingColor = Overlay
)
