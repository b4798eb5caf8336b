package tui

import (
	"fmt"
	"strings"

	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/style"
	"github.com/castsync/castsync/util"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wrap"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// chromeLines is the number of lines around the frame: title, status, sync line, progress and gaps.
const chromeLines = 7

func (b *statefulBubble) View() string {
	switch b.state {
	case loadingState:
		return b.viewLoading()
	case scrubState:
		return b.viewScrub()
	case errorState:
		return b.viewError()
	default:
		return "Unknown state"
	}
}

func (b *statefulBubble) viewLoading() string {
	return b.renderLines(
		true,
		[]string{
			style.Title("Loading"),
			"",
			b.spinnerC.View() + " Probing " + style.Fg(color.Purple)(b.options.Config.Source),
		},
	)
}

func (b *statefulBubble) viewScrub() string {
	title := b.info.Title
	if title == "" {
		title = util.FileStem(b.info.Source)
	}

	indicator := icon.Get(icon.Pause)
	if b.playing {
		indicator = icon.Get(icon.Play)
	}

	status := fmt.Sprintf(
		"%s %s frame %d of %d  %s / %s",
		b.badge(),
		indicator,
		b.frame,
		b.total,
		util.Timestamp(float64(b.frame)/b.fps),
		util.Timestamp(b.info.Duration),
	)
	if b.notice != "" {
		status += "  " + style.Fg(color.Yellow)(b.notice)
	}

	percent := 0.0
	if b.total > 1 {
		percent = float64(b.frame) / float64(b.total-1)
	}

	body := fitFrame(b.shown.Text, b.options.Config.Fit, b.width, b.height-chromeLines-lipgloss.Height(b.helpC.View(b.keymap)))

	return b.renderLines(
		true,
		[]string{
			style.Title(title),
			"",
			body,
			"",
			style.Truncate(b.width)(status),
			style.Truncate(b.width)(style.Faint(b.syncLine())),
			b.progressC.ViewAs(percent),
		},
	)
}

// badge labels what the player is doing according to the synchronizer.
func (b *statefulBubble) badge() string {
	s := b.host.Current()
	if s == nil {
		return style.Badge("idle", style.WaitingColor)
	}

	current := s.State()
	switch {
	case !current.Ready:
		return style.Badge("waiting", style.WaitingColor)
	case current.SeekInFlight:
		return style.Badge("seeking", style.SeekingColor)
	case current.Mode == framesync.Playing:
		return style.Badge("playing", style.PlayingColor)
	default:
		return style.Badge("paused", style.PausedColor)
	}
}

// syncLine summarizes what the synchronizer believes about the player.
func (b *statefulBubble) syncLine() string {
	s := b.host.Current()
	if s == nil {
		return "player not mounted"
	}

	current := s.State()
	if !current.Ready {
		return icon.Get(icon.Progress) + " waiting for player"
	}

	stats := s.Stats()
	line := fmt.Sprintf(
		"%s player %s  %s  %s superseded",
		icon.Get(icon.Seek),
		current.Mode,
		util.Quantify(stats.Seeks, "seek", "seeks"),
		util.Quantify(stats.Superseded, "seek", "seeks"),
	)

	if current.SeekInFlight {
		line += "  seeking"
	}
	if current.Mode == framesync.Playing {
		line += "  free-running"
	}
	return line
}

func (b *statefulBubble) viewError() string {
	errorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorMsg := wrap.String(errorStyle.Render(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	h := lipgloss.Height(l)
	if addHelp {
		if b.height > h {
			l += strings.Repeat("\n", b.height-h)
		}
		l += b.helpC.View(b.keymap)
	}

	return paddingStyle.Render(l)
}

// fitFrame lays frame text out in a width x height area.
// Fits that include the width wrap long lines, others cut them. Fits that include the
// height keep the bottom rows, where a terminal's cursor usually is; others keep the top.
func fitFrame(text string, fit player.Fit, width, height int) string {
	if height <= 0 {
		return ""
	}

	fitsWidth := fit == player.FitWidth || fit == player.FitBoth
	fitsHeight := fit == player.FitHeight || fit == player.FitBoth

	if width > 0 {
		if fitsWidth {
			text = wrap.String(text, width)
		} else {
			lines := strings.Split(text, "\n")
			for i, line := range lines {
				lines[i] = truncate.String(line, uint(width))
			}
			text = strings.Join(lines, "\n")
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > height {
		if fitsHeight {
			lines = lines[len(lines)-height:]
		} else {
			lines = lines[:height]
		}
	}

	return strings.Join(lines, "\n")
}
