package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"

	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/style"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/viper"
)

// CheckDependencies verifies that the binaries the configured engine needs are on PATH.
// The terminal engine needs none.
func CheckDependencies() {
	if viper.GetString(key.PlayerEngine) != player.EngineMPV {
		return
	}

	binary := viper.GetString(key.PlayerMPVPath)
	if _, err := exec.LookPath(binary); err != nil {
		printMissingDependencyError(binary)
		os.Exit(1)
	}
}

func printMissingDependencyError(dep string) {
	var installCmd string
	switch runtime.GOOS {
	case "darwin":
		installCmd = "brew install mpv"
	case "linux":
		installCmd = "sudo apt install mpv"
	case "windows":
		installCmd = "scoop install mpv"
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: Missing Dependency", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The mpv engine needs '%s', which was not found in your PATH.", dep))

	suggestion := fmt.Sprintf("\n\nUse the built-in engine instead:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render("--engine terminal"))
	if installCmd != "" {
		suggestion += fmt.Sprintf("\n\nOr install mpv:\n  %s", style.New().Foreground(style.AccentColor).Bold(true).Render(installCmd))
	}

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
