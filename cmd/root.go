// Package cmd implements the command-line interface for castsync.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/config"
	"github.com/castsync/castsync/constant"
	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/log"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/style"
	"github.com/castsync/castsync/util"
	"github.com/castsync/castsync/version"
	"github.com/castsync/castsync/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, square)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("engine", "e", "", "Playback engine driving the recording ("+strings.Join(player.AvailableEngines(), ", ")+")")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("engine", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.AvailableEngines(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerEngine, rootCmd.PersistentFlags().Lookup("engine")))

	rootCmd.PersistentFlags().StringP("theme", "t", "", "Color theme used by the terminal engine")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("theme", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return player.AvailableThemes(), cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerTheme, rootCmd.PersistentFlags().Lookup("theme")))

	rootCmd.PersistentFlags().String("fit", "", "How frames are fitted into the output area (width, height, both, none)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("fit", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(player.FitWidth), string(player.FitHeight), string(player.FitBoth), string(player.FitNone)}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.PlayerFit, rootCmd.PersistentFlags().Lookup("fit")))

	rootCmd.PersistentFlags().Int("columns", 0, "Terminal columns, 0 to use the recording's own size")
	lo.Must0(viper.BindPFlag(key.PlayerColumns, rootCmd.PersistentFlags().Lookup("columns")))

	rootCmd.PersistentFlags().Int("rows", 0, "Terminal rows, 0 to use the recording's own size")
	lo.Must0(viper.BindPFlag(key.PlayerRows, rootCmd.PersistentFlags().Lookup("rows")))

	rootCmd.PersistentFlags().Bool("controls", false, "Draw the player's controls bar")
	lo.Must0(viper.BindPFlag(key.PlayerShowControls, rootCmd.PersistentFlags().Lookup("controls")))

	helpFunc := rootCmd.HelpFunc()
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		helpFunc(cmd, args)
		version.Notify()
	})

	// Leftover mpv sockets from earlier runs.
	go func() {
		_ = util.Delete(where.Temp())
	}()
}

// rootCmd defines the entry point for castsync.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Frame-accurate playback of terminal recordings for video renderers",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Frame-accurate playback of terminal recordings for video renderers"),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// config subcommands must stay usable to repair a broken file
		if cmd == configCmd || cmd.Parent() == configCmd {
			return
		}
		handleErr(config.Validate())
	},
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(cmd.Help())
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
