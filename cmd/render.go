package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/open"
	"github.com/castsync/castsync/recent"
	"github.com/castsync/castsync/render"
	"github.com/castsync/castsync/style"
	"github.com/castsync/castsync/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().Float64P("fps", "f", 0, "Composition frame rate")
	lo.Must0(viper.BindPFlag(key.RenderFPS, renderCmd.Flags().Lookup("fps")))

	renderCmd.Flags().String("format", "", "Frame file format (txt, ansi)")
	lo.Must0(renderCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{string(render.FormatText), "ansi"}, cobra.ShellCompDirectiveNoFileComp
	}))
	lo.Must0(viper.BindPFlag(key.RenderFormat, renderCmd.Flags().Lookup("format")))

	renderCmd.Flags().Bool("open", false, "Open the output directory when done")
	lo.Must0(viper.BindPFlag(key.RenderOpenAfter, renderCmd.Flags().Lookup("open")))
	renderCmd.Flags().String("open-with", "", "Application that opens the output directory, implies --open")

	renderCmd.Flags().StringP("order", "O", "sequential", "Frame order: sequential, reverse, scrub or a list of frames and ranges like 0-29,90,60-31")
	lo.Must0(renderCmd.RegisterFlagCompletionFunc("order", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"sequential", "reverse", "scrub"}, cobra.ShellCompDirectiveNoFileComp
	}))
	renderCmd.Flags().Uint64("seed", 0, "Seed of the scrub order, 0 for a time based seed")
	renderCmd.Flags().StringP("out", "o", "", "Output directory, defaults to a directory under the renders path")
	renderCmd.Flags().Bool("no-pace", false, "Capture continuous frames as fast as the player allows")
}

// renderCmd steps a player through a composition and captures every frame it shows.
var renderCmd = &cobra.Command{
	Use:               "render <recording>",
	Short:             "Render a recording frame by frame, the way a video compositor drives it",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSources,
	Example: `  castsync render demo.cast
  castsync render demo.cast --fps 60 --order scrub --seed 7
  castsync render https://asciinema.org/a/335480.cast --order 0-29,90,60-31 --format ansi`,
	Run: func(cmd *cobra.Command, args []string) {
		source := args[0]

		cfg, err := mountConfig(source)
		handleErr(err)

		factory, err := engine()
		handleErr(err)

		format, err := render.ParseFormat(viper.GetString(key.RenderFormat))
		handleErr(err)

		seed := lo.Must(cmd.Flags().GetUint64("seed"))
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}

		order, err := render.ParseOrder(lo.Must(cmd.Flags().GetString("order")), seed)
		handleErr(err)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		erase := util.PrintErasable(fmt.Sprintf("%s Mounting %s...", icon.Get(icon.Progress), style.Fg(color.Yellow)(source)))
		report, err := render.Render(ctx, render.Options{
			Config:  cfg,
			Factory: factory,
			FPS:     viper.GetFloat64(key.RenderFPS),
			Order:   order,
			Format:  format,
			Dir:     lo.Must(cmd.Flags().GetString("out")),
			Pace:    !lo.Must(cmd.Flags().GetBool("no-pace")),
			Progress: func(done, total int) {
				erase()
				erase = util.PrintErasable(fmt.Sprintf("%s Rendering frame %d/%d (%s)", icon.Get(icon.Progress), done, total, order))
			},
		})
		erase()
		handleErr(err)

		if !report.Ready {
			handleErr(fmt.Errorf("player for %s never became ready", source))
		}

		_ = recent.Remember(source, "", 2)

		fmt.Printf(
			"%s rendered %s of %s in %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			util.Quantify(report.Frames, "frame", "frames"),
			util.Quantify(report.Total, "frame", "frames"),
			report.Elapsed.Round(time.Millisecond),
		)
		fmt.Printf(
			"%s %s, %s, %s, %s superseded\n",
			style.Faint("player:"),
			util.Quantify(report.Seeks, "seek", "seeks"),
			util.Quantify(report.Plays, "play", "plays"),
			util.Quantify(report.Pauses, "pause", "pauses"),
			fmt.Sprint(report.Superseded),
		)
		fmt.Println(style.Fg(color.Purple)(report.Dir))

		if app := lo.Must(cmd.Flags().GetString("open-with")); app != "" || viper.GetBool(key.RenderOpenAfter) {
			handleErr(open.StartWith(report.Dir, app))
		}
	},
}
