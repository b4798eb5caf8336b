package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/tui"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Float64P("fps", "f", 0, "Composition frame rate, defaults to "+key.RenderFPS)
	previewCmd.Flags().Float64P("duration", "d", 0, "Length in seconds of a source that cannot be probed, such as a video for the mpv engine")
}

// previewCmd opens the interactive scrubber.
var previewCmd = &cobra.Command{
	Use:               "preview <recording>",
	Aliases:           []string{"scrub"},
	Short:             "Scrub through a recording frame by frame in the terminal",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completionSources,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := mountConfig(args[0])
		handleErr(err)

		factory, err := engine()
		handleErr(err)

		fps := lo.Must(cmd.Flags().GetFloat64("fps"))
		if fps <= 0 {
			fps = viper.GetFloat64(key.RenderFPS)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		handleErr(tui.Run(ctx, &tui.Options{
			Config:   cfg,
			Factory:  factory,
			FPS:      fps,
			Duration: lo.Must(cmd.Flags().GetFloat64("duration")),
		}))
	},
}
