package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/castsync/castsync/cast"
	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/recent"
	"github.com/castsync/castsync/style"
	"github.com/castsync/castsync/util"
	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(probeCmd)

	probeCmd.Flags().BoolP("json", "j", false, "Print the probe as JSON")
	probeCmd.Flags().Bool("schema", false, "Print the JSON schema of the probe output and exit")
	probeCmd.Flags().Float64P("fps", "f", 0, "Frame rate used to count composition frames, defaults to "+key.RenderFPS)

	probeCmd.SetOut(os.Stdout)
}

// probeCmd reads a recording header and reports its size, length and markers.
var probeCmd = &cobra.Command{
	Use:               "probe <recording>",
	Short:             "Show metadata of a recording",
	Args:              cobra.RangeArgs(0, 1),
	ValidArgsFunction: completionSources,
	Run: func(cmd *cobra.Command, args []string) {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")

		if lo.Must(cmd.Flags().GetBool("schema")) {
			reflector := jsonschema.Reflector{
				DoNotReference: true,
			}
			handleErr(encoder.Encode(reflector.Reflect(&cast.Info{})))
			return
		}

		if len(args) == 0 {
			handleErr(cmd.Help())
			return
		}

		info, err := cast.Probe(context.Background(), args[0])
		handleErr(err)
		_ = recent.Remember(info.Source, info.Title, 1)

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(encoder.Encode(info))
			return
		}

		fps := lo.Must(cmd.Flags().GetFloat64("fps"))
		if fps <= 0 {
			fps = viper.GetFloat64(key.RenderFPS)
		}

		label := style.New().Bold(true).Foreground(color.Purple).Render
		title := info.Title
		if title == "" {
			title = util.FileStem(info.Source)
		}

		cmd.Printf("%s %s\n\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Bold(title))
		cmd.Printf("%s  %s\n", label("Source  "), info.Source)
		cmd.Printf("%s  v%d\n", label("Format  "), info.Version)
		cmd.Printf("%s  %dx%d\n", label("Size    "), info.Columns, info.Rows)
		cmd.Printf("%s  %s (%s at %g fps)\n", label("Duration"), util.Timestamp(info.Duration), util.Quantify(info.Frames(fps), "frame", "frames"), fps)
		cmd.Printf("%s  %d\n", label("Events  "), info.Events)

		for _, marker := range info.Markers {
			cmd.Printf("%s  %s %s\n", label("Marker  "), style.Fg(color.Yellow)(util.Timestamp(marker.Time)), marker.Label)
		}

		if info.ProbedAt.IsZero() {
			return
		}
		cmd.Println(style.Faint(fmt.Sprintf("\nprobed %s", info.ProbedAt.Format("2006-01-02 15:04:05"))))
	},
}
