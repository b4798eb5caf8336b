package cmd

import (
	"encoding/json"
	"os"

	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/recent"
	"github.com/castsync/castsync/style"
	"github.com/muesli/reflow/truncate"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(recentCmd)

	recentCmd.Flags().BoolP("json", "j", false, "Print the records as JSON")
	recentCmd.Flags().StringP("query", "q", "", "Only show recordings fuzzily matching the query")

	recentCmd.SetOut(os.Stdout)
}

// recentCmd lists remembered recordings.
var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List recently probed and rendered recordings",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		records := recent.List()

		if query := lo.Must(cmd.Flags().GetString("query")); query != "" {
			matched := lo.SliceToMap(recent.Suggest(query), func(source string) (string, struct{}) {
				return source, struct{}{}
			})
			records = lo.Filter(records, func(r recent.Record, _ int) bool {
				_, ok := matched[r.Source]
				return ok
			})
		}

		if lo.Must(cmd.Flags().GetBool("json")) {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Printf("%s nothing here yet\n", icon.Get(icon.Info))
			return
		}

		for _, r := range records {
			cmd.Printf("%s %s\n", style.Fg(color.Purple)(truncate.StringWithTail(r.Source, 72, "…")), style.Faint(r.LastUsed.Format("2006-01-02 15:04")))
			if r.Title != "" {
				cmd.Printf("  %s\n", style.Fg(color.Yellow)(r.Title))
			}
		}
	},
}
