package cmd

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/castsync/castsync/filesystem"
	"github.com/castsync/castsync/icon"
	"github.com/castsync/castsync/util"
	"github.com/castsync/castsync/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget defines a filesystem resource eligible for cleanup.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
	// confirm asks before removing data the user produced.
	confirm bool
}

var clearTargets = []clearTarget{
	{"cache directory", "cache", mo.Some("c"), where.Cache, true},
	{"probe cache", "probes", mo.Some("p"), where.Probes, false},
	{"recent recordings", "recent", mo.Some("r"), where.Recent, false},
	{"rendered frames", "renders", mo.None[string](), where.Renders, true},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}

	clearCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// clearCmd manages the cleanup of cached and generated artifacts.
var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear cached and generated application artifacts",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			anyCleared bool
			yes        = lo.Must(cmd.Flags().GetBool("yes"))
		)

		doClear := func(what string) bool {
			return lo.Must(cmd.Flags().GetBool(what))
		}

		for _, target := range clearTargets {
			if !doClear(target.argLong) {
				continue
			}
			anyCleared = true

			if target.confirm && !yes {
				var ok bool
				handleErr(survey.AskOne(&survey.Confirm{
					Message: fmt.Sprintf("Remove all %s in %s?", target.name, target.location()),
				}, &ok))
				if !ok {
					continue
				}
			}

			e := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			_ = util.Delete(target.location())
			e()
			handleErr(filesystem.API().RemoveAll(target.location()))
			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
