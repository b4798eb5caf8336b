package cmd

import (
	"github.com/castsync/castsync/framesync"
	"github.com/castsync/castsync/key"
	"github.com/castsync/castsync/player"
	"github.com/castsync/castsync/recent"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// mountConfig reads the player.* settings for source, rejecting unknown fits and themes early.
func mountConfig(source string) (framesync.Config, error) {
	cfg := framesync.ConfigFromViper(source)

	fit, err := player.ParseFit(string(cfg.Fit))
	if err != nil {
		return framesync.Config{}, err
	}
	cfg.Fit = fit

	if _, err := player.LookupTheme(cfg.Theme); err != nil {
		return framesync.Config{}, err
	}

	return cfg, nil
}

// engine returns the factory of the configured playback engine.
func engine() (player.Factory, error) {
	CheckDependencies()
	return player.Create(viper.GetString(key.PlayerEngine))
}

// completionSources suggests remembered recordings, falling back to file completion.
func completionSources(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	if suggestions := recent.Suggest(toComplete); len(suggestions) > 0 {
		return suggestions, cobra.ShellCompDirectiveDefault
	}
	return nil, cobra.ShellCompDirectiveDefault
}
