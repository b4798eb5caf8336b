package cmd

import (
	"encoding/json"
	"os"

	"github.com/castsync/castsync/color"
	"github.com/castsync/castsync/config"
	"github.com/castsync/castsync/style"
	"github.com/castsync/castsync/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

func init() {
	rootCmd.AddCommand(envCmd)
	envCmd.Flags().BoolP("set-only", "s", false, "Display only environment variables that are currently defined")
	envCmd.Flags().BoolP("unset-only", "u", false, "Display only environment variables that are currently undefined")
	envCmd.Flags().BoolP("json", "j", false, "Print the variables as a JSON object, unset ones as null")

	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")
	envCmd.SetOut(os.Stdout)
}

// envVars returns every environment variable castsync reads, sorted.
func envVars() []string {
	names := lo.Map(lo.Values(config.Default), func(f config.Field, _ int) string {
		return f.Env()
	})
	names = append(names, where.EnvConfigPath)
	slices.Sort(names)
	return names
}

// envCmd displays the current process values for all supported environment variables.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Display the collection of supported environment variables",
	Long:  `Display the collection of supported environment variables and their current process values.`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			setOnly   = lo.Must(cmd.Flags().GetBool("set-only"))
			unsetOnly = lo.Must(cmd.Flags().GetBool("unset-only"))
			asJson    = lo.Must(cmd.Flags().GetBool("json"))
			values    = make(map[string]*string)
		)

		names := lo.Filter(envVars(), func(env string, _ int) bool {
			_, present := os.LookupEnv(env)
			return !(setOnly && !present) && !(unsetOnly && present)
		})

		for _, env := range names {
			if value, ok := os.LookupEnv(env); ok {
				values[env] = &value
			} else {
				values[env] = nil
			}
		}

		if asJson {
			handleErr(json.NewEncoder(cmd.OutOrStdout()).Encode(values))
			return
		}

		for _, env := range names {
			cmd.Print(style.New().Bold(true).Foreground(color.Purple).Render(env))
			cmd.Print("=")

			if value := values[env]; value != nil {
				cmd.Println(style.Fg(color.Green)(*value))
			} else {
				cmd.Println(style.Fg(color.Red)("unset"))
			}
		}
	},
}
