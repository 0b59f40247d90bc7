/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moment-festival/momentd/internal/colors"
	"github.com/moment-festival/momentd/internal/version"
)

var (
	flagDebug bool
	flagQuiet bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "momentd",
	Short: "Festival backend and notification console for the Moment Festival app.",
	Long:  `Festival backend and notification console for the Moment Festival app.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagDebug {
			colors.SetDebug(true)
		}
		if flagQuiet {
			colors.SetQuiet(true)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.Version = version.String()

	// Hide the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		printHelpText(cmd)
	})

	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "Suppress non-error output")
}

func printHelpText(cmd *cobra.Command) {
	commandOrder := []string{
		"serve",
		"seed",
		"console",
		"version",
		"help",
	}

	var cmdLines []string
	for _, name := range commandOrder {
		var found *cobra.Command
		for _, c := range cmd.Root().Commands() {
			if c.Name() == name {
				found = c
				break
			}
		}
		if found == nil {
			continue
		}
		cmdLines = append(cmdLines, fmt.Sprintf("    %-16s %s", found.Use, found.Short))
	}

	helpText := fmt.Sprintf(`momentd v%s

Festival backend and notification console for the Moment Festival app.

USAGE:
    momentd [COMMAND] [OPTIONS]

COMMANDS:
%s

OPTIONS:
    --debug         Enable debug output
    --quiet         Suppress non-error output
    -h, --help      Show help message
`, version.String(), strings.Join(cmdLines, "\n"))
	fmt.Fprint(cmd.OutOrStdout(), helpText)
}
