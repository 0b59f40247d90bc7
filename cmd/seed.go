/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moment-festival/momentd/internal/colors"
	"github.com/moment-festival/momentd/internal/config"
	"github.com/moment-festival/momentd/internal/logging"
	"github.com/moment-festival/momentd/internal/seed"
	"github.com/moment-festival/momentd/internal/storage"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample festival data into storage",
	Long: `Load sample festival data into storage.

USAGE:
    momentd seed

Seeding is idempotent: existing festival, DJ profile and NFT moment
records are left untouched.`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	config.Load()
	if err := logging.InitGlobal(); err != nil {
		colors.Warning("logging disabled: " + err.Error())
	}
	defer logging.ShutdownGlobal()

	store, err := storage.NewFromConfig()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := seed.Run(cmd.Context(), store); err != nil {
		return err
	}
	colors.Success("Sample festival data loaded")
	return nil
}
