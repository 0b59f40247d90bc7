/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/moment-festival/momentd/internal/colors"
	"github.com/moment-festival/momentd/internal/config"
	"github.com/moment-festival/momentd/internal/dispatch"
	"github.com/moment-festival/momentd/internal/logging"
	"github.com/moment-festival/momentd/internal/storage"
	"github.com/moment-festival/momentd/internal/toast"
	"github.com/moment-festival/momentd/internal/tui"
)

// consoleCmd represents the console command
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive notification console",
	Long: `Open the interactive notification console.

USAGE:
    momentd console

KEYBINDINGS:
    r           Refresh festivals (debounced)
    b           Book a sample ticket (debounced)
    d           Dismiss the oldest notification
    j/k         Scroll
    q           Quit`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
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

	surface := toast.NewSurface(toast.Config{
		Limit:         config.GetInt("toast_limit", 3),
		DefaultExpiry: time.Duration(config.GetInt("toast_expiry_seconds", 4)) * time.Second,
	})
	defer surface.Close()

	coordinator := dispatch.New(surface)
	delay := time.Duration(config.GetInt("debounce_ms", 300)) * time.Millisecond
	return tui.Run(tui.NewModel(store, surface, coordinator, delay))
}
