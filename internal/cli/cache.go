// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"github.com/spf13/cobra"

	"kabu-dashboard/internal/models"
)

// addCacheCommands adds cache inspection commands.
func addCacheCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Cache inspection and management",
	}
	cmd.AddCommand(newCacheStatsCmd(app))
	cmd.AddCommand(newCacheClearCmd(app))
	rootCmd.AddCommand(cmd)
}

func newCacheStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cache statistics",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			stats := app.Cache.Stats()

			if output.IsJSON() {
				output.JSON(stats)
				return
			}

			output.Bold("Cache")
			output.Printf("  Total entries:   %d\n", stats.Total)
			output.Printf("  Valid:           %d\n", stats.Valid)
			output.Printf("  Expired:         %d\n", stats.Expired)
			output.Printf("  TTL:             %s\n", FormatDuration(stats.TTL))
		},
	}
}

func newCacheClearCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear cached entries",
		Long:  "Clear the whole cache, or only entries matching --ticker and/or --kind.",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			ticker, _ := cmd.Flags().GetString("ticker")
			kind, _ := cmd.Flags().GetString("kind")

			app.Cache.Clear(ticker, models.DataKind(kind))

			if output.IsJSON() {
				output.JSON(map[string]interface{}{
					"cleared": true,
					"stats":   app.Cache.Stats(),
				})
				return
			}
			if ticker == "" && kind == "" {
				output.Success("✓ Cache cleared")
			} else {
				output.Success("✓ Cleared entries for ticker=%q kind=%q", ticker, kind)
			}
		},
	}
	cmd.Flags().String("ticker", "", "only clear entries for this ticker")
	cmd.Flags().String("kind", "", "only clear entries of this data kind")
	return cmd
}
