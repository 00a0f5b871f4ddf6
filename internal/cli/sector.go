// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// addSectorCommands adds the sector analysis commands.
func addSectorCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSectorCmd(app))
}

func newSectorCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sector",
		Short: "Cross-sectional sector analysis",
		Long:  "Build and display the sector table joining company profiles with latest prices.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			force, _ := cmd.Flags().GetBool("force")

			rows, err := app.Sector.Load(cmd.Context(), force)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(rows)
			}

			if len(rows) == 0 {
				output.Warning("No sector data available")
				return nil
			}

			table := NewTable(output, "Ticker", "Name", "Sector", "Price", "Change", "Mkt Cap")
			for _, r := range rows {
				table.AddRow(
					r.Ticker,
					TruncateString(r.CompanyName, 20),
					TruncateString(r.Sector, 14),
					FormatPrice(r.CurrentPrice),
					output.FormatChangeColored(r.PriceChange),
					FormatMarketCap(r.MarketCapBillion),
				)
			}
			table.Render()
			output.Dim("%d companies, built %s", len(rows), app.Sector.BuiltAt().Format("15:04:05"))
			return nil
		},
	}
	cmd.Flags().Bool("force", false, "rebuild the table even if still fresh")

	cmd.AddCommand(newSectorPerformanceCmd(app))
	cmd.AddCommand(newSectorIndustriesCmd(app))
	cmd.AddCommand(newSectorSummaryCmd(app))
	return cmd
}

func newSectorPerformanceCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "performance",
		Short: "Average price change per sector",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			perf, err := app.Sector.SectorPerformance(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(perf)
			}

			table := NewTable(output, "Sector", "Companies", "Avg Change", "Mkt Cap")
			for _, p := range perf {
				table.AddRow(
					p.Sector,
					fmt.Sprintf("%d", p.CompanyCount),
					output.FormatChangeColored(p.AvgPriceChange),
					FormatMarketCap(p.TotalMarketCapBillion),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSectorIndustriesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "industries",
		Short: "Company count per industry",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			industries, err := app.Sector.IndustryBreakdown(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(industries)
			}

			table := NewTable(output, "Industry", "Companies", "Avg Change", "Mkt Cap")
			for _, ind := range industries {
				table.AddRow(
					ind.Industry,
					fmt.Sprintf("%d", ind.CompanyCount),
					output.FormatChangeColored(ind.AvgPriceChange),
					FormatMarketCap(ind.TotalMarketCapBillion),
				)
			}
			table.Render()
			return nil
		},
	}
}

func newSectorSummaryCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Market-wide totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			summary, err := app.Sector.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(summary)
			}

			output.Bold("Market Summary")
			output.Printf("  Companies:       %d\n", summary.Companies)
			output.Printf("  Sectors:         %d\n", summary.Sectors)
			output.Printf("  Avg Change:      %s\n", output.FormatChangeColored(summary.AvgPriceChange))
			output.Printf("  Total Mkt Cap:   %s\n", FormatMarketCap(summary.TotalMarketCapBillion))
			output.Printf("  Total Employees: %s\n", FormatEmployees(summary.TotalEmployees))
			return nil
		},
	}
}
