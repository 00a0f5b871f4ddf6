// Package cli provides the command-line interface for the dashboard.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kabu-dashboard/internal/charts"
	"kabu-dashboard/internal/models"
)

// addDataCommands adds per-ticker data commands.
func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newTickersCmd(app))
	rootCmd.AddCommand(newSearchCmd(app))
	rootCmd.AddCommand(newShowCmd(app))
	rootCmd.AddCommand(newPricesCmd(app))
	rootCmd.AddCommand(newFinancialsCmd(app))
	rootCmd.AddCommand(newDividendsCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
}

func newTickersCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tickers",
		Short: "List available tickers",
		Long:  "List all tickers found in the data directory, marking those with incomplete data.",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()

			tickers := app.Store.AvailableTickers()
			if output.IsJSON() {
				type row struct {
					Ticker string `json:"ticker"`
					Name   string `json:"name"`
				}
				rows := make([]row, 0, len(tickers))
				for _, t := range tickers {
					rows = append(rows, row{Ticker: t, Name: app.Store.DisplayName(ctx, t)})
				}
				return output.JSON(rows)
			}

			if len(tickers) == 0 {
				output.Warning("No tickers found in %s", app.Store.DataDir())
				return nil
			}

			table := NewTable(output, "Ticker", "Name")
			for _, t := range tickers {
				table.AddRow(t, app.Store.DisplayName(ctx, t))
			}
			table.Render()
			output.Dim("%d tickers", len(tickers))
			return nil
		},
	}
}

func newSearchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search tickers by code or company name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			results := app.Store.SearchTickers(cmd.Context(), args[0])
			if output.IsJSON() {
				return output.JSON(results)
			}

			if len(results) == 0 {
				output.Warning("No tickers match %q", args[0])
				return nil
			}

			table := NewTable(output, "Ticker", "Name")
			for _, r := range results {
				table.AddRow(r.Ticker, r.Name)
			}
			table.Render()
			return nil
		},
	}
}

func newShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <ticker>",
		Short: "Show a ticker's company profile and data coverage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			ticker := args[0]

			completeness := app.Store.CheckCompleteness(ctx, ticker)
			info, infoErr := app.Loader.CompanyInfo(ctx, ticker)
			bars, barsErr := app.Loader.StockData(ctx, ticker)

			if output.IsJSON() {
				resp := map[string]interface{}{
					"ticker":       ticker,
					"name":         app.Store.TickerName(ctx, ticker),
					"completeness": completeness,
				}
				if infoErr == nil {
					resp["company"] = info
				}
				if barsErr == nil && len(bars) > 0 {
					resp["latest_close"] = bars[len(bars)-1].Close
				}
				return output.JSON(resp)
			}

			output.Bold("%s %s", ticker, app.Store.DisplayName(ctx, ticker))
			output.Println()

			if barsErr == nil && len(bars) > 0 {
				last := bars[len(bars)-1]
				change := 0.0
				if len(bars) >= 2 && bars[len(bars)-2].Close != 0 {
					change = (last.Close - bars[len(bars)-2].Close) / bars[len(bars)-2].Close * 100
				}
				output.Printf("  Last close:  %s (%s) on %s\n",
					FormatPrice(last.Close), output.FormatChangeColored(change), last.Date.Format("2006-01-02"))
				output.Println()
			}

			if infoErr == nil {
				output.Printf("  Sector:      %s\n", info.Sector)
				output.Printf("  Industry:    %s\n", info.Industry)
				output.Printf("  Market Cap:  %s\n", FormatMarketCap(info.MarketCapBillion))
				output.Printf("  Employees:   %s\n", FormatEmployees(info.Employees))
				output.Println()
			} else {
				output.Warning("Company info unavailable")
			}

			output.Bold("Data coverage")
			coverage := func(ok bool) string {
				if ok {
					return output.Green("✓")
				}
				return output.Red("✗")
			}
			output.Printf("  %s Price history\n", coverage(completeness.StockData))
			output.Printf("  %s Company info\n", coverage(completeness.CompanyInfo))
			output.Printf("  %s Technical indicators\n", coverage(completeness.TechnicalData))
			output.Printf("  %s Financial data\n", coverage(completeness.FinancialData))
			return nil
		},
	}
}

func newPricesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prices <ticker>",
		Short: "Show recent price history for a ticker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := args[0]
			limit, _ := cmd.Flags().GetInt("limit")

			bars, err := app.Loader.StockData(cmd.Context(), ticker)
			if err != nil {
				output.Error("No price data for %s", ticker)
				return err
			}
			if limit > 0 && len(bars) > limit {
				bars = bars[len(bars)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(bars)
			}

			table := NewTable(output, "Date", "Open", "High", "Low", "Close", "Volume")
			for _, b := range bars {
				table.AddRow(
					b.Date.Format("2006-01-02"),
					FormatPrice(b.Open),
					FormatPrice(b.High),
					FormatPrice(b.Low),
					FormatPrice(b.Close),
					FormatVolume(b.Volume),
				)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().Int("limit", 20, "number of most recent bars to show (0 for all)")
	return cmd
}

func newFinancialsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "financials <ticker>",
		Short: "Show annual financial statements or key ratios",
		Long:  "Show a ticker's annual income statement, balance sheet, cash flow, or key ratios (--kind).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx := cmd.Context()
			ticker := args[0]
			kindFlag, _ := cmd.Flags().GetString("kind")
			kind := models.StatementKind(kindFlag)

			if kind == models.StatementRatios {
				ratios, err := app.Loader.FinancialRatios(ctx, ticker)
				if err != nil {
					output.Error("No financial ratios for %s", ticker)
					return err
				}
				bars := charts.RatiosPayload(ratios)
				if output.IsJSON() {
					return output.JSON(bars)
				}
				if len(bars) == 0 {
					output.Warning("No usable ratios recorded")
					return nil
				}
				table := NewTable(output, "Ratio", "Value")
				for _, b := range bars {
					table.AddRow(b.Ratio, fmt.Sprintf("%.2f", b.Value))
				}
				table.Render()
				return nil
			}

			var series []charts.MetricSeries
			switch kind {
			case models.StatementIncome:
				rows, err := app.Loader.IncomeStatement(ctx, ticker)
				if err != nil {
					output.Error("No income statement for %s", ticker)
					return err
				}
				series = charts.IncomeStatementSeries(rows)
			case models.StatementBalance:
				rows, err := app.Loader.BalanceSheet(ctx, ticker)
				if err != nil {
					output.Error("No balance sheet for %s", ticker)
					return err
				}
				series = charts.BalanceSheetSeries(rows)
			case models.StatementCashflow:
				rows, err := app.Loader.Cashflow(ctx, ticker)
				if err != nil {
					output.Error("No cash flow data for %s", ticker)
					return err
				}
				series = charts.CashflowSeries(rows)
			default:
				return fmt.Errorf("unknown statement kind %q", kindFlag)
			}

			if output.IsJSON() {
				return output.JSON(series)
			}
			if len(series) == 0 {
				output.Warning("No financial figures recorded")
				return nil
			}

			header := append([]string{"Metric"}, series[0].Years...)
			table := NewTable(output, header...)
			for _, s := range series {
				row := make([]string, 0, len(s.Values)+1)
				row = append(row, s.Metric)
				for _, v := range s.Values {
					if v.Valid {
						row = append(row, FormatYenCompact(v.Float64))
					} else {
						row = append(row, "-")
					}
				}
				table.AddRow(row...)
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().String("kind", string(models.StatementIncome),
		"statement kind: income_statement, balance_sheet, cashflow, or financial_ratios")
	return cmd
}

func newDividendsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dividends <ticker>",
		Short: "Show dividend history and yearly analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := args[0]

			divs, err := app.Loader.DividendData(cmd.Context(), ticker)
			if err != nil {
				output.Error("No dividend data for %s", ticker)
				return err
			}

			analysis := charts.AnalyzeDividends(ticker, divs)
			if output.IsJSON() {
				return output.JSON(analysis)
			}

			if analysis.Count == 0 {
				output.Warning("No dividend payments recorded")
				return nil
			}

			table := NewTable(output, "Year", "Total", "Payments", "Growth")
			for _, y := range analysis.Years {
				growth := "-"
				if y.Growth.Valid {
					growth = output.FormatChangeColored(y.Growth.Float64)
				}
				table.AddRow(fmt.Sprintf("%d", y.Year), FormatYen(y.Total), fmt.Sprintf("%d", y.Count), growth)
			}
			table.Render()
			output.Println()
			output.Printf("Latest: %s on %s\n", FormatYen(analysis.LatestAmount), analysis.LatestDate.Format("2006-01-02"))
			output.Printf("Consecutive paying years: %d\n", analysis.ConsecutiveYears)
			return nil
		},
	}
}

func newNewsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news <ticker>",
		Short: "Show recent news with sentiment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ticker := args[0]
			limit, _ := cmd.Flags().GetInt("limit")

			items, err := app.Loader.NewsData(cmd.Context(), ticker)
			if err != nil {
				output.Error("No news data for %s", ticker)
				return err
			}
			if limit > 0 && len(items) > limit {
				items = items[len(items)-limit:]
			}

			if output.IsJSON() {
				return output.JSON(items)
			}

			for _, n := range items {
				label := n.Sentiment
				switch label {
				case "positive":
					label = output.Green(label)
				case "negative":
					label = output.Red(label)
				default:
					label = output.DimText("neutral")
				}
				output.Printf("%s  [%s]  %s\n", n.Date.Format("2006-01-02"), label, TruncateString(n.Title, 60))
				if n.Provider != "" {
					output.Dim("         %s", n.Provider)
				}
			}
			return nil
		},
	}
	cmd.Flags().Int("limit", 10, "number of most recent articles to show (0 for all)")
	return cmd
}
