package charts

import (
	"kabu-dashboard/internal/models"
)

// MetricSeries is one financial metric across fiscal years.
type MetricSeries struct {
	Metric string            `json:"metric"`
	Years  []string          `json:"years"`
	Values []models.OptFloat `json:"values"`
}

// RatioBar is one named ratio with a present value.
type RatioBar struct {
	Ratio string  `json:"ratio"`
	Value float64 `json:"value"`
}

// The ratios worth plotting, in display order.
var keyRatios = []string{
	"pe_ratio", "price_to_book", "gross_margin", "operating_margin",
	"profit_margin", "return_on_assets", "return_on_equity",
	"current_ratio", "debt_to_equity",
}

// buildSeries folds rows into per-metric series, dropping metrics with
// no present value in any year.
func buildSeries(years []string, metrics []string, value func(row, metric int) models.OptFloat) []MetricSeries {
	var out []MetricSeries
	for m, name := range metrics {
		s := MetricSeries{Metric: name, Years: years, Values: make([]models.OptFloat, len(years))}
		any := false
		for r := range years {
			v := value(r, m)
			s.Values[r] = v
			if v.Valid {
				any = true
			}
		}
		if any {
			out = append(out, s)
		}
	}
	return out
}

// IncomeStatementSeries builds the income statement chart payload.
func IncomeStatementSeries(rows []models.IncomeStatementRow) []MetricSeries {
	years := make([]string, len(rows))
	for i, r := range rows {
		years[i] = r.FiscalYear
	}
	metrics := []string{"Total Revenue", "Gross Profit", "Operating Income", "Net Income"}
	return buildSeries(years, metrics, func(r, m int) models.OptFloat {
		row := rows[r]
		switch m {
		case 0:
			return row.TotalRevenue
		case 1:
			return row.GrossProfit
		case 2:
			return row.OperatingIncome
		default:
			return row.NetIncome
		}
	})
}

// BalanceSheetSeries builds the balance sheet chart payload.
func BalanceSheetSeries(rows []models.BalanceSheetRow) []MetricSeries {
	years := make([]string, len(rows))
	for i, r := range rows {
		years[i] = r.FiscalYear
	}
	metrics := []string{"Total Assets", "Total Liabilities", "Stockholders Equity", "Cash And Cash Equivalents", "Total Debt"}
	return buildSeries(years, metrics, func(r, m int) models.OptFloat {
		row := rows[r]
		switch m {
		case 0:
			return row.TotalAssets
		case 1:
			return row.TotalLiabilities
		case 2:
			return row.StockholdersEquity
		case 3:
			return row.CashAndEquivalents
		default:
			return row.TotalDebt
		}
	})
}

// CashflowSeries builds the cash flow chart payload.
func CashflowSeries(rows []models.CashflowRow) []MetricSeries {
	years := make([]string, len(rows))
	for i, r := range rows {
		years[i] = r.FiscalYear
	}
	metrics := []string{"Operating Cash Flow", "Investing Cash Flow", "Financing Cash Flow", "Free Cash Flow"}
	return buildSeries(years, metrics, func(r, m int) models.OptFloat {
		row := rows[r]
		switch m {
		case 0:
			return row.OperatingCashFlow
		case 1:
			return row.InvestingCashFlow
		case 2:
			return row.FinancingCashFlow
		default:
			return row.FreeCashFlow
		}
	})
}

// RatiosPayload filters the ratio rows down to the key ratios with
// usable values, in display order.
func RatiosPayload(ratios []models.FinancialRatio) []RatioBar {
	byName := make(map[string]models.OptFloat, len(ratios))
	for _, r := range ratios {
		byName[r.Ratio] = r.Value
	}

	var out []RatioBar
	for _, name := range keyRatios {
		v, ok := byName[name]
		if !ok || !v.Valid || v.Float64 == 0 {
			continue
		}
		out = append(out, RatioBar{Ratio: name, Value: v.Float64})
	}
	return out
}
