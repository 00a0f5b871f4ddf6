// Package models provides domain models for the dashboard application.
package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DataKind identifies a per-ticker data artifact. Kinds are part of cache
// keys, so the literals must stay stable.
type DataKind string

const (
	KindStockData  DataKind = "stock_data"
	KindCompany    DataKind = "company_info"
	KindTechnical  DataKind = "technical_indicators"
	KindDividend   DataKind = "dividend_data"
	KindNews       DataKind = "news_data"
	KindSectorData DataKind = "sector_data"
)

// StatementKind identifies a financial statement variant.
type StatementKind string

const (
	StatementIncome   StatementKind = "income_statement"
	StatementBalance  StatementKind = "balance_sheet"
	StatementCashflow StatementKind = "cashflow"
	StatementRatios   StatementKind = "financial_ratios"
)

// FinancialKind returns the cache data kind for a statement variant.
func FinancialKind(s StatementKind) DataKind {
	return DataKind("financial_" + string(s))
}

// dateLayouts are the accepted date formats, most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// Date is a CSV-parseable calendar date.
type Date struct {
	time.Time
}

// NewDate creates a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalCSV implements gocsv decoding.
func (d *Date) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized date %q", s)
}

// MarshalCSV implements gocsv encoding.
func (d Date) MarshalCSV() (string, error) {
	return d.Format("2006-01-02"), nil
}

// MarshalJSON renders the date portion only.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return json.Marshal(d.Format("2006-01-02"))
}

// OptFloat is a float column that may be empty in the source file.
// Validation happens here, at the parsing boundary, so downstream code
// never has to re-check raw strings.
type OptFloat struct {
	Float64 float64
	Valid   bool
}

// Opt builds a valid OptFloat.
func Opt(v float64) OptFloat {
	return OptFloat{Float64: v, Valid: true}
}

// UnmarshalCSV implements gocsv decoding. Empty and NaN cells decode as
// not-present rather than failing the whole file.
func (f *OptFloat) UnmarshalCSV(s string) error {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		*f = OptFloat{}
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid number %q", s)
	}
	*f = OptFloat{Float64: v, Valid: true}
	return nil
}

// MarshalCSV implements gocsv encoding.
func (f OptFloat) MarshalCSV() (string, error) {
	if !f.Valid {
		return "", nil
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64), nil
}

// MarshalJSON renders null for missing values.
func (f OptFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte(`null`), nil
	}
	return json.Marshal(f.Float64)
}

// PriceBar is one row of a ticker's price history.
type PriceBar struct {
	Date   Date    `csv:"Date" json:"date"`
	Open   float64 `csv:"Open" json:"open"`
	High   float64 `csv:"High" json:"high"`
	Low    float64 `csv:"Low" json:"low"`
	Close  float64 `csv:"Close" json:"close"`
	Volume int64   `csv:"Volume" json:"volume"`
}

// CompanyInfo is a ticker's company metadata. One row per ticker.
type CompanyInfo struct {
	CompanyName      string  `csv:"company_name" json:"company_name"`
	Sector           string  `csv:"sector" json:"sector"`
	Industry         string  `csv:"industry" json:"industry"`
	SectorCategory   string  `csv:"sector_category" json:"sector_category"`
	MarketCap        float64 `csv:"market_cap" json:"market_cap"`
	MarketCapBillion float64 `csv:"market_cap_billion" json:"market_cap_billion"`
	CompanySize      string  `csv:"company_size" json:"company_size"`
	Employees        int64   `csv:"employees" json:"employees"`
}

// TechnicalRow is one row of precomputed technical indicators.
type TechnicalRow struct {
	Date          Date     `csv:"Date" json:"date"`
	Close         OptFloat `csv:"Close" json:"close"`
	SMA20         OptFloat `csv:"SMA_20" json:"sma_20"`
	SMA50         OptFloat `csv:"SMA_50" json:"sma_50"`
	SMA200        OptFloat `csv:"SMA_200" json:"sma_200"`
	RSI           OptFloat `csv:"RSI" json:"rsi"`
	MACD          OptFloat `csv:"MACD" json:"macd"`
	MACDSignal    OptFloat `csv:"MACD_Signal" json:"macd_signal"`
	MACDHistogram OptFloat `csv:"MACD_Histogram" json:"macd_histogram"`
}

// IncomeStatementRow is one fiscal year of income statement figures.
type IncomeStatementRow struct {
	FiscalYear      string   `csv:"fiscal_year" json:"fiscal_year"`
	TotalRevenue    OptFloat `csv:"Total Revenue" json:"total_revenue"`
	GrossProfit     OptFloat `csv:"Gross Profit" json:"gross_profit"`
	OperatingIncome OptFloat `csv:"Operating Income" json:"operating_income"`
	NetIncome       OptFloat `csv:"Net Income" json:"net_income"`
}

// BalanceSheetRow is one fiscal year of balance sheet figures.
type BalanceSheetRow struct {
	FiscalYear         string   `csv:"fiscal_year" json:"fiscal_year"`
	TotalAssets        OptFloat `csv:"Total Assets" json:"total_assets"`
	TotalLiabilities   OptFloat `csv:"Total Liabilities" json:"total_liabilities"`
	StockholdersEquity OptFloat `csv:"Stockholders Equity" json:"stockholders_equity"`
	CashAndEquivalents OptFloat `csv:"Cash And Cash Equivalents" json:"cash_and_equivalents"`
	TotalDebt          OptFloat `csv:"Total Debt" json:"total_debt"`
}

// CashflowRow is one fiscal year of cash flow figures.
type CashflowRow struct {
	FiscalYear        string   `csv:"fiscal_year" json:"fiscal_year"`
	OperatingCashFlow OptFloat `csv:"Operating Cash Flow" json:"operating_cash_flow"`
	InvestingCashFlow OptFloat `csv:"Investing Cash Flow" json:"investing_cash_flow"`
	FinancingCashFlow OptFloat `csv:"Financing Cash Flow" json:"financing_cash_flow"`
	FreeCashFlow      OptFloat `csv:"Free Cash Flow" json:"free_cash_flow"`
}

// FinancialRatio is one named ratio row.
type FinancialRatio struct {
	Ratio string   `csv:"ratio" json:"ratio"`
	Value OptFloat `csv:"value" json:"value"`
}

// Dividend is one dividend payment.
type Dividend struct {
	Date   Date    `csv:"date" json:"date"`
	Amount float64 `csv:"dividend" json:"amount"`
}

// News sentiment labels as they appear in the news files.
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// NewsItem is one news article with its sentiment annotation.
type NewsItem struct {
	Date           Date     `csv:"date" json:"date"`
	Title          string   `csv:"title" json:"title"`
	Summary        string   `csv:"summary" json:"summary"`
	Provider       string   `csv:"provider" json:"provider"`
	Sentiment      string   `csv:"sentiment" json:"sentiment"`
	SentimentScore OptFloat `csv:"sentiment_score" json:"sentiment_score"`
	Confidence     OptFloat `csv:"confidence" json:"confidence"`
}

// SectorRow is one ticker's row in the cross-sectional sector table,
// built by joining company info with the latest two price observations.
type SectorRow struct {
	Ticker           string  `json:"ticker"`
	CompanyName      string  `json:"company_name"`
	Sector           string  `json:"sector"`
	Industry         string  `json:"industry"`
	SectorCategory   string  `json:"sector_category"`
	MarketCap        float64 `json:"market_cap"`
	MarketCapBillion float64 `json:"market_cap_billion"`
	CompanySize      string  `json:"company_size"`
	CurrentPrice     float64 `json:"current_price"`
	PriceChange      float64 `json:"price_change"`
	Employees        int64   `json:"employees"`
}

// DataCompleteness reports which artifacts exist for a ticker.
type DataCompleteness struct {
	StockData     bool `json:"stock_data"`
	CompanyInfo   bool `json:"company_info"`
	TechnicalData bool `json:"technical_data"`
	FinancialData bool `json:"financial_data"`
}

// Sufficient reports whether the ticker has the minimum data the
// dashboard needs: price history plus company info.
func (c DataCompleteness) Sufficient() bool {
	return c.StockData && c.CompanyInfo
}

// SearchResult pairs a ticker code with its display name.
type SearchResult struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}
