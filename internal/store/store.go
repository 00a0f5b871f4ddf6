// Package store provides read-only access to the per-ticker CSV data tree.
package store

import (
	"context"

	"kabu-dashboard/internal/models"
)

// StockStore defines the interface for reading per-ticker data artifacts.
// All loaders return errors.ErrDataNotFound (possibly wrapped) when the
// artifact is missing or unreadable; they never fail fatally.
type StockStore interface {
	// Tickers
	AvailableTickers() []string
	SearchTickers(ctx context.Context, query string) []models.SearchResult
	TickerName(ctx context.Context, ticker string) string
	DisplayName(ctx context.Context, ticker string) string

	// Per-ticker artifacts
	LoadStockData(ctx context.Context, ticker string) ([]models.PriceBar, error)
	LoadCompanyInfo(ctx context.Context, ticker string) (*models.CompanyInfo, error)
	LoadTechnicalIndicators(ctx context.Context, ticker string) ([]models.TechnicalRow, error)
	LoadIncomeStatement(ctx context.Context, ticker string) ([]models.IncomeStatementRow, error)
	LoadBalanceSheet(ctx context.Context, ticker string) ([]models.BalanceSheetRow, error)
	LoadCashflow(ctx context.Context, ticker string) ([]models.CashflowRow, error)
	LoadFinancialRatios(ctx context.Context, ticker string) ([]models.FinancialRatio, error)
	LoadDividendData(ctx context.Context, ticker string) ([]models.Dividend, error)
	LoadNewsData(ctx context.Context, ticker string) ([]models.NewsItem, error)

	// Data quality
	CheckCompleteness(ctx context.Context, ticker string) models.DataCompleteness
	IsDataSufficient(ctx context.Context, ticker string) bool

	// DataDir returns the root of the data tree.
	DataDir() string
}
