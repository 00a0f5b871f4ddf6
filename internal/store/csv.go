package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"kabu-dashboard/internal/errors"
	"kabu-dashboard/internal/logging"
	"kabu-dashboard/internal/models"
)

// Relative paths of each artifact under a ticker's directory.
const (
	stockDataPath       = "stock_data/stock_data.csv"
	companyInfoPath     = "company_info/company_info.csv"
	technicalPath       = "technical_data/technical_indicators.csv"
	incomeStatementPath = "financial_data/income_statement.csv"
	balanceSheetPath    = "financial_data/balance_sheet.csv"
	cashflowPath        = "financial_data/cashflow.csv"
	ratiosPath          = "financial_data/financial_ratios.csv"
	dividendPath        = "dividend_data/dividends.csv"
	newsPath            = "news_data/news.csv"
)

// insufficientMark is appended to display names of tickers that lack the
// minimum data set.
const insufficientMark = "⚠️"

// CSVStore reads ticker data from a directory tree with one all-digit
// subdirectory per ticker.
type CSVStore struct {
	dir string
	log zerolog.Logger

	tickersOnce sync.Once
	tickers     []string
}

// NewCSVStore creates a store rooted at dir.
func NewCSVStore(dir string, log zerolog.Logger) *CSVStore {
	return &CSVStore{
		dir: dir,
		log: logging.WithComponent(log, "store"),
	}
}

// DataDir returns the root of the data tree.
func (s *CSVStore) DataDir() string {
	return s.dir
}

// AvailableTickers enumerates all-digit directory names under the data
// root, sorted. The listing is computed once per store lifetime.
func (s *CSVStore) AvailableTickers() []string {
	s.tickersOnce.Do(func() {
		entries, err := os.ReadDir(s.dir)
		if err != nil {
			s.log.Error().Err(err).Str("dir", s.dir).Msg("Failed to read data directory")
			return
		}
		for _, e := range entries {
			if e.IsDir() && isAllDigits(e.Name()) {
				s.tickers = append(s.tickers, e.Name())
			}
		}
		sort.Strings(s.tickers)
	})
	return s.tickers
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// loadRows parses the artifact at relPath into typed rows. Missing files
// and malformed content both read as absent; malformed content is logged.
func loadRows[T any](ctx context.Context, s *CSVStore, ticker string, kind models.DataKind, relPath string) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	path := filepath.Join(s.dir, ticker, filepath.FromSlash(relPath))
	logger := logging.WithDataKind(logging.WithTicker(s.log, ticker), string(kind))

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ErrDataNotFound
		}
		logger.Error().Err(err).Msg("Failed to open data file")
		return nil, errors.NewDataError(string(kind), ticker, err.Error(), errors.ErrDataNotFound)
	}
	defer f.Close()

	var rows []T
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		logger.Error().Err(err).Str("file", path).Msg("Failed to parse data file")
		// Malformed files read as absent, but keep the parse site in the
		// chain for callers that inspect it.
		return nil, errors.NewDataError(string(kind), ticker, "malformed file",
			errors.NewParseError(path, errors.ErrDataNotFound))
	}

	logging.LogLoad(s.log, ticker, string(kind), len(rows), time.Since(start))

	return rows, nil
}

// LoadStockData reads a ticker's price history, sorted by date ascending.
func (s *CSVStore) LoadStockData(ctx context.Context, ticker string) ([]models.PriceBar, error) {
	bars, err := loadRows[models.PriceBar](ctx, s, ticker, models.KindStockData, stockDataPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(bars, func(i, j int) bool {
		return bars[i].Date.Before(bars[j].Date.Time)
	})
	return bars, nil
}

// LoadCompanyInfo reads a ticker's company metadata (first row).
func (s *CSVStore) LoadCompanyInfo(ctx context.Context, ticker string) (*models.CompanyInfo, error) {
	rows, err := loadRows[models.CompanyInfo](ctx, s, ticker, models.KindCompany, companyInfoPath)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.ErrDataNotFound
	}
	return &rows[0], nil
}

// LoadTechnicalIndicators reads precomputed indicators, sorted by date.
func (s *CSVStore) LoadTechnicalIndicators(ctx context.Context, ticker string) ([]models.TechnicalRow, error) {
	rows, err := loadRows[models.TechnicalRow](ctx, s, ticker, models.KindTechnical, technicalPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date.Time)
	})
	return rows, nil
}

// LoadIncomeStatement reads annual income statement rows.
func (s *CSVStore) LoadIncomeStatement(ctx context.Context, ticker string) ([]models.IncomeStatementRow, error) {
	return loadRows[models.IncomeStatementRow](ctx, s, ticker, models.FinancialKind(models.StatementIncome), incomeStatementPath)
}

// LoadBalanceSheet reads annual balance sheet rows.
func (s *CSVStore) LoadBalanceSheet(ctx context.Context, ticker string) ([]models.BalanceSheetRow, error) {
	return loadRows[models.BalanceSheetRow](ctx, s, ticker, models.FinancialKind(models.StatementBalance), balanceSheetPath)
}

// LoadCashflow reads annual cash flow rows.
func (s *CSVStore) LoadCashflow(ctx context.Context, ticker string) ([]models.CashflowRow, error) {
	return loadRows[models.CashflowRow](ctx, s, ticker, models.FinancialKind(models.StatementCashflow), cashflowPath)
}

// LoadFinancialRatios reads named ratio rows.
func (s *CSVStore) LoadFinancialRatios(ctx context.Context, ticker string) ([]models.FinancialRatio, error) {
	return loadRows[models.FinancialRatio](ctx, s, ticker, models.FinancialKind(models.StatementRatios), ratiosPath)
}

// LoadDividendData reads dividend payments, sorted by date.
func (s *CSVStore) LoadDividendData(ctx context.Context, ticker string) ([]models.Dividend, error) {
	rows, err := loadRows[models.Dividend](ctx, s, ticker, models.KindDividend, dividendPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date.Time)
	})
	return rows, nil
}

// LoadNewsData reads news articles, sorted by date.
func (s *CSVStore) LoadNewsData(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	rows, err := loadRows[models.NewsItem](ctx, s, ticker, models.KindNews, newsPath)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date.Time)
	})
	return rows, nil
}

// TickerName returns the company name for a ticker, falling back to a
// generic label when company info is unavailable.
func (s *CSVStore) TickerName(ctx context.Context, ticker string) string {
	info, err := s.LoadCompanyInfo(ctx, ticker)
	if err != nil || info.CompanyName == "" {
		return fmt.Sprintf("銘柄%s", ticker)
	}
	return info.CompanyName
}

// DisplayName returns the company name, marked when the ticker lacks the
// minimum data set.
func (s *CSVStore) DisplayName(ctx context.Context, ticker string) string {
	name := s.TickerName(ctx, ticker)
	if s.IsDataSufficient(ctx, ticker) {
		return name
	}
	return name + " " + insufficientMark
}

// CheckCompleteness reports which artifacts exist and are non-empty for a
// ticker. Price history additionally needs two observations so that a
// change percentage can be computed.
func (s *CSVStore) CheckCompleteness(ctx context.Context, ticker string) models.DataCompleteness {
	var c models.DataCompleteness

	if bars, err := s.LoadStockData(ctx, ticker); err == nil && len(bars) >= 2 {
		c.StockData = true
	}
	if _, err := s.LoadCompanyInfo(ctx, ticker); err == nil {
		c.CompanyInfo = true
	}
	if rows, err := s.LoadTechnicalIndicators(ctx, ticker); err == nil && len(rows) > 0 {
		c.TechnicalData = true
	}
	if rows, err := s.LoadFinancialRatios(ctx, ticker); err == nil && len(rows) > 0 {
		c.FinancialData = true
	}

	return c
}

// IsDataSufficient reports whether a ticker has at least price history
// and company info.
func (s *CSVStore) IsDataSufficient(ctx context.Context, ticker string) bool {
	return s.CheckCompleteness(ctx, ticker).Sufficient()
}

// SearchTickers matches a query against ticker codes and company names,
// case-insensitively. Tickers whose company info cannot be read are
// skipped.
func (s *CSVStore) SearchTickers(ctx context.Context, query string) []models.SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var results []models.SearchResult
	for _, ticker := range s.AvailableTickers() {
		info, err := s.LoadCompanyInfo(ctx, ticker)
		if err != nil {
			continue
		}
		if strings.Contains(strings.ToLower(ticker), query) ||
			strings.Contains(strings.ToLower(info.CompanyName), query) {
			results = append(results, models.SearchResult{
				Ticker: ticker,
				Name:   s.DisplayName(ctx, ticker),
			})
		}
	}
	return results
}

var _ StockStore = (*CSVStore)(nil)
