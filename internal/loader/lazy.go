// Package loader wraps the store with read-through caching.
package loader

import (
	"context"

	"github.com/rs/zerolog"

	"kabu-dashboard/internal/cache"
	"kabu-dashboard/internal/logging"
	"kabu-dashboard/internal/models"
	"kabu-dashboard/internal/store"
)

// Lazy is a read-through loader: cache hit returns the cached value, a
// miss delegates to the store and populates the cache with non-absent
// results. Absent results are never cached, so a ticker whose file shows
// up later is picked up on the next read.
type Lazy struct {
	store store.StockStore
	cache *cache.DataCache
	log   zerolog.Logger
}

// New creates a lazy loader over the given store and cache.
func New(s store.StockStore, c *cache.DataCache, log zerolog.Logger) *Lazy {
	return &Lazy{
		store: s,
		cache: c,
		log:   logging.WithComponent(log, "loader"),
	}
}

// Store exposes the underlying store for non-cached reads.
func (l *Lazy) Store() store.StockStore {
	return l.store
}

// Cache exposes the shared cache.
func (l *Lazy) Cache() *cache.DataCache {
	return l.cache
}

// readThrough drives one cache-or-store round trip. The load func runs
// only on a miss; its result is cached only when err is nil.
func readThrough[T any](l *Lazy, ticker string, kind models.DataKind, params map[string]string, load func() (T, error)) (T, error) {
	if v, ok := l.cache.Get(ticker, kind, params); ok {
		if typed, ok := v.(T); ok {
			logging.LogCacheEvent(l.log, "hit", ticker, string(kind))
			return typed, nil
		}
		// A different type under this key means the key derivation and
		// the stored value disagree; treat as a miss and overwrite.
		l.log.Warn().Str("ticker", ticker).Str("kind", string(kind)).Msg("Cache entry type mismatch")
	}
	logging.LogCacheEvent(l.log, "miss", ticker, string(kind))

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	l.cache.Set(ticker, kind, v, params)
	return v, nil
}

// StockData loads a ticker's price history through the cache.
func (l *Lazy) StockData(ctx context.Context, ticker string) ([]models.PriceBar, error) {
	return readThrough(l, ticker, models.KindStockData, nil, func() ([]models.PriceBar, error) {
		return l.store.LoadStockData(ctx, ticker)
	})
}

// CompanyInfo loads a ticker's company metadata through the cache.
func (l *Lazy) CompanyInfo(ctx context.Context, ticker string) (*models.CompanyInfo, error) {
	return readThrough(l, ticker, models.KindCompany, nil, func() (*models.CompanyInfo, error) {
		return l.store.LoadCompanyInfo(ctx, ticker)
	})
}

// TechnicalIndicators loads precomputed indicators through the cache.
func (l *Lazy) TechnicalIndicators(ctx context.Context, ticker string) ([]models.TechnicalRow, error) {
	return readThrough(l, ticker, models.KindTechnical, nil, func() ([]models.TechnicalRow, error) {
		return l.store.LoadTechnicalIndicators(ctx, ticker)
	})
}

// IncomeStatement loads annual income statement rows through the cache.
func (l *Lazy) IncomeStatement(ctx context.Context, ticker string) ([]models.IncomeStatementRow, error) {
	kind := models.FinancialKind(models.StatementIncome)
	return readThrough(l, ticker, kind, nil, func() ([]models.IncomeStatementRow, error) {
		return l.store.LoadIncomeStatement(ctx, ticker)
	})
}

// BalanceSheet loads annual balance sheet rows through the cache.
func (l *Lazy) BalanceSheet(ctx context.Context, ticker string) ([]models.BalanceSheetRow, error) {
	kind := models.FinancialKind(models.StatementBalance)
	return readThrough(l, ticker, kind, nil, func() ([]models.BalanceSheetRow, error) {
		return l.store.LoadBalanceSheet(ctx, ticker)
	})
}

// Cashflow loads annual cash flow rows through the cache.
func (l *Lazy) Cashflow(ctx context.Context, ticker string) ([]models.CashflowRow, error) {
	kind := models.FinancialKind(models.StatementCashflow)
	return readThrough(l, ticker, kind, nil, func() ([]models.CashflowRow, error) {
		return l.store.LoadCashflow(ctx, ticker)
	})
}

// FinancialRatios loads named ratio rows through the cache.
func (l *Lazy) FinancialRatios(ctx context.Context, ticker string) ([]models.FinancialRatio, error) {
	kind := models.FinancialKind(models.StatementRatios)
	return readThrough(l, ticker, kind, nil, func() ([]models.FinancialRatio, error) {
		return l.store.LoadFinancialRatios(ctx, ticker)
	})
}

// DividendData loads dividend payments through the cache.
func (l *Lazy) DividendData(ctx context.Context, ticker string) ([]models.Dividend, error) {
	return readThrough(l, ticker, models.KindDividend, nil, func() ([]models.Dividend, error) {
		return l.store.LoadDividendData(ctx, ticker)
	})
}

// NewsData loads news articles through the cache.
func (l *Lazy) NewsData(ctx context.Context, ticker string) ([]models.NewsItem, error) {
	return readThrough(l, ticker, models.KindNews, nil, func() ([]models.NewsItem, error) {
		return l.store.LoadNewsData(ctx, ticker)
	})
}
