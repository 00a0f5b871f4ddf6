// Package sector builds the cross-sectional summary table by scanning
// every ticker's company info and price history.
package sector

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"kabu-dashboard/internal/cache"
	"kabu-dashboard/internal/logging"
	"kabu-dashboard/internal/models"
	"kabu-dashboard/internal/store"
)

// Performance is one sector's aggregate line.
type Performance struct {
	Sector                string  `json:"sector"`
	CompanyCount          int     `json:"company_count"`
	AvgPriceChange        float64 `json:"avg_price_change"`
	TotalMarketCapBillion float64 `json:"total_market_cap_billion"`
}

// IndustryStat is one industry's aggregate line.
type IndustryStat struct {
	Industry              string  `json:"industry"`
	CompanyCount          int     `json:"company_count"`
	AvgPriceChange        float64 `json:"avg_price_change"`
	TotalMarketCapBillion float64 `json:"total_market_cap_billion"`
}

// Summary totals the whole table.
type Summary struct {
	Companies             int     `json:"companies"`
	Sectors               int     `json:"sectors"`
	AvgPriceChange        float64 `json:"avg_price_change"`
	TotalMarketCapBillion float64 `json:"total_market_cap_billion"`
	TotalEmployees        int64   `json:"total_employees"`
}

// Aggregator maintains the sector table with its own, longer-lived cache.
// Price fields read through the shared data cache so that bars already
// warmed by per-ticker views are not re-read from disk.
type Aggregator struct {
	store store.StockStore
	cache *cache.DataCache
	log   zerolog.Logger
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	rows    []models.SectorRow
	builtAt time.Time
}

// New creates an aggregator with the given table TTL.
func New(s store.StockStore, c *cache.DataCache, ttl time.Duration, log zerolog.Logger) *Aggregator {
	return &Aggregator{
		store: s,
		cache: c,
		log:   logging.WithComponent(log, "sector"),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load returns the sector table. Within the TTL and without forceReload
// the previously built table is returned unchanged; otherwise the table
// is rebuilt wholesale by iterating every known ticker in enumeration
// order. A bad ticker is logged and skipped, never fatal.
func (a *Aggregator) Load(ctx context.Context, forceReload bool) ([]models.SectorRow, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !forceReload && a.rows != nil && a.now().Sub(a.builtAt) < a.ttl {
		return a.rows, nil
	}

	start := a.now()
	tickers := a.store.AvailableTickers()
	rows := make([]models.SectorRow, 0, len(tickers))

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		info, err := a.store.LoadCompanyInfo(ctx, ticker)
		if err != nil {
			tickerLog := logging.WithTicker(a.log, ticker)
			tickerLog.Error().Err(err).Msg("Skipping ticker in sector scan")
			continue
		}

		price, change := a.latestPrice(ctx, ticker)

		rows = append(rows, models.SectorRow{
			Ticker:           ticker,
			CompanyName:      info.CompanyName,
			Sector:           info.Sector,
			Industry:         info.Industry,
			SectorCategory:   info.SectorCategory,
			MarketCap:        info.MarketCap,
			MarketCapBillion: info.MarketCapBillion,
			CompanySize:      info.CompanySize,
			CurrentPrice:     price,
			PriceChange:      change,
			Employees:        info.Employees,
		})
	}

	a.rows = rows
	a.builtAt = a.now()

	a.log.Info().
		Int("tickers", len(tickers)).
		Int("rows", len(rows)).
		Dur("duration", time.Since(start)).
		Msg("Sector table rebuilt")

	return a.rows, nil
}

// latestPrice returns the last close and the percentage change against
// the prior close, reading bars through the shared cache.
func (a *Aggregator) latestPrice(ctx context.Context, ticker string) (price, change float64) {
	var bars []models.PriceBar

	if v, ok := a.cache.Get(ticker, models.KindStockData, nil); ok {
		bars, _ = v.([]models.PriceBar)
	}
	if bars == nil {
		loaded, err := a.store.LoadStockData(ctx, ticker)
		if err != nil {
			a.log.Debug().Err(err).Str("ticker", ticker).Msg("No price data for sector row")
			return 0, 0
		}
		bars = loaded
		a.cache.Set(ticker, models.KindStockData, bars, nil)
	}

	if len(bars) == 0 {
		return 0, 0
	}
	price = bars[len(bars)-1].Close
	if len(bars) >= 2 {
		prior := bars[len(bars)-2].Close
		if prior != 0 {
			change = (price - prior) / prior * 100
		}
	}
	return price, change
}

// SectorPerformance groups the table by sector, sorted by average price
// change descending.
func (a *Aggregator) SectorPerformance(ctx context.Context) ([]Performance, error) {
	rows, err := a.Load(ctx, false)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count  int
		change float64
		mcap   float64
	}
	byName := map[string]*acc{}
	var order []string
	for _, r := range rows {
		g, ok := byName[r.Sector]
		if !ok {
			g = &acc{}
			byName[r.Sector] = g
			order = append(order, r.Sector)
		}
		g.count++
		g.change += r.PriceChange
		g.mcap += r.MarketCapBillion
	}

	out := make([]Performance, 0, len(order))
	for _, name := range order {
		g := byName[name]
		out = append(out, Performance{
			Sector:                name,
			CompanyCount:          g.count,
			AvgPriceChange:        g.change / float64(g.count),
			TotalMarketCapBillion: g.mcap,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgPriceChange > out[j].AvgPriceChange
	})
	return out, nil
}

// IndustryBreakdown groups the table by industry, sorted by company
// count descending.
func (a *Aggregator) IndustryBreakdown(ctx context.Context) ([]IndustryStat, error) {
	rows, err := a.Load(ctx, false)
	if err != nil {
		return nil, err
	}

	type acc struct {
		count  int
		change float64
		mcap   float64
	}
	byName := map[string]*acc{}
	var order []string
	for _, r := range rows {
		g, ok := byName[r.Industry]
		if !ok {
			g = &acc{}
			byName[r.Industry] = g
			order = append(order, r.Industry)
		}
		g.count++
		g.change += r.PriceChange
		g.mcap += r.MarketCapBillion
	}

	out := make([]IndustryStat, 0, len(order))
	for _, name := range order {
		g := byName[name]
		out = append(out, IndustryStat{
			Industry:              name,
			CompanyCount:          g.count,
			AvgPriceChange:        g.change / float64(g.count),
			TotalMarketCapBillion: g.mcap,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompanyCount > out[j].CompanyCount
	})
	return out, nil
}

// Summarize totals the table.
func (a *Aggregator) Summarize(ctx context.Context) (Summary, error) {
	rows, err := a.Load(ctx, false)
	if err != nil {
		return Summary{}, err
	}

	s := Summary{Companies: len(rows)}
	sectors := map[string]struct{}{}
	for _, r := range rows {
		sectors[r.Sector] = struct{}{}
		s.AvgPriceChange += r.PriceChange
		s.TotalMarketCapBillion += r.MarketCapBillion
		s.TotalEmployees += r.Employees
	}
	s.Sectors = len(sectors)
	if len(rows) > 0 {
		s.AvgPriceChange /= float64(len(rows))
	}
	return s, nil
}

// BuiltAt reports when the current table was assembled.
func (a *Aggregator) BuiltAt() time.Time {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.builtAt
}
