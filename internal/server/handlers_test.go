package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabu-dashboard/internal/cache"
	"kabu-dashboard/internal/loader"
	"kabu-dashboard/internal/sector"
	"kabu-dashboard/internal/store"
)

func writeFixture(t *testing.T, root, ticker, relPath, content string) {
	t.Helper()
	path := filepath.Join(root, ticker, filepath.FromSlash(relPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const fixturePrices = `Date,Open,High,Low,Close,Volume
2024-06-03,100,103,99,102,12000
2024-06-04,102,106,101,105,15000
2024-06-05,105,111,104,110,18000
`

const fixtureCompany = `company_name,sector,industry,sector_category,market_cap,market_cap_billion,company_size,employees
トヨタ自動車,輸送用機器,自動車,製造業,45000000000000,45000,large,375235
`

const fixtureIncome = `fiscal_year,Total Revenue,Gross Profit,Operating Income,Net Income
2023,45000000,,5300000,3700000
2024,48000000,,5900000,4100000
`

const fixtureRatios = `ratio,value
pe_ratio,10.5
current_ratio,1.8
unknown_ratio,3
`

const fixtureDividends = `date,dividend
2023-03-30,30
2023-09-28,30
`

const fixtureNews = `date,title,summary,provider,sentiment,sentiment_score,confidence
2024-06-03,決算発表,営業利益が過去最高,Nikkei,positive,0.8,0.9
2024-06-04,リコール,一部車種で不具合,Reuters,negative,-0.5,0.7
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()

	writeFixture(t, root, "7203", "stock_data/stock_data.csv", fixturePrices)
	writeFixture(t, root, "7203", "company_info/company_info.csv", fixtureCompany)
	writeFixture(t, root, "7203", "financial_data/income_statement.csv", fixtureIncome)
	writeFixture(t, root, "7203", "financial_data/financial_ratios.csv", fixtureRatios)
	writeFixture(t, root, "7203", "dividend_data/dividends.csv", fixtureDividends)
	writeFixture(t, root, "7203", "news_data/news.csv", fixtureNews)

	// A second ticker with prices only.
	writeFixture(t, root, "6758", "stock_data/stock_data.csv", fixturePrices)

	log := zerolog.Nop()
	st := store.NewCSVStore(root, log)
	c := cache.New(time.Hour)
	l := loader.New(st, c, log)
	agg := sector.New(st, c, 30*time.Minute, log)

	return New(Config{
		Port:   0,
		Log:    log,
		Loader: l,
		Sector: agg,
	})
}

func doGET(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	var body map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestListTickers(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
}

func TestSearchTickers(t *testing.T) {
	s := newTestServer(t)

	rec, body := doGET(t, s, "/api/tickers/search?q=トヨタ")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])

	rec, _ = doGET(t, s, "/api/tickers/search")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTickerDetail(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "トヨタ自動車", body["name"])
	assert.NotNil(t, body["company"])

	// Without company info the detail still renders with a fallback name.
	rec, body = doGET(t, s, "/api/tickers/6758/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "銘柄6758", body["name"])
	assert.Nil(t, body["company"])
}

func TestTickerDetailUnknown(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/9999/")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body, "error")
}

func TestPrices(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/prices")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["count"])
	assert.NotContains(t, body, "warning")
}

func TestPricesDateRange(t *testing.T) {
	s := newTestServer(t)

	rec, body := doGET(t, s, "/api/tickers/7203/prices?from=2024-06-04")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])

	// An empty range answers 200 with a warning, not an error.
	rec, body = doGET(t, s, "/api/tickers/7203/prices?from=2025-01-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(0), body["count"])
	assert.Contains(t, body, "warning")

	rec, _ = doGET(t, s, "/api/tickers/7203/prices?from=junk")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPricesMissingTicker(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/9999/prices")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body, "error")
}

func TestTechnicalMissing(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doGET(t, s, "/api/tickers/7203/technical")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFinancialsUnknownKind(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doGET(t, s, "/api/tickers/7203/financials/quarterly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFinancials(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/financials/income_statement")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "income_statement", body["kind"])
	assert.Len(t, body["rows"], 2)
}

func TestFinancialsMissing(t *testing.T) {
	s := newTestServer(t)
	rec, _ := doGET(t, s, "/api/tickers/6758/financials/income_statement")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDividends(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/dividends")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
}

func TestNews(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/news")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
}

func TestCandlestickChart(t *testing.T) {
	s := newTestServer(t)

	rec, body := doGET(t, s, "/api/tickers/7203/charts/candlestick")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["dates"], 3)
	assert.NotNil(t, body["volume"])

	rec, body = doGET(t, s, "/api/tickers/7203/charts/candlestick?volume=false")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, body["volume"])

	rec, body = doGET(t, s, "/api/tickers/7203/charts/candlestick?from=2025-01-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "warning")
}

func TestLineChart(t *testing.T) {
	s := newTestServer(t)

	// Without columns the close series is the default.
	rec, body := doGET(t, s, "/api/tickers/7203/charts/line")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["dates"], 3)
	series, ok := body["series"].([]interface{})
	require.True(t, ok)
	require.Len(t, series, 1)
	assert.Equal(t, "close", series[0].(map[string]interface{})["name"])

	rec, body = doGET(t, s, "/api/tickers/7203/charts/line?columns=open,close")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["series"], 2)

	rec, body = doGET(t, s, "/api/tickers/7203/charts/line?from=2025-01-01")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body, "warning")
}

func TestFinancialsChart(t *testing.T) {
	s := newTestServer(t)

	// Gross Profit is blank in every year, so only three series survive.
	rec, body := doGET(t, s, "/api/tickers/7203/charts/financials/income_statement")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "income_statement", body["kind"])
	assert.Len(t, body["data"], 3)

	// The unknown ratio is dropped, leaving the two key ratios.
	rec, body = doGET(t, s, "/api/tickers/7203/charts/financials/financial_ratios")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["data"], 2)

	rec, _ = doGET(t, s, "/api/tickers/7203/charts/financials/quarterly")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = doGET(t, s, "/api/tickers/6758/charts/financials/income_statement")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDividendChart(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/charts/dividends")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, float64(60), body["total_paid"])
}

func TestSentimentChart(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/tickers/7203/charts/sentiment")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(2), body["total_news"])
	assert.Equal(t, float64(1), body["positive_news"])
}

func TestSector(t *testing.T) {
	s := newTestServer(t)

	// 6758 has no company info, so the scan skips it.
	rec, body := doGET(t, s, "/api/sector/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["count"])
}

func TestSectorSummary(t *testing.T) {
	s := newTestServer(t)
	rec, body := doGET(t, s, "/api/sector/summary")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["companies"])
}

func TestCacheStatsAndClear(t *testing.T) {
	s := newTestServer(t)

	// Warm the cache through a read.
	rec, _ := doGET(t, s, "/api/tickers/7203/prices")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body := doGET(t, s, "/api/cache/stats")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), body["total_cached"])

	req := httptest.NewRequest(http.MethodDelete, "/api/cache/?ticker=7203", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var cleared map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cleared))
	stats, ok := cleared["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(0), stats["total_cached"])
}
