package charts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabu-dashboard/internal/models"
)

func bar(y int, m time.Month, d int, close float64) models.PriceBar {
	return models.PriceBar{
		Date:  models.NewDate(y, m, d),
		Open:  close - 1,
		High:  close + 1,
		Low:   close - 2,
		Close: close,
	}
}

func TestCandlestick(t *testing.T) {
	bars := []models.PriceBar{bar(2024, 6, 3, 100), bar(2024, 6, 4, 102)}
	bars[0].Volume = 10000

	d := Candlestick("7203", bars, true)
	assert.Equal(t, []string{"2024-06-03", "2024-06-04"}, d.Dates)
	assert.Equal(t, []float64{100, 102}, d.Close)
	assert.Equal(t, int64(10000), d.Volume[0])

	noVol := Candlestick("7203", bars, false)
	assert.Nil(t, noVol.Volume)
}

func TestLineDefaultsToClose(t *testing.T) {
	bars := []models.PriceBar{bar(2024, 6, 3, 100)}

	d := Line("7203", bars, nil)
	require.Len(t, d.Series, 1)
	assert.Equal(t, "close", d.Series[0].Name)

	multi := Line("7203", bars, []string{"open", "close", "bogus"})
	require.Len(t, multi.Series, 2)
	assert.Equal(t, "open", multi.Series[0].Name)
}

func TestTechnicalCarriesAbsentValues(t *testing.T) {
	rows := []models.TechnicalRow{
		{Date: models.NewDate(2024, 6, 3), Close: models.Opt(100), RSI: models.Opt(55)},
		{Date: models.NewDate(2024, 6, 4), Close: models.Opt(102)},
	}

	d := Technical("7203", rows)
	assert.Equal(t, RSIOverbought, d.RSIOverbought)
	assert.True(t, d.RSI[0].Valid)
	assert.False(t, d.RSI[1].Valid)
	assert.False(t, d.SMA200[0].Valid)
}

func TestFilterByDateRange(t *testing.T) {
	bars := []models.PriceBar{
		bar(2024, 6, 3, 100),
		bar(2024, 6, 4, 102),
		bar(2024, 6, 5, 101),
	}

	got := FilterByDateRange(bars, time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), time.Time{})
	require.Len(t, got, 2)
	assert.Equal(t, 102.0, got[0].Close)

	got = FilterByDateRange(bars, time.Time{}, time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))
	require.Len(t, got, 1)

	// A range with no rows yields an empty, non-nil slice.
	got = FilterByDateRange(bars, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAnalyzeDividends(t *testing.T) {
	divs := []models.Dividend{
		{Date: models.NewDate(2021, 3, 30), Amount: 20},
		{Date: models.NewDate(2021, 9, 28), Amount: 20},
		{Date: models.NewDate(2022, 3, 30), Amount: 25},
		{Date: models.NewDate(2022, 9, 28), Amount: 25},
		{Date: models.NewDate(2023, 3, 30), Amount: 30},
	}

	a := AnalyzeDividends("7203", divs)
	require.Len(t, a.Years, 3)

	assert.Equal(t, 2021, a.Years[0].Year)
	assert.Equal(t, 40.0, a.Years[0].Total)
	assert.False(t, a.Years[0].Growth.Valid, "no prior year to grow from")

	assert.Equal(t, 50.0, a.Years[1].Total)
	assert.InDelta(t, 25.0, a.Years[1].Growth.Float64, 0.001)

	assert.Equal(t, 3, a.ConsecutiveYears)
	assert.Equal(t, 120.0, a.TotalPaid)
	assert.Equal(t, 30.0, a.LatestAmount)
	assert.Equal(t, 5, a.Count)
}

func TestAnalyzeDividendsGapBreaksStreak(t *testing.T) {
	divs := []models.Dividend{
		{Date: models.NewDate(2019, 3, 30), Amount: 10},
		{Date: models.NewDate(2022, 3, 30), Amount: 20},
		{Date: models.NewDate(2023, 3, 30), Amount: 20},
	}

	a := AnalyzeDividends("7203", divs)
	assert.Equal(t, 2, a.ConsecutiveYears)
}

func TestAnalyzeDividendsEmpty(t *testing.T) {
	a := AnalyzeDividends("7203", nil)
	assert.Equal(t, 0, a.Count)
	assert.Empty(t, a.Years)
}

func TestIncomeStatementSeriesDropsEmptyMetrics(t *testing.T) {
	rows := []models.IncomeStatementRow{
		{FiscalYear: "2022", TotalRevenue: models.Opt(100), NetIncome: models.Opt(10)},
		{FiscalYear: "2023", TotalRevenue: models.Opt(120), NetIncome: models.Opt(12)},
	}

	series := IncomeStatementSeries(rows)
	require.Len(t, series, 2, "gross profit and operating income have no values")
	assert.Equal(t, "Total Revenue", series[0].Metric)
	assert.Equal(t, []string{"2022", "2023"}, series[0].Years)
	assert.Equal(t, 120.0, series[0].Values[1].Float64)
}

func TestRatiosPayload(t *testing.T) {
	ratios := []models.FinancialRatio{
		{Ratio: "pe_ratio", Value: models.Opt(10.5)},
		{Ratio: "debt_to_equity", Value: models.Opt(0)},       // zero dropped
		{Ratio: "return_on_equity", Value: models.OptFloat{}}, // absent dropped
		{Ratio: "unknown_ratio", Value: models.Opt(1)},        // not a key ratio
		{Ratio: "current_ratio", Value: models.Opt(1.8)},
	}

	bars := RatiosPayload(ratios)
	require.Len(t, bars, 2)
	assert.Equal(t, "pe_ratio", bars[0].Ratio)
	assert.Equal(t, "current_ratio", bars[1].Ratio)
}

func TestAnalyzeNews(t *testing.T) {
	items := []models.NewsItem{
		{Date: models.NewDate(2024, 6, 3), Provider: "Reuters", Sentiment: "negative", SentimentScore: models.Opt(-0.6)},
		{Date: models.NewDate(2024, 6, 4), Provider: "Nikkei", Sentiment: "positive", SentimentScore: models.Opt(0.8)},
		{Date: models.NewDate(2024, 6, 4), Provider: "Nikkei", Sentiment: "unknown"},
	}

	o := AnalyzeNews("7203", items)
	assert.Equal(t, 3, o.Total)
	assert.Equal(t, 1, o.Positive)
	assert.Equal(t, 1, o.Negative)
	assert.Equal(t, 1, o.Neutral, "unknown labels count as neutral")
	assert.InDelta(t, 0.1, o.AvgScore.Float64, 0.001)

	require.Len(t, o.Timeline, 2)
	assert.Equal(t, "2024-06-03", o.Timeline[0].Date)
	assert.Equal(t, 2, o.Timeline[1].Positive+o.Timeline[1].Neutral)

	require.Len(t, o.Providers, 2)
	assert.Equal(t, "Nikkei", o.Providers[0].Provider)
	assert.Equal(t, 2, o.Providers[0].Count)
}

func TestAnalyzeNewsEmpty(t *testing.T) {
	o := AnalyzeNews("7203", nil)
	assert.Equal(t, 0, o.Total)
	assert.False(t, o.AvgScore.Valid)
}
