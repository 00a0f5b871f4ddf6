// Package charts builds JSON-ready chart payloads from loaded data.
// Rendering is the frontend's job; these are the data series behind each
// dashboard view.
package charts

import (
	"time"

	"kabu-dashboard/internal/models"
)

// RSI guide bands shown on the technical panel.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// CandlestickData is the candlestick chart payload, with an optional
// volume panel.
type CandlestickData struct {
	Ticker string    `json:"ticker"`
	Dates  []string  `json:"dates"`
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []int64   `json:"volume,omitempty"`
}

// Candlestick assembles the candlestick payload from price bars.
func Candlestick(ticker string, bars []models.PriceBar, showVolume bool) *CandlestickData {
	d := &CandlestickData{
		Ticker: ticker,
		Dates:  make([]string, len(bars)),
		Open:   make([]float64, len(bars)),
		High:   make([]float64, len(bars)),
		Low:    make([]float64, len(bars)),
		Close:  make([]float64, len(bars)),
	}
	if showVolume {
		d.Volume = make([]int64, len(bars))
	}
	for i, b := range bars {
		d.Dates[i] = b.Date.Format("2006-01-02")
		d.Open[i] = b.Open
		d.High[i] = b.High
		d.Low[i] = b.Low
		d.Close[i] = b.Close
		if showVolume {
			d.Volume[i] = b.Volume
		}
	}
	return d
}

// Series is one named line on a line chart.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// LineData is a simple multi-series line chart payload.
type LineData struct {
	Ticker string   `json:"ticker"`
	Dates  []string `json:"dates"`
	Series []Series `json:"series"`
}

// Line assembles a line chart for the requested price columns. Unknown
// column names are ignored; with no known columns the close series is
// used.
func Line(ticker string, bars []models.PriceBar, columns []string) *LineData {
	pick := func(name string) (func(models.PriceBar) float64, bool) {
		switch name {
		case "open":
			return func(b models.PriceBar) float64 { return b.Open }, true
		case "high":
			return func(b models.PriceBar) float64 { return b.High }, true
		case "low":
			return func(b models.PriceBar) float64 { return b.Low }, true
		case "close":
			return func(b models.PriceBar) float64 { return b.Close }, true
		}
		return nil, false
	}

	d := &LineData{
		Ticker: ticker,
		Dates:  make([]string, len(bars)),
	}
	for i, b := range bars {
		d.Dates[i] = b.Date.Format("2006-01-02")
	}

	for _, col := range columns {
		get, ok := pick(col)
		if !ok {
			continue
		}
		s := Series{Name: col, Values: make([]float64, len(bars))}
		for i, b := range bars {
			s.Values[i] = get(b)
		}
		d.Series = append(d.Series, s)
	}

	if len(d.Series) == 0 {
		get, _ := pick("close")
		s := Series{Name: "close", Values: make([]float64, len(bars))}
		for i, b := range bars {
			s.Values[i] = get(b)
		}
		d.Series = append(d.Series, s)
	}

	return d
}

// TechnicalData is the three-panel technical view payload: price with
// moving averages, RSI with guide bands, and MACD.
type TechnicalData struct {
	Ticker        string            `json:"ticker"`
	Dates         []string          `json:"dates"`
	Close         []models.OptFloat `json:"close"`
	SMA20         []models.OptFloat `json:"sma_20"`
	SMA50         []models.OptFloat `json:"sma_50"`
	SMA200        []models.OptFloat `json:"sma_200"`
	RSI           []models.OptFloat `json:"rsi"`
	RSIOverbought float64           `json:"rsi_overbought"`
	RSIOversold   float64           `json:"rsi_oversold"`
	MACD          []models.OptFloat `json:"macd"`
	MACDSignal    []models.OptFloat `json:"macd_signal"`
	MACDHistogram []models.OptFloat `json:"macd_histogram"`
}

// Technical assembles the technical panel payload.
func Technical(ticker string, rows []models.TechnicalRow) *TechnicalData {
	d := &TechnicalData{
		Ticker:        ticker,
		Dates:         make([]string, len(rows)),
		Close:         make([]models.OptFloat, len(rows)),
		SMA20:         make([]models.OptFloat, len(rows)),
		SMA50:         make([]models.OptFloat, len(rows)),
		SMA200:        make([]models.OptFloat, len(rows)),
		RSI:           make([]models.OptFloat, len(rows)),
		MACD:          make([]models.OptFloat, len(rows)),
		MACDSignal:    make([]models.OptFloat, len(rows)),
		MACDHistogram: make([]models.OptFloat, len(rows)),
		RSIOverbought: RSIOverbought,
		RSIOversold:   RSIOversold,
	}
	for i, r := range rows {
		d.Dates[i] = r.Date.Format("2006-01-02")
		d.Close[i] = r.Close
		d.SMA20[i] = r.SMA20
		d.SMA50[i] = r.SMA50
		d.SMA200[i] = r.SMA200
		d.RSI[i] = r.RSI
		d.MACD[i] = r.MACD
		d.MACDSignal[i] = r.MACDSignal
		d.MACDHistogram[i] = r.MACDHistogram
	}
	return d
}

// FilterByDateRange keeps bars within [from, to]. Zero bounds are open
// ends. The result may be empty; callers surface that as a warning, not
// an error.
func FilterByDateRange(bars []models.PriceBar, from, to time.Time) []models.PriceBar {
	out := make([]models.PriceBar, 0, len(bars))
	for _, b := range bars {
		if !from.IsZero() && b.Date.Before(from) {
			continue
		}
		if !to.IsZero() && b.Date.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out
}
