package charts

import (
	"sort"

	"kabu-dashboard/internal/models"
)

// DividendYear is one year's dividend line.
type DividendYear struct {
	Year   int             `json:"year"`
	Total  float64         `json:"total"`
	Count  int             `json:"count"`
	Growth models.OptFloat `json:"growth"` // percent vs prior year, absent for the first
}

// DividendAnalysis is the dividend view payload.
type DividendAnalysis struct {
	Ticker           string         `json:"ticker"`
	Years            []DividendYear `json:"years"`
	Count            int            `json:"count"`
	TotalPaid        float64        `json:"total_paid"`
	AveragePerYear   float64        `json:"average_per_year"`
	LatestDate       models.Date    `json:"latest_date"`
	LatestAmount     float64        `json:"latest_amount"`
	ConsecutiveYears int            `json:"consecutive_years"` // streak of paying years ending at the latest
}

// AnalyzeDividends folds a dividend history into per-year totals, growth
// rates, and a payment-consistency streak. Input is assumed date-sorted,
// as the store returns it.
func AnalyzeDividends(ticker string, divs []models.Dividend) *DividendAnalysis {
	a := &DividendAnalysis{Ticker: ticker, Count: len(divs)}
	if len(divs) == 0 {
		return a
	}

	totals := map[int]float64{}
	counts := map[int]int{}
	for _, d := range divs {
		y := d.Date.Year()
		totals[y] += d.Amount
		counts[y]++
		a.TotalPaid += d.Amount
	}

	years := make([]int, 0, len(totals))
	for y := range totals {
		years = append(years, y)
	}
	sort.Ints(years)

	for i, y := range years {
		dy := DividendYear{Year: y, Total: totals[y], Count: counts[y]}
		if i > 0 {
			prior := totals[years[i-1]]
			if prior != 0 {
				dy.Growth = models.Opt((totals[y] - prior) / prior * 100)
			}
		}
		a.Years = append(a.Years, dy)
	}

	a.AveragePerYear = a.TotalPaid / float64(len(years))

	latest := divs[len(divs)-1]
	a.LatestDate = latest.Date
	a.LatestAmount = latest.Amount

	// Streak of consecutive calendar years with at least one payment,
	// counted back from the latest paying year.
	a.ConsecutiveYears = 1
	for i := len(years) - 1; i > 0; i-- {
		if years[i]-years[i-1] != 1 {
			break
		}
		a.ConsecutiveYears++
	}

	return a
}
