package charts

import (
	"sort"

	"kabu-dashboard/internal/models"
)

// SentimentDay is one day's sentiment tallies.
type SentimentDay struct {
	Date     string          `json:"date"`
	Positive int             `json:"positive"`
	Negative int             `json:"negative"`
	Neutral  int             `json:"neutral"`
	AvgScore models.OptFloat `json:"avg_score"`
}

// ProviderCount is one news source's article count.
type ProviderCount struct {
	Provider string `json:"provider"`
	Count    int    `json:"count"`
}

// SentimentOverview is the news sentiment view payload.
type SentimentOverview struct {
	Ticker    string          `json:"ticker"`
	Total     int             `json:"total_news"`
	Positive  int             `json:"positive_news"`
	Negative  int             `json:"negative_news"`
	Neutral   int             `json:"neutral_news"`
	AvgScore  models.OptFloat `json:"avg_score"`
	Timeline  []SentimentDay  `json:"timeline"`
	Providers []ProviderCount `json:"providers"`
}

// AnalyzeNews tallies sentiment labels, scores, and sources for the news
// view. Articles with labels outside positive/negative/neutral count as
// neutral. Input is assumed date-sorted.
func AnalyzeNews(ticker string, items []models.NewsItem) *SentimentOverview {
	o := &SentimentOverview{Ticker: ticker, Total: len(items)}
	if len(items) == 0 {
		return o
	}

	type dayAcc struct {
		day      SentimentDay
		scoreSum float64
		scored   int
	}
	byDay := map[string]*dayAcc{}
	var dayOrder []string
	providers := map[string]int{}

	var scoreSum float64
	var scored int

	for _, n := range items {
		switch n.Sentiment {
		case models.SentimentPositive:
			o.Positive++
		case models.SentimentNegative:
			o.Negative++
		default:
			o.Neutral++
		}

		if n.SentimentScore.Valid {
			scoreSum += n.SentimentScore.Float64
			scored++
		}
		if n.Provider != "" {
			providers[n.Provider]++
		}

		day := n.Date.Format("2006-01-02")
		acc, ok := byDay[day]
		if !ok {
			acc = &dayAcc{day: SentimentDay{Date: day}}
			byDay[day] = acc
			dayOrder = append(dayOrder, day)
		}
		switch n.Sentiment {
		case models.SentimentPositive:
			acc.day.Positive++
		case models.SentimentNegative:
			acc.day.Negative++
		default:
			acc.day.Neutral++
		}
		if n.SentimentScore.Valid {
			acc.scoreSum += n.SentimentScore.Float64
			acc.scored++
		}
	}

	if scored > 0 {
		o.AvgScore = models.Opt(scoreSum / float64(scored))
	}

	for _, day := range dayOrder {
		acc := byDay[day]
		if acc.scored > 0 {
			acc.day.AvgScore = models.Opt(acc.scoreSum / float64(acc.scored))
		}
		o.Timeline = append(o.Timeline, acc.day)
	}

	for provider, count := range providers {
		o.Providers = append(o.Providers, ProviderCount{Provider: provider, Count: count})
	}
	sort.SliceStable(o.Providers, func(i, j int) bool {
		if o.Providers[i].Count != o.Providers[j].Count {
			return o.Providers[i].Count > o.Providers[j].Count
		}
		return o.Providers[i].Provider < o.Providers[j].Provider
	})

	return o
}
