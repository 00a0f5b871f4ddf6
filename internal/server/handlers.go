package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"kabu-dashboard/internal/charts"
	"kabu-dashboard/internal/errors"
	"kabu-dashboard/internal/logging"
	"kabu-dashboard/internal/models"
)

// msgDataInsufficient is the user-visible state for absent artifacts.
const msgDataInsufficient = "data insufficient"

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "kabu-dashboard",
	})
}

func (s *Server) handleListTickers(w http.ResponseWriter, r *http.Request) {
	store := s.loader.Store()
	tickers := store.AvailableTickers()

	out := make([]models.SearchResult, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, models.SearchResult{
			Ticker: t,
			Name:   store.TickerName(r.Context(), t),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(out),
		"tickers": out,
	})
}

func (s *Server) handleSearchTickers(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.writeError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	results := s.loader.Store().SearchTickers(r.Context(), query)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query,
		"count":   len(results),
		"results": results,
	})
}

// knownTicker reports whether the ticker exists in the data tree.
func (s *Server) knownTicker(ticker string) bool {
	for _, t := range s.loader.Store().AvailableTickers() {
		if t == ticker {
			return true
		}
	}
	return false
}

func (s *Server) handleTickerDetail(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	store := s.loader.Store()

	// The completeness map is for known-but-sparse tickers; a ticker with
	// no directory at all is a 404.
	if !s.knownTicker(ticker) {
		s.writeError(w, http.StatusNotFound, errors.ErrTickerNotFound.Error())
		return
	}

	resp := map[string]interface{}{
		"ticker":       ticker,
		"name":         store.TickerName(r.Context(), ticker),
		"completeness": store.CheckCompleteness(r.Context(), ticker),
	}

	if info, err := s.loader.CompanyInfo(r.Context(), ticker); err == nil {
		resp["company"] = info
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// parseDate reads a YYYY-MM-DD query parameter; the zero time means the
// parameter is unset.
func parseDate(r *http.Request, name string) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.NewValidationError(name, raw, "expected YYYY-MM-DD")
	}
	return t, nil
}

// priceRange loads a ticker's bars through the cache and applies the
// optional from/to range.
func (s *Server) priceRange(w http.ResponseWriter, r *http.Request) ([]models.PriceBar, bool, bool) {
	ticker := chi.URLParam(r, "ticker")

	from, err := parseDate(r, "from")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false, false
	}
	to, err := parseDate(r, "to")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return nil, false, false
	}

	bars, err := s.loader.StockData(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return nil, false, false
	}

	ranged := !from.IsZero() || !to.IsZero()
	if ranged {
		bars = charts.FilterByDateRange(bars, from, to)
	}
	return bars, ranged, true
}

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	bars, ranged, ok := s.priceRange(w, r)
	if !ok {
		return
	}

	resp := map[string]interface{}{
		"ticker": chi.URLParam(r, "ticker"),
		"count":  len(bars),
		"bars":   bars,
	}
	if ranged && len(bars) == 0 {
		resp["warning"] = "no price data in the selected range"
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTechnical(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	rows, err := s.loader.TechnicalIndicators(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"count":  len(rows),
		"rows":   rows,
	})
}

func (s *Server) handleFinancials(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	kind := models.StatementKind(chi.URLParam(r, "kind"))

	var rows interface{}
	var err error
	switch kind {
	case models.StatementIncome:
		rows, err = s.loader.IncomeStatement(r.Context(), ticker)
	case models.StatementBalance:
		rows, err = s.loader.BalanceSheet(r.Context(), ticker)
	case models.StatementCashflow:
		rows, err = s.loader.Cashflow(r.Context(), ticker)
	case models.StatementRatios:
		rows, err = s.loader.FinancialRatios(r.Context(), ticker)
	default:
		s.writeError(w, http.StatusBadRequest, "unknown statement kind: "+string(kind))
		return
	}
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"kind":   kind,
		"rows":   rows,
	})
}

func (s *Server) handleDividends(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	divs, err := s.loader.DividendData(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker":    ticker,
		"count":     len(divs),
		"dividends": divs,
	})
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	news, err := s.loader.NewsData(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"count":  len(news),
		"news":   news,
	})
}

func (s *Server) handleCandlestickChart(w http.ResponseWriter, r *http.Request) {
	bars, ranged, ok := s.priceRange(w, r)
	if !ok {
		return
	}
	if ranged && len(bars) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"warning": "no price data in the selected range",
		})
		return
	}

	showVolume := r.URL.Query().Get("volume") != "false"
	s.writeJSON(w, http.StatusOK, charts.Candlestick(chi.URLParam(r, "ticker"), bars, showVolume))
}

func (s *Server) handleLineChart(w http.ResponseWriter, r *http.Request) {
	bars, ranged, ok := s.priceRange(w, r)
	if !ok {
		return
	}
	if ranged && len(bars) == 0 {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"warning": "no price data in the selected range",
		})
		return
	}

	var columns []string
	if raw := r.URL.Query().Get("columns"); raw != "" {
		columns = strings.Split(raw, ",")
	}
	s.writeJSON(w, http.StatusOK, charts.Line(chi.URLParam(r, "ticker"), bars, columns))
}

func (s *Server) handleFinancialsChart(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")
	kind := models.StatementKind(chi.URLParam(r, "kind"))

	var payload interface{}
	switch kind {
	case models.StatementIncome:
		rows, err := s.loader.IncomeStatement(r.Context(), ticker)
		if err != nil {
			s.writeError(w, http.StatusNotFound, msgDataInsufficient)
			return
		}
		payload = charts.IncomeStatementSeries(rows)
	case models.StatementBalance:
		rows, err := s.loader.BalanceSheet(r.Context(), ticker)
		if err != nil {
			s.writeError(w, http.StatusNotFound, msgDataInsufficient)
			return
		}
		payload = charts.BalanceSheetSeries(rows)
	case models.StatementCashflow:
		rows, err := s.loader.Cashflow(r.Context(), ticker)
		if err != nil {
			s.writeError(w, http.StatusNotFound, msgDataInsufficient)
			return
		}
		payload = charts.CashflowSeries(rows)
	case models.StatementRatios:
		rows, err := s.loader.FinancialRatios(r.Context(), ticker)
		if err != nil {
			s.writeError(w, http.StatusNotFound, msgDataInsufficient)
			return
		}
		payload = charts.RatiosPayload(rows)
	default:
		s.writeError(w, http.StatusBadRequest, "unknown statement kind: "+string(kind))
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"ticker": ticker,
		"kind":   kind,
		"data":   payload,
	})
}

func (s *Server) handleTechnicalChart(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	rows, err := s.loader.TechnicalIndicators(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}
	s.writeJSON(w, http.StatusOK, charts.Technical(ticker, rows))
}

func (s *Server) handleDividendChart(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	divs, err := s.loader.DividendData(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}
	s.writeJSON(w, http.StatusOK, charts.AnalyzeDividends(ticker, divs))
}

func (s *Server) handleSentimentChart(w http.ResponseWriter, r *http.Request) {
	ticker := chi.URLParam(r, "ticker")

	news, err := s.loader.NewsData(r.Context(), ticker)
	if err != nil {
		s.writeError(w, http.StatusNotFound, msgDataInsufficient)
		return
	}
	s.writeJSON(w, http.StatusOK, charts.AnalyzeNews(ticker, news))
}

func (s *Server) handleSector(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("reload") == "true"

	rows, err := s.sector.Load(r.Context(), force)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(rows),
		"built_at": s.sector.BuiltAt(),
		"rows":     rows,
	})
}

func (s *Server) handleSectorPerformance(w http.ResponseWriter, r *http.Request) {
	perf, err := s.sector.SectorPerformance(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"sectors": perf})
}

func (s *Server) handleIndustries(w http.ResponseWriter, r *http.Request) {
	industries, err := s.sector.IndustryBreakdown(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"industries": industries})
}

func (s *Server) handleSectorSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.sector.Summarize(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.loader.Cache().Stats())
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Query().Get("ticker")
	kind := models.DataKind(r.URL.Query().Get("kind"))

	s.loader.Cache().Clear(ticker, kind)
	reqLog := logging.FromContext(r.Context())
	reqLog.Info().
		Str("ticker", ticker).
		Str("kind", string(kind)).
		Msg("Cache cleared")

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
		"stats":   s.loader.Cache().Stats(),
	})
}

// writeJSON writes a JSON response.
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeError writes an error response.
func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{
		"error": message,
	})
}
