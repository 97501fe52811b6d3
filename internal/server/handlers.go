package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/hindsight/internal/modules/ranking"
	"github.com/aristath/hindsight/internal/modules/simulation"
	"github.com/aristath/hindsight/internal/series"
)

const dateLayout = "2006-01-02"

// portfolioRequest is the payload shared by the portfolio simulation
// endpoints. Dates use YYYY-MM-DD.
type portfolioRequest struct {
	Legs            []simulation.AllocationLeg     `json:"legs"`
	StartingCapital float64                        `json:"starting_capital"`
	Rebalance       simulation.RebalanceFrequency  `json:"rebalance"`
	Start           string                         `json:"start"`
	End             string                         `json:"end"`
	AnnualRatePct   float64                        `json:"annual_rate_pct"`
	InflationPct    float64                        `json:"inflation_pct"`
}

func (req *portfolioRequest) params() (simulation.Parameters, error) {
	start, err := time.Parse(dateLayout, req.Start)
	if err != nil {
		return simulation.Parameters{}, err
	}
	end, err := time.Parse(dateLayout, req.End)
	if err != nil {
		return simulation.Parameters{}, err
	}

	return simulation.Parameters{
		StartingCapital: req.StartingCapital,
		Rebalance:       req.Rebalance,
		Start:           start,
		End:             end,
	}, nil
}

// simulateCurve runs the shared decode/validate/simulate sequence of the
// portfolio endpoints. A nil curve means the response is already written.
func (s *Server) simulateCurve(w http.ResponseWriter, r *http.Request) (series.EquityCurve, *portfolioRequest, string) {
	var req portfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return nil, nil, ""
	}

	params, err := req.params()
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return nil, nil, ""
	}

	table, err := s.store.Table()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load price table")
		s.writeError(w, http.StatusInternalServerError, "failed to load price table")
		return nil, nil, ""
	}

	runID := uuid.NewString()
	curve, invalid := s.simulator.Simulate(req.Legs, table, params)
	if invalid != nil {
		s.log.Warn().Str("run_id", runID).Str("reason", invalid.Reason).Msg("Portfolio not simulated")
		s.writeError(w, http.StatusUnprocessableEntity, invalid.Reason)
		return nil, nil, ""
	}

	return curve, &req, runID
}

// handleSimulatePortfolio handles POST /api/simulations/portfolio
func (s *Server) handleSimulatePortfolio(w http.ResponseWriter, r *http.Request) {
	curve, _, runID := s.simulateCurve(w, r)
	if curve == nil {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":       runID,
		"curve":        curve,
		"stats":        s.stats.Compute(curve),
		"monthly_grid": s.aggregator.MonthlyGrid(curve),
	})
}

// handleSimulateWithdrawals handles POST /api/simulations/portfolio/withdrawals
func (s *Server) handleSimulateWithdrawals(w http.ResponseWriter, r *http.Request) {
	curve, req, runID := s.simulateCurve(w, r)
	if curve == nil {
		return
	}

	overlayCurve := s.overlay.Apply(curve, req.AnnualRatePct, req.InflationPct)
	records := s.overlay.Detail(curve, req.AnnualRatePct, req.InflationPct)

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id":  runID,
		"curve":   overlayCurve,
		"stats":   s.stats.Compute(overlayCurve),
		"records": records,
	})
}

// trendRequest is the payload of POST /api/simulations/trend. Rates are
// decimals (0.02 = 2%).
type trendRequest struct {
	Ticker         string  `json:"ticker"`
	Start          string  `json:"start"`
	End            string  `json:"end"`
	RiskFreeRate   float64 `json:"risk_free_rate"`
	CommissionRate float64 `json:"commission_rate"`
}

// handleSimulateTrend handles POST /api/simulations/trend
func (s *Server) handleSimulateTrend(w http.ResponseWriter, r *http.Request) {
	var req trendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	start, err1 := time.Parse(dateLayout, req.Start)
	end, err2 := time.Parse(dateLayout, req.End)
	if err1 != nil || err2 != nil {
		s.writeError(w, http.StatusBadRequest, "dates must be YYYY-MM-DD")
		return
	}

	table, err := s.store.Table()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load price table")
		s.writeError(w, http.StatusInternalServerError, "failed to load price table")
		return
	}

	result := s.trendSim.Simulate(req.Ticker, table, start, end, req.RiskFreeRate, req.CommissionRate)
	if result == nil {
		s.writeError(w, http.StatusUnprocessableEntity, "fewer than 10 monthly observations for ticker")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"run_id": uuid.NewString(),
		"result": result,
	})
}

// handleAnnualRanking handles GET /api/rankings/annual?year=2020&fx=EWJ:JPYEUR
func (s *Server) handleAnnualRanking(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(r.URL.Query().Get("year"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "year query parameter required")
		return
	}

	assets, table, ok := s.rankingInputs(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"year":    year,
		"ranking": s.ranker.Annual(table, assets, year),
	})
}

// handleTrailingRanking handles GET /api/rankings/trailing?years=5&fx=EWJ:JPYEUR
func (s *Server) handleTrailingRanking(w http.ResponseWriter, r *http.Request) {
	years, err := strconv.Atoi(r.URL.Query().Get("years"))
	if err != nil || years <= 0 {
		s.writeError(w, http.StatusBadRequest, "positive years query parameter required")
		return
	}

	assets, table, ok := s.rankingInputs(w, r)
	if !ok {
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"years":   years,
		"ranking": s.ranker.Trailing(table, assets, years),
	})
}

// rankingInputs builds the asset list from the store's tickers, applying
// any fx=TICKER:FXTICKER pairs from the query. FX columns themselves are
// excluded from the ranked set.
func (s *Server) rankingInputs(w http.ResponseWriter, r *http.Request) ([]ranking.Asset, *series.PriceTable, bool) {
	table, err := s.store.Table()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to load price table")
		s.writeError(w, http.StatusInternalServerError, "failed to load price table")
		return nil, nil, false
	}

	tickers, err := s.store.Tickers()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list tickers")
		s.writeError(w, http.StatusInternalServerError, "failed to list tickers")
		return nil, nil, false
	}

	fxFor := make(map[string]string)
	fxCols := make(map[string]bool)
	for _, pair := range r.URL.Query()["fx"] {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) == 2 && parts[0] != "" && parts[1] != "" {
			fxFor[parts[0]] = parts[1]
			fxCols[parts[1]] = true
		}
	}

	var assets []ranking.Asset
	for _, t := range tickers {
		if fxCols[t] {
			continue
		}
		assets = append(assets, ranking.Asset{Ticker: t, FXTicker: fxFor[t]})
	}

	return assets, table, true
}

// handleTickers handles GET /api/tickers
func (s *Server) handleTickers(w http.ResponseWriter, r *http.Request) {
	tickers, err := s.store.Tickers()
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to list tickers")
		s.writeError(w, http.StatusInternalServerError, "failed to list tickers")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]interface{}{"tickers": tickers})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, reason string) {
	s.writeJSON(w, status, map[string]string{"error": reason})
}
