// Package ranking orders assets by annual or trailing-period return, with
// FX-adjusted return conversion for foreign-currency assets.
package ranking

import (
	"sort"

	"github.com/rs/zerolog"

	"github.com/aristath/hindsight/internal/modules/returns"
	"github.com/aristath/hindsight/internal/series"
)

// Asset identifies a rankable ticker and its optional FX column.
type Asset struct {
	Ticker   string `json:"ticker"`
	FXTicker string `json:"fx_ticker,omitempty"`
}

// RankedAsset is one ranking entry. FXAdjustedPct composes the local return
// with the FX return when FX data covers the same window, otherwise it
// equals the local return.
type RankedAsset struct {
	Ticker        string  `json:"ticker"`
	LocalPct      float64 `json:"local_pct"`
	FXAdjustedPct float64 `json:"fx_adjusted_pct"`
}

// Service ranks assets by historical return.
type Service struct {
	aggregator *returns.Aggregator
	log        zerolog.Logger
}

// NewService creates a new ranking service.
func NewService(aggregator *returns.Aggregator, log zerolog.Logger) *Service {
	return &Service{
		aggregator: aggregator,
		log:        log.With().Str("service", "ranking").Logger(),
	}
}

// Annual ranks assets by their calendar-year return for the target year,
// descending by local-currency return. Assets without data for that year
// are omitted.
func (s *Service) Annual(table *series.PriceTable, assets []Asset, year int) []RankedAsset {
	var out []RankedAsset
	for _, asset := range assets {
		yearly := s.aggregator.CalendarYearReturns(table, asset.Ticker)
		local, ok := yearly[year]
		if !ok {
			continue
		}

		entry := RankedAsset{Ticker: asset.Ticker, LocalPct: local, FXAdjustedPct: local}
		if asset.FXTicker != "" {
			if fx, ok := s.aggregator.CalendarYearReturns(table, asset.FXTicker)[year]; ok {
				entry.FXAdjustedPct = composeFX(local, fx)
			}
		}
		out = append(out, entry)
	}

	sortDescending(out)
	return out
}

// Trailing ranks assets by their trailing-N-year return, descending by
// local-currency return. Assets without a usable window are omitted.
func (s *Service) Trailing(table *series.PriceTable, assets []Asset, years int) []RankedAsset {
	var out []RankedAsset
	for _, asset := range assets {
		local := s.aggregator.TrailingReturn(table, asset.Ticker, years)
		if local == nil {
			continue
		}

		entry := RankedAsset{Ticker: asset.Ticker, LocalPct: *local, FXAdjustedPct: *local}
		if asset.FXTicker != "" {
			if fx := s.aggregator.TrailingReturn(table, asset.FXTicker, years); fx != nil {
				entry.FXAdjustedPct = composeFX(*local, *fx)
			}
		}
		out = append(out, entry)
	}

	sortDescending(out)
	return out
}

// composeFX converts a local-currency return into the reference currency:
// (1 + asset/100) × (1 + fx/100) − 1, as a percentage.
func composeFX(localPct, fxPct float64) float64 {
	return ((1 + localPct/100) * (1 + fxPct/100) - 1) * 100
}

func sortDescending(ranked []RankedAsset) {
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].LocalPct > ranked[j].LocalPct
	})
}
