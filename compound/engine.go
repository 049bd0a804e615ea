package compound

import (
	"errors"
	"math"
)

var (
	ErrNegativeTrades = errors.New("compound: number of trades must be >= 0")
	ErrNonFinite      = errors.New("compound: capital and rate must be finite")
)

// TradeRecord is one step of a trajectory. Trade 0 is the seed row.
type TradeRecord struct {
	Trade   int     `json:"trade"`
	Capital float64 `json:"capital"`
	Profit  float64 `json:"profit"`
}

// Result is the raw engine output. History holds one record per trade
// executed and never includes the seed row.
type Result struct {
	Final   float64       `json:"final"`
	History []TradeRecord `json:"history"`
}

// Compute applies a constant percentage profit to startingCapital
// numTrades times. Each step is derived from its predecessor:
//
//	profit  = capital * rate/100
//	capital = capital + profit
//
// Negative rates are accepted and produce a decaying trajectory.
func Compute(startingCapital, profitRatePercent float64, numTrades int) (Result, error) {
	if numTrades < 0 {
		return Result{}, ErrNegativeTrades
	}
	if !finite(startingCapital) || !finite(profitRatePercent) {
		return Result{}, ErrNonFinite
	}

	history := make([]TradeRecord, 0, numTrades)
	current := startingCapital
	rate := profitRatePercent / 100

	for i := 1; i <= numTrades; i++ {
		profit := current * rate
		next := current + profit
		history = append(history, TradeRecord{Trade: i, Capital: next, Profit: profit})
		current = next
	}

	return Result{Final: current, History: history}, nil
}

// Trajectory returns the history with the synthetic seed row prepended,
// which is what charts and the trade table consume.
func (r Result) Trajectory(startingCapital float64) []TradeRecord {
	out := make([]TradeRecord, 0, len(r.History)+1)
	out = append(out, TradeRecord{Trade: 0, Capital: startingCapital})
	return append(out, r.History...)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
