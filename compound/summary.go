package compound

import (
	"errors"
	"math"
)

// ErrZeroCapital is returned when a total return is requested against a
// zero starting capital. Upstream validation makes this unreachable, so
// callers should treat it as an invariant violation.
var ErrZeroCapital = errors.New("compound: starting capital is zero, total return undefined")

type Summary struct {
	StartingCapital    float64 `json:"starting_capital"`
	FinalCapital       float64 `json:"final_capital"`
	TotalProfit        float64 `json:"total_profit"`
	TotalReturnPercent float64 `json:"total_return_percent"`
}

// DeriveMetrics computes total profit and total return from the start and
// end of a trajectory.
func DeriveMetrics(startingCapital, final float64) (Summary, error) {
	if startingCapital == 0 {
		return Summary{}, ErrZeroCapital
	}
	return Summary{
		StartingCapital:    startingCapital,
		FinalCapital:       final,
		TotalProfit:        final - startingCapital,
		TotalReturnPercent: (final/startingCapital - 1) * 100,
	}, nil
}

// Outcome is everything a presentation layer needs for one parameter set.
type Outcome struct {
	Summary
	History []TradeRecord `json:"history"`
}

// Overflowed reports whether the trajectory left the float64 range. Wide
// share-link values (1000% over 10000 trades) get there quickly.
func (o Outcome) Overflowed() bool {
	return math.IsInf(o.FinalCapital, 0) || math.IsNaN(o.FinalCapital)
}

// Run computes the trajectory and its summary in one call. The returned
// history includes the seed row.
func Run(startingCapital, profitRatePercent float64, numTrades int) (Outcome, error) {
	res, err := Compute(startingCapital, profitRatePercent, numTrades)
	if err != nil {
		return Outcome{}, err
	}
	sum, err := DeriveMetrics(startingCapital, res.Final)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Summary: sum, History: res.Trajectory(startingCapital)}, nil
}
