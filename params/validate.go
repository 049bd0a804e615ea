package params

import (
	"math"
	"strconv"
	"strings"
)

// Source identifies where a raw value came from. Share links are allowed
// a wider range than the interactive controls.
type Source int

const (
	Direct Source = iota
	URL
)

func (s Source) String() string {
	switch s {
	case Direct:
		return "direct"
	case URL:
		return "url"
	default:
		return "unknown"
	}
}

// Range is an inclusive interval.
type Range struct {
	Min float64
	Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

type Bounds struct {
	Profit Range
	Trades Range
}

var (
	DirectBounds = Bounds{
		Profit: Range{Min: 0.1, Max: 10},
		Trades: Range{Min: 1, Max: 100},
	}
	URLBounds = Bounds{
		Profit: Range{Min: 0.1, Max: 1000},
		Trades: Range{Min: 1, Max: 10000},
	}
)

func BoundsFor(src Source) Bounds {
	if src == URL {
		return URLBounds
	}
	return DirectBounds
}

// ValidateCapital accepts any finite number > 0. Thousands separators
// from the capital text box are ignored for direct entry.
func ValidateCapital(raw string, src Source) (float64, bool) {
	s := strings.TrimSpace(raw)
	if src == Direct {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, ok := parseFloat(s)
	if !ok || !CapitalValid(v) {
		return 0, false
	}
	return v, true
}

func ValidateProfitRate(raw string, src Source) (float64, bool) {
	v, ok := parseFloat(strings.TrimSpace(raw))
	if !ok || !ProfitInBounds(v, src) {
		return 0, false
	}
	return v, true
}

// ValidateTradeCount accepts base-10 integers only; "12.5" and "1e2" are
// rejected rather than truncated.
func ValidateTradeCount(raw string, src Source) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || !TradesInBounds(n, src) {
		return 0, false
	}
	return n, true
}

// CapitalValid, ProfitInBounds and TradesInBounds check values that are
// already numeric, such as slider positions.
func CapitalValid(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

func ProfitInBounds(v float64, src Source) bool {
	return !math.IsNaN(v) && BoundsFor(src).Profit.Contains(v)
}

func TradesInBounds(n int, src Source) bool {
	return BoundsFor(src).Trades.Contains(float64(n))
}

func parseFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
