// Package format renders calculator figures the way the trade table,
// chart axis and summary cards display them.
package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency formats v with thousands separators. Whole amounts carry no
// decimals; anything else is rounded half away from zero to cents.
func Currency(v float64) string {
	if !finite(v) {
		return fmt.Sprint(v)
	}
	d := decimal.NewFromFloat(v)
	if v == math.Floor(v) {
		return group(d.StringFixed(0))
	}
	return group(d.StringFixed(2))
}

// Dollars is Currency with a leading "$".
func Dollars(v float64) string {
	if v < 0 {
		return "-$" + Currency(-v)
	}
	return "$" + Currency(v)
}

// AxisTick abbreviates large amounts for chart axes: $1.1M, $250k.
func AxisTick(v float64) string {
	if !finite(v) {
		return "$" + fmt.Sprint(v)
	}
	if v >= 1_000_000 {
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	}
	return fmt.Sprintf("$%.0fk", v/1000)
}

// Percent renders v with the given number of decimals and a trailing "%".
func Percent(v float64, places int32) string {
	if !finite(v) {
		return fmt.Sprint(v) + "%"
	}
	return decimal.NewFromFloat(v).StringFixed(places) + "%"
}

// decimal cannot represent NaN or infinities.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// group inserts thousands separators into the integer part of a plain
// decimal string.
func group(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}
