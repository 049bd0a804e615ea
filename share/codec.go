// Package share encodes calculator parameters into a link and restores
// them from one.
package share

import (
	"net/url"
	"strings"

	"github.com/rustyeddy/compound/params"
)

const (
	KeyCapital = "capital"
	KeyProfit  = "profit"
	KeyTrades  = "trades"
)

// Partial is the result of decoding a query string. A nil field was
// absent or rejected and should fall back to its default.
type Partial struct {
	Capital *float64
	Profit  *float64
	Trades  *int
}

func (p Partial) Empty() bool {
	return p.Capital == nil && p.Profit == nil && p.Trades == nil
}

// Apply overlays the decoded fields onto base.
func (p Partial) Apply(base params.Parameters) params.Parameters {
	if p.Capital != nil {
		base = base.WithCapital(*p.Capital)
	}
	if p.Profit != nil {
		base = base.WithProfit(*p.Profit)
	}
	if p.Trades != nil {
		base = base.WithTrades(*p.Trades)
	}
	return base
}

// Encode returns baseURL with its query string replaced by the three
// parameters. A fragment on baseURL is kept after the query.
func Encode(p params.Parameters, baseURL string) string {
	q := Query(p).Encode()
	u, err := url.Parse(baseURL)
	if err != nil {
		if i := strings.IndexAny(baseURL, "?#"); i >= 0 {
			baseURL = baseURL[:i]
		}
		return baseURL + "?" + q
	}
	u.RawQuery = q
	u.ForceQuery = false
	return u.String()
}

func Query(p params.Parameters) url.Values {
	v := url.Values{}
	v.Set(KeyCapital, p.CapitalString())
	v.Set(KeyProfit, p.ProfitString())
	v.Set(KeyTrades, p.TradesString())
	return v
}

// Decode parses a raw query string (with or without the leading '?').
// Each field is validated on its own with the share-link bounds.
func Decode(rawQuery string) Partial {
	// ParseQuery keeps every well-formed pair even when it reports an
	// error for a malformed one.
	values, _ := url.ParseQuery(strings.TrimPrefix(rawQuery, "?"))
	return DecodeValues(values)
}

func DecodeValues(values url.Values) Partial {
	var out Partial
	if raw := values.Get(KeyCapital); raw != "" {
		if v, ok := params.ValidateCapital(raw, params.URL); ok {
			out.Capital = &v
		}
	}
	if raw := values.Get(KeyProfit); raw != "" {
		if v, ok := params.ValidateProfitRate(raw, params.URL); ok {
			out.Profit = &v
		}
	}
	if raw := values.Get(KeyTrades); raw != "" {
		if n, ok := params.ValidateTradeCount(raw, params.URL); ok {
			out.Trades = &n
		}
	}
	return out
}

// Restore decodes the query part of a full share link. Anything that
// does not parse as a URL yields an empty Partial.
func Restore(rawURL string) Partial {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Partial{}
	}
	return DecodeValues(u.Query())
}
