// Package params holds the calculator's input state and the policy that
// decides which raw inputs are allowed to replace it.
package params

import (
	"strconv"

	"github.com/rustyeddy/compound/compound"
)

const (
	DefaultCapital = 100000
	DefaultProfit  = 5
	DefaultTrades  = 50
)

// Parameters is an immutable snapshot of the three calculator inputs.
// Setters return a modified copy.
type Parameters struct {
	StartingCapital float64 `json:"capital" yaml:"capital"`
	ProfitPerTrade  float64 `json:"profit" yaml:"profit"`
	NumTrades       int     `json:"trades" yaml:"trades"`
}

func Default() Parameters {
	return Parameters{
		StartingCapital: DefaultCapital,
		ProfitPerTrade:  DefaultProfit,
		NumTrades:       DefaultTrades,
	}
}

func (p Parameters) WithCapital(v float64) Parameters {
	p.StartingCapital = v
	return p
}

func (p Parameters) WithProfit(v float64) Parameters {
	p.ProfitPerTrade = v
	return p
}

func (p Parameters) WithTrades(n int) Parameters {
	p.NumTrades = n
	return p
}

// Valid reports whether every field satisfies the bounds for src.
func (p Parameters) Valid(src Source) bool {
	return CapitalValid(p.StartingCapital) &&
		ProfitInBounds(p.ProfitPerTrade, src) &&
		TradesInBounds(p.NumTrades, src)
}

// Compute runs the engine and metrics derivation for p.
func (p Parameters) Compute() (compound.Outcome, error) {
	return compound.Run(p.StartingCapital, p.ProfitPerTrade, p.NumTrades)
}

// Query values in the string form used by share links.
func (p Parameters) CapitalString() string {
	return strconv.FormatFloat(p.StartingCapital, 'f', -1, 64)
}

func (p Parameters) ProfitString() string {
	return strconv.FormatFloat(p.ProfitPerTrade, 'f', -1, 64)
}

func (p Parameters) TradesString() string {
	return strconv.Itoa(p.NumTrades)
}
