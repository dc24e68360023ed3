// Package rates holds the symbol → USD exchange-rate table used for fiat
// valuations.
package rates

import (
	"math"
	"strings"
)

// Table maps an upper-case token symbol to its USD price per unit.
type Table map[string]float64

// FromUnitsPerUSD inverts a provider rate map (native units per USD) into
// USD per unit. Non-finite and non-positive quotes are dropped.
func FromUnitsPerUSD(raw map[string]float64) Table {
	t := make(Table, len(raw))
	for symbol, unitsPerUSD := range raw {
		if !isFinite(unitsPerUSD) || unitsPerUSD <= 0 {
			continue
		}
		t[strings.ToUpper(symbol)] = 1 / unitsPerUSD
	}
	return t
}

// Rate returns the USD price per unit for symbol.
func (t Table) Rate(symbol string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	r, ok := t[strings.ToUpper(symbol)]
	return r, ok
}

// FiatValue converts a token amount to USD. Unknown symbols value at zero.
func (t Table) FiatValue(amount float64, symbol string) float64 {
	r, ok := t.Rate(symbol)
	if !ok {
		return 0
	}
	return amount * r
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
