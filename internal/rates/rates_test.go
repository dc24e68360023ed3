package rates

import (
	"math"
	"testing"
)

func TestFromUnitsPerUSD_Inverts(t *testing.T) {
	table := FromUnitsPerUSD(map[string]float64{
		"USDC": 1.0,
		"ETH":  0.00025, // $4000/ETH
	})
	if got, _ := table.Rate("USDC"); got != 1.0 {
		t.Fatalf("USDC: got %v want 1", got)
	}
	if got, _ := table.Rate("ETH"); got != 4000.0 {
		t.Fatalf("ETH: got %v want 4000", got)
	}
}

func TestFromUnitsPerUSD_DropsUnusableRates(t *testing.T) {
	table := FromUnitsPerUSD(map[string]float64{
		"ZERO": 0,
		"NEG":  -2,
		"NAN":  math.NaN(),
		"INF":  math.Inf(1),
		"OK":   2,
	})
	if len(table) != 1 {
		t.Fatalf("table size: got %d want 1", len(table))
	}
	if got, ok := table.Rate("OK"); !ok || got != 0.5 {
		t.Fatalf("OK: got (%v, %v) want (0.5, true)", got, ok)
	}
}

func TestFiatValue_UnknownSymbolIsZero(t *testing.T) {
	table := Table{"USDC": 1.0}
	if got := table.FiatValue(100, "WBTC"); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
	if got := table.FiatValue(100, "USDC"); got != 100 {
		t.Fatalf("got %v want 100", got)
	}
}
