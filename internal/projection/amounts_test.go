package projection

import (
	"math/big"
	"testing"
)

func TestBaseUnitsToFloat_SixDecimals(t *testing.T) {
	if got := BaseUnitsToFloat(big.NewInt(1_234_560_000), 6); got != 1234.56 {
		t.Fatalf("got %v want 1234.56", got)
	}
}

func TestBaseUnitsToFloat_NilIsZero(t *testing.T) {
	if got := BaseUnitsToFloat(nil, 18); got != 0 {
		t.Fatalf("got %v want 0", got)
	}
}

func TestBaseUnitsToDecimal_ExactPast53Bits(t *testing.T) {
	// 123456789012345678901234567 base units at 18 decimals. The integer
	// exceeds float64's exact range; the decimal conversion must not.
	amount, ok := new(big.Int).SetString("123456789012345678901234567", 10)
	if !ok {
		t.Fatal("SetString failed")
	}
	got := BaseUnitsToDecimal(amount, 18).Text('f')
	want := "123456789.012345678901234567"
	if got != want {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestWeiToEtherFloat(t *testing.T) {
	wei := big.NewInt(1_500_000_000_000_000_000) // 1.5 ether
	if got := WeiToEtherFloat(wei); got != 1.5 {
		t.Fatalf("got %v want 1.5", got)
	}
}

func TestUSDToBaseUnits_ParityRate(t *testing.T) {
	got, err := USDToBaseUnits(100.50, 1.0, 6)
	if err != nil {
		t.Fatalf("USDToBaseUnits: %v", err)
	}
	if got.Cmp(big.NewInt(100_500_000)) != 0 {
		t.Fatalf("got %s want 100500000", got)
	}
}

func TestUSDToBaseUnits_NonParityRate(t *testing.T) {
	// $4000 of a token worth $2000/unit with 18 decimals = 2 units.
	got, err := USDToBaseUnits(4000, 2000, 18)
	if err != nil {
		t.Fatalf("USDToBaseUnits: %v", err)
	}
	want, _ := new(big.Int).SetString("2000000000000000000", 10)
	if got.Cmp(want) != 0 {
		t.Fatalf("got %s want %s", got, want)
	}
}

func TestUSDToBaseUnits_NonPositiveRateFallsBackToParity(t *testing.T) {
	got, err := USDToBaseUnits(10, 0, 6)
	if err != nil {
		t.Fatalf("USDToBaseUnits: %v", err)
	}
	if got.Cmp(big.NewInt(10_000_000)) != 0 {
		t.Fatalf("got %s want 10000000", got)
	}
}

func TestFormatUSD_ThousandsGrouping(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{1234.5, "$1,234.50"},
		{1234567.891, "$1,234,567.89"},
		{-42.1, "-$42.10"},
	}
	for _, c := range cases {
		if got := FormatUSD(c.in); got != c.want {
			t.Fatalf("FormatUSD(%v): got %q want %q", c.in, got, c.want)
		}
	}
}

func TestFormatTokenAmount(t *testing.T) {
	cases := []struct {
		amount float64
		symbol string
		want   string
	}{
		{100, "USDC", "100.00 USDC"},
		{0.123456, "ETH", "0.123456 ETH"},
		{1.5, "DAI", "1.50 DAI"},
		{100, "", "100.00"},
	}
	for _, c := range cases {
		if got := FormatTokenAmount(c.amount, c.symbol); got != c.want {
			t.Fatalf("FormatTokenAmount(%v, %q): got %q want %q", c.amount, c.symbol, got, c.want)
		}
	}
}
