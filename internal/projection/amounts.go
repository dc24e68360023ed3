// Package projection derives everything the render layer shows about money.
// All derivations are pure functions of machine state, selection state, and
// external balance/quote data.
//
// On-chain amounts arrive as base-unit integers of up to 256 bits. Any
// conversion to a display float scales by the token's decimal count in exact
// decimal arithmetic first and loses precision only at the final float
// conversion; compared or subtracted values never pass through an
// intermediate float.
package projection

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var decCtx = apd.BaseContext.WithPrecision(50)

// BaseUnitsToDecimal scales a base-unit amount by the token's decimals,
// exactly.
func BaseUnitsToDecimal(amount *big.Int, decimals uint8) *apd.Decimal {
	if amount == nil {
		return apd.New(0, 0)
	}
	coeff := new(apd.BigInt).SetMathBigInt(amount)
	return apd.NewWithBigInt(coeff, -int32(decimals))
}

// BaseUnitsToFloat converts a base-unit amount to a display float. The only
// precision loss is the final float conversion.
func BaseUnitsToFloat(amount *big.Int, decimals uint8) float64 {
	f, err := BaseUnitsToDecimal(amount, decimals).Float64()
	if err != nil {
		return 0
	}
	return f
}

// WeiToEtherFloat converts a wei amount to a native-unit float.
func WeiToEtherFloat(wei *big.Int) float64 {
	return BaseUnitsToFloat(wei, 18)
}

// USDToBaseUnits converts a USD amount to token base units at usdPerUnit,
// rounding to the token's decimal count. A non-positive rate values the
// token at parity.
func USDToBaseUnits(usd float64, usdPerUnit float64, decimals uint8) (*big.Int, error) {
	if usdPerUnit <= 0 {
		usdPerUnit = 1
	}
	u := new(apd.Decimal)
	if _, err := u.SetFloat64(usd); err != nil {
		return nil, fmt.Errorf("projection: usd amount: %w", err)
	}
	r := new(apd.Decimal)
	if _, err := r.SetFloat64(usdPerUnit); err != nil {
		return nil, fmt.Errorf("projection: rate: %w", err)
	}

	q := new(apd.Decimal)
	if _, err := decCtx.Quo(q, u, r); err != nil {
		return nil, fmt.Errorf("projection: usd to token amount: %w", err)
	}
	if _, err := decCtx.Quantize(q, q, -int32(decimals)); err != nil {
		return nil, fmt.Errorf("projection: quantize to %d decimals: %w", decimals, err)
	}

	units := q.Coeff.MathBigInt()
	out := new(big.Int).Set(units)
	if q.Negative {
		out.Neg(out)
	}
	return out, nil
}

// ParseTokenAmount parses a decimal token-unit string as reported in
// balance breakdowns.
func ParseTokenAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatUSD renders a USD amount with thousands grouping, e.g. "$1,234.56".
func FormatUSD(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	dot := strings.IndexByte(s, '.')
	whole, frac := s[:dot], s[dot:]
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteString(frac)
	return b.String()
}

// FormatTokenAmount renders a token amount with its symbol, trimming
// insignificant trailing zeros past two decimals.
func FormatTokenAmount(amount float64, symbol string) string {
	s := strconv.FormatFloat(amount, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	if i := strings.IndexByte(s, '.'); i >= 0 && len(s)-i-1 < 2 {
		s = strconv.FormatFloat(amount, 'f', 2, 64)
	}
	return strings.TrimSpace(s + " " + symbol)
}
