package projection

import (
	"math/big"

	"github.com/omnivault/deposit-widget/internal/rates"
	"github.com/omnivault/deposit-widget/internal/sdk"
)

// FeeBreakdown is the gas-fee summary for display.
type FeeBreakdown struct {
	TotalGasFeeUSD float64
	GasUSD         float64
	GasFormatted   string
}

// ReceiptGasFeeUSD computes the actual on-chain gas cost from a receipt:
// gasUsed × effectiveGasPrice in wei, converted through the native gas
// token's exchange rate. The multiplication stays in integer arithmetic.
func ReceiptGasFeeUSD(r *sdk.Receipt, gasSymbol string, table rates.Table) (float64, bool) {
	if r == nil || r.GasUsed == nil || r.EffectiveGasPrice == nil {
		return 0, false
	}
	costWei := new(big.Int).Mul(r.GasUsed, r.EffectiveGasPrice)
	return table.FiatValue(WeiToEtherFloat(costWei), gasSymbol), true
}

// FeeInput collects the three candidate fee sources in priority order:
// actual receipt cost, skipped-swap estimate, quote estimate. Exactly one is
// active.
type FeeInput struct {
	ActualGasFeeUSD *float64
	Skipped         *sdk.SwapSkipped
	SkipSwap        bool
	Quote           *sdk.IntentQuote
	GasTokenSymbol  string
	Rates           rates.Table
}

// BuildFeeBreakdown derives the gas-fee display values.
func BuildFeeBreakdown(in FeeInput) FeeBreakdown {
	if in.ActualGasFeeUSD != nil {
		return breakdown(*in.ActualGasFeeUSD)
	}

	if in.Skipped != nil && in.SkipSwap {
		feeNative := WeiToEtherFloat(in.Skipped.Gas.EstimatedFee)
		return breakdown(in.Rates.FiatValue(feeNative, in.GasTokenSymbol))
	}

	if in.Quote == nil || in.Quote.Destination.Gas == nil {
		return FeeBreakdown{GasFormatted: "0"}
	}
	gas := in.Quote.Destination.Gas
	decimals := gas.Token.Decimals
	if decimals == 0 {
		decimals = 18
	}
	symbol := gas.Token.Symbol
	if symbol == "" {
		symbol = in.GasTokenSymbol
	}
	amount := BaseUnitsToFloat(gas.Amount, decimals)
	return breakdown(in.Rates.FiatValue(amount, symbol))
}

func breakdown(usd float64) FeeBreakdown {
	return FeeBreakdown{
		TotalGasFeeUSD: usd,
		GasUSD:         usd,
		GasFormatted:   FormatUSD(usd),
	}
}
