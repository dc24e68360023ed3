package projection

import (
	"math"

	"github.com/omnivault/deposit-widget/internal/chains"
	"github.com/omnivault/deposit-widget/internal/rates"
	"github.com/omnivault/deposit-widget/internal/sdk"
	"github.com/omnivault/deposit-widget/internal/vault"
)

// destinationBalanceEpsilon is the fiat threshold below which a
// destination-balance shortfall is not worth a synthetic source row.
const destinationBalanceEpsilon = 0.01

// SourceRow is one funding source shown on the confirmation screen.
// IsDestinationBalance marks the synthetic row attributing the shortfall to
// existing destination-chain balance.
type SourceRow struct {
	Asset
	IsDestinationBalance bool
}

// ConfirmationDetails is everything the confirmation screen shows.
type ConfirmationDetails struct {
	SourceLabel         string
	Sources             []SourceRow
	GasTokenSymbol      string
	EstimatedTime       string
	AmountSpentUSD      float64
	TotalFeeUSD         float64
	ReceiveTokenSymbol  string
	ReceiveAmount       string
	ReceiveAmountUSD    float64
	ReceiveTokenLogo    string
	ReceiveTokenChainID uint64
	DestinationChain    string
}

// ConfirmationInput collects the raw material for BuildConfirmation.
type ConfirmationInput struct {
	Destination vault.Destination
	// Quote is the live intent quote; nil until route determination
	// completes.
	Quote *sdk.IntentQuote
	// Skipped plus SkipSwap selects the swap-skipped branch.
	Skipped  *sdk.SwapSkipped
	SkipSwap bool
	// InputAmount is the user-entered USD amount string.
	InputAmount string
	Rates       rates.Table
	// Assets are the flattened funding-source rows for source matching.
	Assets []Asset
	// HasDestinationBalance reports whether the user holds the destination
	// token on the destination chain.
	HasDestinationBalance bool
}

func (in ConfirmationInput) label() string {
	if in.Destination.Label != "" {
		return in.Destination.Label
	}
	return "Deposit"
}

func (in ConfirmationInput) estimatedTime() string {
	if in.Destination.EstimatedTime != "" {
		return in.Destination.EstimatedTime
	}
	return "~30s"
}

// BuildConfirmation derives the confirmation breakdown from either the
// skipped-swap snapshot or the live quote. It returns nil when neither is
// available yet.
func BuildConfirmation(in ConfirmationInput) *ConfirmationDetails {
	if in.Skipped != nil && in.SkipSwap {
		return buildSkipped(in)
	}
	if in.Quote == nil {
		return nil
	}
	return buildFromQuote(in)
}

func buildSkipped(in ConfirmationInput) *ConfirmationDetails {
	dest := in.Skipped.Destination
	tokenAmount := BaseUnitsToFloat(dest.Amount, dest.Token.Decimals)
	receiveUSD := in.Rates.FiatValue(tokenAmount, dest.Token.Symbol)

	feeNative := WeiToEtherFloat(in.Skipped.Gas.EstimatedFee)
	gasUSD := in.Rates.FiatValue(feeNative, in.Destination.GasSymbol())

	return &ConfirmationDetails{
		SourceLabel:         in.label(),
		Sources:             []SourceRow{},
		GasTokenSymbol:      in.Destination.GasSymbol(),
		EstimatedTime:       in.estimatedTime(),
		AmountSpentUSD:      receiveUSD,
		TotalFeeUSD:         gasUSD,
		ReceiveTokenSymbol:  dest.Token.Symbol,
		ReceiveAmount:       FormatTokenAmount(tokenAmount, dest.Token.Symbol),
		ReceiveAmountUSD:    receiveUSD,
		ReceiveTokenLogo:    in.Destination.TokenLogo,
		ReceiveTokenChainID: dest.Chain.ID,
		DestinationChain:    dest.Chain.Name,
	}
}

func buildFromQuote(in ConfirmationInput) *ConfirmationDetails {
	// The user's requested amount is the ground-truth receive value; the
	// quote's internal bridge amount may be optimized lower.
	receiveUSD := 0.0
	if v, ok := ParseTokenAmount(stripCommas(in.InputAmount)); ok {
		receiveUSD = v
	}

	rate, ok := in.Rates.Rate(in.Destination.TokenSymbol)
	if !ok || rate <= 0 {
		rate = 1
	}
	receiveTokenAmount := receiveUSD / rate

	var sources []SourceRow
	var totalSpentUSD float64
	for _, src := range in.Quote.Sources {
		amount := BaseUnitsToFloat(src.Amount, src.Token.Decimals)
		usd := in.Rates.FiatValue(amount, src.Token.Symbol)
		totalSpentUSD += usd

		if match := findAsset(in.Assets, src.Chain.ID, src.Token.Symbol); match != nil {
			row := SourceRow{Asset: *match}
			row.Balance = BaseUnitsToDecimal(src.Amount, src.Token.Decimals).Text('f')
			row.BalanceInFiat = usd
			sources = append(sources, row)
		}
	}

	destSymbol := in.Quote.Destination.Token.Symbol
	if destSymbol == "" {
		destSymbol = in.Destination.TokenSymbol
	}
	destinationAmount := BaseUnitsToFloat(in.Quote.Destination.Amount, in.Quote.Destination.Token.Decimals)
	destinationUSD := in.Rates.FiatValue(destinationAmount, destSymbol)

	// Bridge/protocol fee, clamped: quote skew or float noise must never
	// show a negative fee.
	totalFeeUSD := math.Max(0, totalSpentUSD-destinationUSD)

	// Whatever the cross-chain sources do not cover comes out of existing
	// destination-chain balance.
	usedFromDestinationUSD := math.Max(0, receiveUSD-destinationUSD)
	if usedFromDestinationUSD > destinationBalanceEpsilon && in.HasDestinationBalance {
		usedTokenAmount := usedFromDestinationUSD / rate
		meta, _ := chains.Lookup(in.Destination.ChainID)
		sources = append(sources, SourceRow{
			Asset: Asset{
				ChainID:       in.Destination.ChainID,
				TokenAddress:  in.Destination.TokenAddress,
				Decimals:      in.Destination.TokenDecimals,
				Symbol:        in.Destination.TokenSymbol,
				Balance:       FormatTokenAmount(usedTokenAmount, ""),
				BalanceInFiat: usedFromDestinationUSD,
				TokenLogo:     in.Destination.TokenLogo,
				ChainLogo:     meta.Logo,
				ChainName:     meta.Name,
			},
			IsDestinationBalance: true,
		})
	}

	destinationChain := in.Quote.Destination.Chain.Name
	if destinationChain == "" {
		destinationChain = chains.Name(in.Destination.ChainID)
	}

	return &ConfirmationDetails{
		SourceLabel:         in.label(),
		Sources:             sources,
		GasTokenSymbol:      in.Destination.GasSymbol(),
		EstimatedTime:       in.estimatedTime(),
		AmountSpentUSD:      totalSpentUSD + usedFromDestinationUSD,
		TotalFeeUSD:         totalFeeUSD,
		ReceiveTokenSymbol:  in.Destination.TokenSymbol,
		ReceiveAmount:       FormatTokenAmount(receiveTokenAmount, in.Destination.TokenSymbol),
		ReceiveAmountUSD:    receiveUSD,
		ReceiveTokenLogo:    in.Destination.TokenLogo,
		ReceiveTokenChainID: in.Destination.ChainID,
		DestinationChain:    destinationChain,
	}
}

func findAsset(assets []Asset, chainID uint64, symbol string) *Asset {
	for i := range assets {
		if assets[i].ChainID == chainID && assets[i].Symbol == symbol {
			a := assets[i]
			return &a
		}
	}
	return nil
}

func stripCommas(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != ',' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
