package projection

import (
	"math"
	"sort"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/assetsel"
	"github.com/omnivault/deposit-widget/internal/sdk"
)

// Asset is one flattened funding-source row.
type Asset struct {
	ChainID       uint64
	TokenAddress  common.Address
	Decimals      uint8
	Symbol        string
	Balance       string
	BalanceInFiat float64
	TokenLogo     string
	ChainLogo     string
	ChainName     string
}

// Key returns the row's composite selection key.
func (a Asset) Key() string {
	return assetsel.Key(a.TokenAddress, a.ChainID)
}

// AvailableAssets flattens per-token balances into rows, dropping entries
// with missing chains or non-positive/unparseable balances, sorted by fiat
// value descending. The sort is stable; ties keep input order.
func AvailableAssets(balances []sdk.UserAsset) []Asset {
	var items []Asset
	for _, asset := range balances {
		if len(asset.Breakdown) == 0 {
			continue
		}
		for _, b := range asset.Breakdown {
			if b.Chain.ID == 0 || b.Balance == "" {
				continue
			}
			amount, ok := ParseTokenAmount(b.Balance)
			if !ok || math.IsInf(amount, 0) || math.IsNaN(amount) || amount <= 0 {
				continue
			}
			decimals := b.Decimals
			if decimals == 0 {
				decimals = asset.Decimals
			}
			items = append(items, Asset{
				ChainID:       b.Chain.ID,
				TokenAddress:  b.ContractAddress,
				Decimals:      decimals,
				Symbol:        asset.Symbol,
				Balance:       b.Balance,
				BalanceInFiat: b.BalanceInFiat,
				TokenLogo:     asset.Icon,
				ChainLogo:     b.Chain.Logo,
				ChainName:     b.Chain.Name,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].BalanceInFiat > items[j].BalanceInFiat
	})
	return items
}

// TotalSelectedBalance sums the fiat value of rows whose composite key is
// selected.
func TotalSelectedBalance(assets []Asset, selected map[string]struct{}) float64 {
	var sum float64
	for _, a := range assets {
		if _, ok := selected[a.Key()]; ok {
			sum += a.BalanceInFiat
		}
	}
	return sum
}

// Totals is the all-assets balance ceiling used for amount validation.
type Totals struct {
	TokenAmount float64
	FiatValue   float64
}

// TotalBalance sums raw token amounts and fiat value across every
// funding-source asset, regardless of selection.
func TotalBalance(balances []sdk.UserAsset) Totals {
	var t Totals
	for _, asset := range balances {
		if v, ok := ParseTokenAmount(asset.Balance); ok {
			t.TokenAmount += v
		}
		t.FiatValue += asset.BalanceInFiat
	}
	return t
}

// DestinationBalance finds the user's existing balance entry for the
// destination (token, chain), if any.
func DestinationBalance(balances []sdk.UserAsset, tokenSymbol string, chainID uint64) *sdk.Breakdown {
	for _, asset := range balances {
		if asset.Symbol != tokenSymbol {
			continue
		}
		for i := range asset.Breakdown {
			if asset.Breakdown[i].Chain.ID == chainID {
				b := asset.Breakdown[i]
				return &b
			}
		}
	}
	return nil
}
