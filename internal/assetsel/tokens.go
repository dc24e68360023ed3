package assetsel

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/chains"
	"github.com/omnivault/deposit-widget/internal/sdk"
)

// Category buckets a token row for preset classification.
type Category uint8

const (
	CategoryOther Category = iota
	CategoryStablecoin
	CategoryNative
)

var stablecoinSymbols = map[string]struct{}{
	"USDC": {},
	"USDT": {},
	"DAI":  {},
	"TUSD": {},
	"USDP": {},
}

// IsStablecoin reports whether symbol is one of the recognized stablecoins.
func IsStablecoin(symbol string) bool {
	_, ok := stablecoinSymbols[symbol]
	return ok
}

// Categorize buckets a token symbol: stablecoins first, then chain-native
// currencies, everything else CategoryOther.
func Categorize(symbol string) Category {
	if IsStablecoin(symbol) {
		return CategoryStablecoin
	}
	if chains.IsNativeSymbol(symbol) {
		return CategoryNative
	}
	return CategoryOther
}

// ChainEntry is one selectable (token, chain) funding source.
type ChainEntry struct {
	Key          string
	TokenAddress common.Address
	ChainID      uint64
	ChainName    string
	FiatValue    float64
	Amount       float64
}

// TokenRow groups a token's chain entries for selection UI purposes.
type TokenRow struct {
	Symbol   string
	Decimals uint8
	Category Category
	Chains   []ChainEntry
}

// Key builds the composite selection key for a (token, chain) entry.
func Key(tokenAddress common.Address, chainID uint64) string {
	return fmt.Sprintf("%s-%d", strings.ToLower(tokenAddress.Hex()), chainID)
}

// SplitKey parses a composite selection key. The token address may itself
// contain dashes in other providers' formats, so the chain id is taken from
// the final dash.
func SplitKey(key string) (common.Address, uint64, error) {
	i := strings.LastIndex(key, "-")
	if i <= 0 || i == len(key)-1 {
		return common.Address{}, 0, fmt.Errorf("assetsel: malformed key %q", key)
	}
	addr := key[:i]
	if !common.IsHexAddress(addr) {
		return common.Address{}, 0, fmt.Errorf("assetsel: malformed token address in key %q", key)
	}
	chainID, err := strconv.ParseUint(key[i+1:], 10, 64)
	if err != nil {
		return common.Address{}, 0, fmt.Errorf("assetsel: malformed chain id in key %q: %w", key, err)
	}
	return common.HexToAddress(addr), chainID, nil
}

// BuildRows flattens per-token balances into selection rows. Chain entries
// with no chain id or empty balance are skipped; each token's entries are
// sorted by fiat value descending.
func BuildRows(balances []sdk.UserAsset) []TokenRow {
	rows := make([]TokenRow, 0, len(balances))
	for _, asset := range balances {
		if len(asset.Breakdown) == 0 {
			continue
		}
		entries := make([]ChainEntry, 0, len(asset.Breakdown))
		for _, b := range asset.Breakdown {
			if b.Chain.ID == 0 || b.Balance == "" {
				continue
			}
			amount, err := strconv.ParseFloat(b.Balance, 64)
			if err != nil {
				continue
			}
			entries = append(entries, ChainEntry{
				Key:          Key(b.ContractAddress, b.Chain.ID),
				TokenAddress: b.ContractAddress,
				ChainID:      b.Chain.ID,
				ChainName:    b.Chain.Name,
				FiatValue:    b.BalanceInFiat,
				Amount:       amount,
			})
		}
		if len(entries) == 0 {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].FiatValue > entries[j].FiatValue
		})
		rows = append(rows, TokenRow{
			Symbol:   asset.Symbol,
			Decimals: asset.Decimals,
			Category: Categorize(asset.Symbol),
			Chains:   entries,
		})
	}
	return rows
}

// SelectedFiatTotal sums the fiat value of the selected entries across rows.
func SelectedFiatTotal(rows []TokenRow, selected map[string]struct{}) float64 {
	var total float64
	for _, row := range rows {
		for _, c := range row.Chains {
			if _, ok := selected[c.Key]; ok {
				total += c.FiatValue
			}
		}
	}
	return total
}
