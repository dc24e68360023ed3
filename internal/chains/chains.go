package chains

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Metadata describes a supported chain well enough to render results:
// explorer links for transactions and the native gas currency symbol.
type Metadata struct {
	ID           uint64
	Name         string
	ExplorerBase string
	NativeSymbol string
	Logo         string
}

var registry = map[uint64]Metadata{
	1:      {ID: 1, Name: "Ethereum", ExplorerBase: "https://etherscan.io", NativeSymbol: "ETH", Logo: "https://icons.llamao.fi/icons/chains/rsz_ethereum.jpg"},
	10:     {ID: 10, Name: "Optimism", ExplorerBase: "https://optimistic.etherscan.io", NativeSymbol: "ETH", Logo: "https://icons.llamao.fi/icons/chains/rsz_optimism.jpg"},
	56:     {ID: 56, Name: "BNB Chain", ExplorerBase: "https://bscscan.com", NativeSymbol: "BNB", Logo: "https://icons.llamao.fi/icons/chains/rsz_binance.jpg"},
	137:    {ID: 137, Name: "Polygon", ExplorerBase: "https://polygonscan.com", NativeSymbol: "POL", Logo: "https://icons.llamao.fi/icons/chains/rsz_polygon.jpg"},
	8453:   {ID: 8453, Name: "Base", ExplorerBase: "https://basescan.org", NativeSymbol: "ETH", Logo: "https://icons.llamao.fi/icons/chains/rsz_base.jpg"},
	42161:  {ID: 42161, Name: "Arbitrum One", ExplorerBase: "https://arbiscan.io", NativeSymbol: "ETH", Logo: "https://icons.llamao.fi/icons/chains/rsz_arbitrum.jpg"},
	43114:  {ID: 43114, Name: "Avalanche", ExplorerBase: "https://snowtrace.io", NativeSymbol: "AVAX", Logo: "https://icons.llamao.fi/icons/chains/rsz_avalanche.jpg"},
	59144:  {ID: 59144, Name: "Linea", ExplorerBase: "https://lineascan.build", NativeSymbol: "ETH", Logo: "https://icons.llamao.fi/icons/chains/rsz_linea.jpg"},
	534352: {ID: 534352, Name: "Scroll", ExplorerBase: "https://scrollscan.com", NativeSymbol: "ETH", Logo: "https://icons.llamao.fi/icons/chains/rsz_scroll.jpg"},
}

// Lookup returns the metadata for a chain id.
func Lookup(id uint64) (Metadata, bool) {
	m, ok := registry[id]
	return m, ok
}

// Name returns a human-readable chain name, falling back to "Chain <id>"
// for chains outside the registry.
func Name(id uint64) string {
	if m, ok := registry[id]; ok {
		return m.Name
	}
	return fmt.Sprintf("Chain %d", id)
}

// ExplorerTxURL builds a block-explorer link for a transaction. It returns
// "" when the chain has no known explorer.
func ExplorerTxURL(id uint64, txHash common.Hash) string {
	m, ok := registry[id]
	if !ok || m.ExplorerBase == "" {
		return ""
	}
	return m.ExplorerBase + "/tx/" + txHash.Hex()
}

// IsNativeSymbol reports whether symbol is the native gas currency of any
// supported chain.
func IsNativeSymbol(symbol string) bool {
	for _, m := range registry {
		if m.NativeSymbol == symbol {
			return true
		}
	}
	return false
}

// All returns the registry contents in unspecified order.
func All() []Metadata {
	out := make([]Metadata, 0, len(registry))
	for _, m := range registry {
		out = append(out, m)
	}
	return out
}
