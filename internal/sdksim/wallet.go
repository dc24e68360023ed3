package sdksim

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Wallet is a minimal EIP-1193 provider for demo runs: it answers account
// and chain queries and rejects everything else.
type Wallet struct {
	Address common.Address
	ChainID uint64
}

func (w Wallet) Request(_ context.Context, method string, _ []any) (json.RawMessage, error) {
	switch method {
	case "eth_accounts", "eth_requestAccounts":
		return json.Marshal([]string{w.Address.Hex()})
	case "eth_chainId":
		return json.Marshal(fmt.Sprintf("0x%x", w.ChainID))
	default:
		return nil, fmt.Errorf("sdksim: wallet does not support %s", method)
	}
}
