package sdk

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ChainInfo identifies a chain within balance and quote payloads.
type ChainInfo struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

// TokenInfo identifies a token within quote payloads.
type TokenInfo struct {
	ContractAddress common.Address `json:"contractAddress"`
	Decimals        uint8          `json:"decimals"`
	Symbol          string         `json:"symbol"`
}

// Breakdown is one (chain) entry of a user's per-token balance.
//
// Balance is a decimal token-unit string (not base units); BalanceInFiat is
// the provider's USD valuation at fetch time.
type Breakdown struct {
	Chain           ChainInfo      `json:"chain"`
	Balance         string         `json:"balance"`
	BalanceInFiat   float64        `json:"balanceInFiat"`
	ContractAddress common.Address `json:"contractAddress"`
	Decimals        uint8          `json:"decimals,omitempty"`
}

// UserAsset is a per-token balance with its per-chain breakdown.
type UserAsset struct {
	Symbol        string      `json:"symbol"`
	Decimals      uint8       `json:"decimals"`
	Icon          string      `json:"icon,omitempty"`
	Balance       string      `json:"balance"`
	BalanceInFiat float64     `json:"balanceInFiat"`
	Breakdown     []Breakdown `json:"breakdown"`
}

// IntentSource is one funding source of a quoted route. Amount is in token
// base units and may exceed 64 bits.
type IntentSource struct {
	Chain  ChainInfo
	Token  TokenInfo
	Amount *big.Int
}

// IntentGas is the quote's destination gas estimate.
type IntentGas struct {
	Token  TokenInfo
	Amount *big.Int
}

// IntentDestination describes what the route delivers on the destination
// chain, after fees.
type IntentDestination struct {
	Chain  ChainInfo
	Token  TokenInfo
	Amount *big.Int
	Gas    *IntentGas
}

// IntentQuote is one proposed cross-chain route: sources consumed and the
// resulting destination delivery.
type IntentQuote struct {
	Sources     []IntentSource
	Destination IntentDestination
}

// TokenApproval is the ERC-20 approval required before the destination call.
type TokenApproval struct {
	Token   common.Address
	Amount  *big.Int
	Spender common.Address
}

// ExecuteParams is the destination-side contract call executed after
// bridging completes.
type ExecuteParams struct {
	To            common.Address
	Data          []byte
	Value         *big.Int
	TokenApproval TokenApproval
	Gas           uint64
}

// FromSource restricts the route to a specific (token, chain) funding entry.
type FromSource struct {
	TokenAddress common.Address
	ChainID      uint64
}

// SwapAndExecuteParams is the combined bridge-and-execute request.
type SwapAndExecuteParams struct {
	ToChainID      uint64
	ToTokenAddress common.Address
	ToAmount       *big.Int
	Execute        ExecuteParams
	// FromSources nil means the provider picks sources automatically.
	FromSources []FromSource
}

// SourceSwap is one source-chain transaction submitted while filling the
// route.
type SourceSwap struct {
	ChainID uint64
	TxHash  common.Hash
}

// SwapResult summarizes the bridging half of a completed request.
type SwapResult struct {
	ExplorerURL string
	SourceSwaps []SourceSwap
}

// Receipt carries the destination receipt fields needed for gas accounting.
// Values are base units (wei) and may exceed 64 bits.
type Receipt struct {
	GasUsed           *big.Int
	EffectiveGasPrice *big.Int
}

// ExecuteResponse summarizes the destination execution half.
type ExecuteResponse struct {
	TxHash  common.Hash
	Receipt *Receipt
}

// SwapAndExecuteResult is the resolution value of SwapAndExecute.
type SwapAndExecuteResult struct {
	SwapResult      *SwapResult
	ExecuteResponse *ExecuteResponse
}

// SwapSkippedDelivery is the destination side of a skipped swap: what the
// existing destination balance covers.
type SwapSkippedDelivery struct {
	Amount *big.Int
	Chain  ChainInfo
	Token  TokenInfo
}

// SwapSkippedInput is the input side of a skipped swap.
type SwapSkippedInput struct {
	Amount *big.Int
	Token  TokenInfo
}

// SwapSkippedGas is the gas estimate attached to a skipped swap. All values
// are wei.
type SwapSkippedGas struct {
	Required     *big.Int
	Price        *big.Int
	EstimatedFee *big.Int
}

// SwapSkipped is the provider's snapshot when bridging is unnecessary
// because the destination chain already holds sufficient balance.
type SwapSkipped struct {
	Destination SwapSkippedDelivery
	Input       SwapSkippedInput
	Gas         SwapSkippedGas
}
