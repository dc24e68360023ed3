// Package flow is the deposit flow's finite-state machine: the authoritative
// step sequencing and the single source of truth for transaction status,
// results, and errors. Mutations happen only through serialized dispatches
// of a closed action set against a pure reducer.
package flow

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

// DefaultToken is the initial destination token selection.
const DefaultToken = "USDC"

// Inputs is the user-entered half of the state. Amount is a decimal string
// in USD; empty means unset.
type Inputs struct {
	Amount         string
	SelectedToken  string
	ToChainID      uint64
	ToTokenAddress common.Address
	ToAmount       *big.Int
}

// ExplorerURLs are the result links shown on the terminal screens.
type ExplorerURLs struct {
	Source      string
	Destination string
}

// SourceSwap records one source-chain transaction observed during a run.
type SourceSwap struct {
	ChainID     uint64
	ChainName   string
	ExplorerURL string
}

// Simulation wraps the latest held intent and its quote.
type Simulation struct {
	Intent sdk.SwapIntent
	Quote  sdk.IntentQuote
}

// State is the machine's full contents. It is owned by Machine; consumers
// only ever see snapshots.
type State struct {
	Step   Step
	Inputs Inputs
	Status Status

	ExplorerURLs ExplorerURLs
	// SourceSwaps is append-only during a run and cleared on reset.
	SourceSwaps       []SourceSwap
	IntentExplorerURL string
	DepositTxHash     string
	ActualGasFeeUSD   *float64

	Err       string
	Direction Direction

	Simulation        *Simulation
	SimulationLoading bool
	ReceiveAmount     string
	SkipSwap          bool
	IntentReady       bool
	SwapSkippedData   *sdk.SwapSkipped
}

// NewState returns the fresh initial state.
func NewState() State {
	return State{
		Step:   StepAmount,
		Inputs: Inputs{SelectedToken: DefaultToken},
		Status: StatusIdle,
	}
}

func (s State) clone() State {
	out := s
	out.SourceSwaps = append([]SourceSwap(nil), s.SourceSwaps...)
	if s.ActualGasFeeUSD != nil {
		v := *s.ActualGasFeeUSD
		out.ActualGasFeeUSD = &v
	}
	return out
}
