package flow

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

// Action is the closed set of state transitions. The reducer handles every
// variant; nothing else mutates State.
type Action interface {
	isAction()
}

// SetStep moves the flow to a screen. Legality of backward moves is the
// Machine's business (GoBack); the reducer applies what it is given.
type SetStep struct {
	Step      Step
	Direction Direction
}

// SetInputs merges a partial inputs update. Nil fields are left untouched.
// The reducer re-derives the status from the amount rule and clears any
// prior error.
type SetInputs struct {
	Amount         *string
	SelectedToken  *string
	ToChainID      *uint64
	ToTokenAddress *common.Address
	ToAmount       *big.Int
}

type SetStatus struct{ Status Status }

// SetExplorerURLs merges partial result links.
type SetExplorerURLs struct {
	Source      *string
	Destination *string
}

type SetError struct{ Message string }
type ClearError struct{}

type SetSimulation struct{ Simulation *Simulation }
type SetSimulationLoading struct{ Loading bool }
type SetReceiveAmount struct{ Amount string }
type SetSkipSwap struct{ Skip bool }
type SetIntentReady struct{ Ready bool }
type SetSwapSkippedData struct{ Data *sdk.SwapSkipped }
type AddSourceSwap struct{ Swap SourceSwap }
type SetIntentExplorerURL struct{ URL string }
type SetDepositTxHash struct{ Hash string }
type SetActualGasFeeUSD struct{ Fee float64 }

// Reset restores the initial state.
type Reset struct{}

func (SetStep) isAction()              {}
func (SetInputs) isAction()            {}
func (SetStatus) isAction()            {}
func (SetExplorerURLs) isAction()      {}
func (SetError) isAction()             {}
func (ClearError) isAction()           {}
func (SetSimulation) isAction()        {}
func (SetSimulationLoading) isAction() {}
func (SetReceiveAmount) isAction()     {}
func (SetSkipSwap) isAction()          {}
func (SetIntentReady) isAction()       {}
func (SetSwapSkippedData) isAction()   {}
func (AddSourceSwap) isAction()        {}
func (SetIntentExplorerURL) isAction() {}
func (SetDepositTxHash) isAction()     {}
func (SetActualGasFeeUSD) isAction()   {}
func (Reset) isAction()                {}
