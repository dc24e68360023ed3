package flow

import (
	"strconv"
	"strings"
)

// PositiveAmount reports whether a user-entered amount string parses to a
// positive number. Thousands separators are tolerated.
func PositiveAmount(amount string) bool {
	v, ok := ParseAmount(amount)
	return ok && v > 0
}

// ParseAmount parses a user-entered decimal amount, stripping thousands
// separators.
func ParseAmount(amount string) (float64, bool) {
	s := strings.TrimSpace(strings.ReplaceAll(amount, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// StatusForAmount is the amount/status invariant as a standalone rule:
// entering a positive amount while idle moves to previewing; clearing or
// zeroing the amount while previewing forces idle. All other statuses pass
// through unchanged.
func StatusForAmount(current Status, amount string) Status {
	switch current {
	case StatusIdle:
		if PositiveAmount(amount) {
			return StatusPreviewing
		}
	case StatusPreviewing:
		if !PositiveAmount(amount) {
			return StatusIdle
		}
	}
	return current
}

// reduce is the pure transition function. It never mutates prev.
func reduce(prev State, action Action) State {
	next := prev.clone()
	switch a := action.(type) {
	case SetStep:
		next.Step = a.Step
		next.Direction = a.Direction
	case SetInputs:
		if a.Amount != nil {
			next.Inputs.Amount = *a.Amount
		}
		if a.SelectedToken != nil {
			next.Inputs.SelectedToken = *a.SelectedToken
		}
		if a.ToChainID != nil {
			next.Inputs.ToChainID = *a.ToChainID
		}
		if a.ToTokenAddress != nil {
			next.Inputs.ToTokenAddress = *a.ToTokenAddress
		}
		if a.ToAmount != nil {
			next.Inputs.ToAmount = a.ToAmount
		}
		next.Status = StatusForAmount(next.Status, next.Inputs.Amount)
		next.Err = ""
	case SetStatus:
		next.Status = a.Status
	case SetExplorerURLs:
		if a.Source != nil {
			next.ExplorerURLs.Source = *a.Source
		}
		if a.Destination != nil {
			next.ExplorerURLs.Destination = *a.Destination
		}
	case SetError:
		next.Err = a.Message
	case ClearError:
		next.Err = ""
	case SetSimulation:
		next.Simulation = a.Simulation
	case SetSimulationLoading:
		next.SimulationLoading = a.Loading
	case SetReceiveAmount:
		next.ReceiveAmount = a.Amount
	case SetSkipSwap:
		next.SkipSwap = a.Skip
	case SetIntentReady:
		next.IntentReady = a.Ready
	case SetSwapSkippedData:
		next.SwapSkippedData = a.Data
	case AddSourceSwap:
		next.SourceSwaps = append(next.SourceSwaps, a.Swap)
	case SetIntentExplorerURL:
		next.IntentExplorerURL = a.URL
	case SetDepositTxHash:
		next.DepositTxHash = a.Hash
	case SetActualGasFeeUSD:
		v := a.Fee
		next.ActualGasFeeUSD = &v
	case Reset:
		return NewState()
	}
	return next
}
