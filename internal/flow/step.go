package flow

// Step identifies the widget screen the flow is on.
type Step string

const (
	StepAmount              Step = "amount"
	StepAssetSelection      Step = "asset-selection"
	StepConfirmation        Step = "confirmation"
	StepTransactionStatus   Step = "transaction-status"
	StepTransactionComplete Step = "transaction-complete"
	StepTransactionFailed   Step = "transaction-failed"
)

// backTargets is the static adjacency table for backward navigation. Steps
// missing from the table have no legal back target.
var backTargets = map[Step]Step{
	StepAssetSelection: StepAmount,
	StepConfirmation:   StepAmount,
}

// BackTarget returns the legal backward destination for a step.
func BackTarget(s Step) (Step, bool) {
	t, ok := backTargets[s]
	return t, ok
}

// Valid reports whether s is a member of the step enumeration.
func (s Step) Valid() bool {
	switch s {
	case StepAmount, StepAssetSelection, StepConfirmation,
		StepTransactionStatus, StepTransactionComplete, StepTransactionFailed:
		return true
	default:
		return false
	}
}

// Direction drives screen-transition animation only; it carries no business
// meaning.
type Direction string

const (
	DirectionNone     Direction = ""
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// Status is the transaction lifecycle tag.
type Status string

const (
	StatusIdle              Status = "idle"
	StatusPreviewing        Status = "previewing"
	StatusSimulationLoading Status = "simulation-loading"
	StatusExecuting         Status = "executing"
	StatusSuccess           Status = "success"
	StatusError             Status = "error"
)
