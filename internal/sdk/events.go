package sdk

// StepType names one stage of a swap-and-execute run.
type StepType string

const (
	StepDeterminingSwap   StepType = "DETERMINING_SWAP"
	StepSwapSkipped       StepType = "SWAP_SKIPPED"
	StepAllowanceApproval StepType = "ALLOWANCE_APPROVAL"
	StepSourceSwap        StepType = "SOURCE_SWAP"
	StepBridgeTransfer    StepType = "BRIDGE_TRANSFER"
	StepDestinationSwap   StepType = "DESTINATION_SWAP"
	StepExecute           StepType = "EXECUTE"
)

// ExpectedSteps is the step sequence a normal (non-skipped) run walks
// through, in emission order.
var ExpectedSteps = []StepType{
	StepDeterminingSwap,
	StepAllowanceApproval,
	StepSourceSwap,
	StepBridgeTransfer,
	StepDestinationSwap,
	StepExecute,
}

// Step is one progress item reported by the provider.
type Step struct {
	Type      StepType
	TypeID    string
	Completed bool
}

// EventKind discriminates the closed set of provider events the engine
// reacts to. Anything else maps to EventUnknown and is ignored.
type EventKind uint8

const (
	EventUnknown EventKind = iota
	// EventStepsEnumerated carries the run's expected step list.
	EventStepsEnumerated
	// EventStepComplete marks one expected step as finished.
	EventStepComplete
	// EventIntentResolved means route determination finished and an intent
	// is held open for user confirmation.
	EventIntentResolved
	// EventSwapSkipped means no bridging is needed; Skipped carries the
	// snapshot of what the destination balance covers.
	EventSwapSkipped
)

func (k EventKind) String() string {
	switch k {
	case EventStepsEnumerated:
		return "steps_enumerated"
	case EventStepComplete:
		return "step_complete"
	case EventIntentResolved:
		return "intent_resolved"
	case EventSwapSkipped:
		return "swap_skipped"
	default:
		return "unknown"
	}
}

// Event is one provider callback. Exactly the fields relevant to Kind are
// set.
type Event struct {
	Kind    EventKind
	Steps   []Step
	Step    Step
	Skipped *SwapSkipped
}

// EventFunc receives provider events in emission order for a single
// SwapAndExecute call.
type EventFunc func(Event)
