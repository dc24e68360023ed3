// Package sdksim is a deterministic, in-process implementation of the
// bridging provider contract. It replays a scripted run: balances, rates,
// one quote, and a fixed outcome. The daemon uses it as its demo backend
// and tests use it to drive the engine without a network.
package sdksim

import (
	"context"
	"errors"
	"sync"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

var (
	ErrNotInitialized = errors.New("sdksim: not initialized")
	ErrDenied         = errors.New("sdksim: intent denied")
)

// Script fixes everything a run will do. Exactly one of Skip or Quote
// drives the run: a non-nil Skip takes the skipped-swap path.
type Script struct {
	SwapBalances   []sdk.UserAsset
	BridgeBalances []sdk.UserAsset
	// RatesPerUSD is quoted the way the provider quotes: native units per
	// USD, keyed by upper-case symbol.
	RatesPerUSD map[string]float64

	Quote sdk.IntentQuote
	// RefreshQuote, when set, is returned by intent refreshes instead of
	// Quote.
	RefreshQuote *sdk.IntentQuote
	RefreshErr   error

	Skip   *sdk.SwapSkipped
	Result sdk.SwapAndExecuteResult

	// FailBeforeIntent aborts the run before the intent is held open.
	FailBeforeIntent error
	// FailAfterAllow aborts the run after the user confirms.
	FailAfterAllow error
}

// Sim implements sdk.SDK against a Script.
type Sim struct {
	mu          sync.Mutex
	script      Script
	ready       bool
	initialized bool
	hook        sdk.IntentHook

	// call counters, inspected via CallCounts
	swapCalls    int
	bridgeCalls  int
	ratesCalls   int
	executeCalls int
}

// CallCounts returns a snapshot of the call counters.
func (s *Sim) CallCounts() (swap, bridge, rates, execute int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swapCalls, s.bridgeCalls, s.ratesCalls, s.executeCalls
}

func New(script Script) *Sim {
	return &Sim{script: script, ready: true}
}

// SetReady overrides the readiness flag, for exercising startup waits.
func (s *Sim) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

func (s *Sim) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *Sim) IsInitialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

func (s *Sim) Initialize(_ context.Context, provider sdk.Provider) error {
	if provider == nil {
		return errors.New("sdksim: nil wallet provider")
	}
	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()
	return nil
}

func (s *Sim) Deinit(context.Context) error {
	s.mu.Lock()
	s.initialized = false
	s.hook = nil
	s.mu.Unlock()
	return nil
}

func (s *Sim) BalancesForSwap(context.Context) ([]sdk.UserAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.swapCalls++
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return append([]sdk.UserAsset(nil), s.script.SwapBalances...), nil
}

func (s *Sim) BalancesForBridge(context.Context) ([]sdk.UserAsset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bridgeCalls++
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	return append([]sdk.UserAsset(nil), s.script.BridgeBalances...), nil
}

func (s *Sim) Rates(context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ratesCalls++
	if !s.initialized {
		return nil, ErrNotInitialized
	}
	out := make(map[string]float64, len(s.script.RatesPerUSD))
	for k, v := range s.script.RatesPerUSD {
		out[k] = v
	}
	return out, nil
}

func (s *Sim) SetOnSwapIntentHook(hook sdk.IntentHook) {
	s.mu.Lock()
	s.hook = hook
	s.mu.Unlock()
}

// SwapAndExecute replays the script synchronously in the caller's
// goroutine, blocking at the confirmation pause until the intent is allowed
// or denied.
func (s *Sim) SwapAndExecute(ctx context.Context, _ sdk.SwapAndExecuteParams, onEvent sdk.EventFunc) (sdk.SwapAndExecuteResult, error) {
	s.mu.Lock()
	s.executeCalls++
	script := s.script
	hook := s.hook
	initialized := s.initialized
	s.mu.Unlock()

	if !initialized {
		return sdk.SwapAndExecuteResult{}, ErrNotInitialized
	}
	emit := func(ev sdk.Event) {
		if onEvent != nil {
			onEvent(ev)
		}
	}

	if script.Skip != nil {
		emit(sdk.Event{Kind: sdk.EventStepsEnumerated, Steps: []sdk.Step{
			{Type: sdk.StepSwapSkipped, TypeID: string(sdk.StepSwapSkipped)},
			{Type: sdk.StepExecute, TypeID: string(sdk.StepExecute)},
		}})
		emit(sdk.Event{Kind: sdk.EventSwapSkipped, Skipped: script.Skip})
		emit(sdk.Event{Kind: sdk.EventStepComplete, Step: sdk.Step{Type: sdk.StepSwapSkipped, Completed: true}})
		emit(sdk.Event{Kind: sdk.EventStepComplete, Step: sdk.Step{Type: sdk.StepExecute, Completed: true}})
		return script.Result, nil
	}

	steps := make([]sdk.Step, len(sdk.ExpectedSteps))
	for i, t := range sdk.ExpectedSteps {
		steps[i] = sdk.Step{Type: t, TypeID: string(t)}
	}
	emit(sdk.Event{Kind: sdk.EventStepsEnumerated, Steps: steps})
	emit(sdk.Event{Kind: sdk.EventStepComplete, Step: sdk.Step{Type: sdk.StepDeterminingSwap, Completed: true}})

	if script.FailBeforeIntent != nil {
		return sdk.SwapAndExecuteResult{}, script.FailBeforeIntent
	}

	intent := newIntent(script)
	if hook != nil {
		hook(intent)
	}
	emit(sdk.Event{Kind: sdk.EventIntentResolved})

	select {
	case <-ctx.Done():
		return sdk.SwapAndExecuteResult{}, ctx.Err()
	case <-intent.denied:
		return sdk.SwapAndExecuteResult{}, ErrDenied
	case <-intent.allowed:
	}

	if script.FailAfterAllow != nil {
		return sdk.SwapAndExecuteResult{}, script.FailAfterAllow
	}

	for _, t := range sdk.ExpectedSteps[1:] {
		emit(sdk.Event{Kind: sdk.EventStepComplete, Step: sdk.Step{Type: t, Completed: true}})
	}
	return script.Result, nil
}
