// Package widget is the deposit flow's orchestration engine: it owns the
// step machine and the asset selection, drives the bridging provider's
// swap-and-execute run, and exposes a consolidated view for the render
// layer.
package widget

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/assetsel"
	"github.com/omnivault/deposit-widget/internal/diag"
	"github.com/omnivault/deposit-widget/internal/flow"
	"github.com/omnivault/deposit-widget/internal/sdk"
	"github.com/omnivault/deposit-widget/internal/session"
	"github.com/omnivault/deposit-widget/internal/vault"
)

var (
	ErrNoAccount      = errors.New("widget: no connected account")
	ErrNoAmount       = errors.New("widget: amount must be a positive number")
	ErrNoIntent       = errors.New("widget: no held intent to act on")
	ErrRunInFlight    = errors.New("widget: a deposit run is already in flight")
	ErrInvalidStep    = errors.New("widget: unknown step")
	ErrNotConfirmable = errors.New("widget: nothing staged for confirmation")
	ErrMissingRate    = errors.New("widget: no exchange rate for destination token")
)

const (
	defaultPollInterval       = 15 * time.Second
	defaultRefreshMinInterval = 5 * time.Second
	defaultExecuteGasLimit    = 200_000
)

// Config wires a Widget. Session, Destination, and EncodeDeposit are
// required; everything else has defaults.
type Config struct {
	Session     *session.Session
	Destination vault.Destination
	// EncodeDeposit builds the destination vault call for a given amount.
	EncodeDeposit vault.DepositEncoder

	Log  *slog.Logger
	Sink *diag.Sink

	// OnSuccess and OnError fire on terminal outcomes, after state is
	// updated. Either may be nil.
	OnSuccess func()
	OnError   func(error)

	// Now overrides the clock, for tests.
	Now func() time.Time

	// PollInterval is the quote re-simulation cadence while previewing.
	PollInterval time.Duration
	// RefreshMinInterval throttles manual quote refreshes.
	RefreshMinInterval time.Duration
	// ExecuteGasLimit is the gas limit sent with the destination call.
	ExecuteGasLimit uint64
}

func (c *Config) validate() error {
	if c.Session == nil {
		return errors.New("widget: nil session")
	}
	if c.EncodeDeposit == nil {
		return errors.New("widget: nil deposit encoder")
	}
	if c.Destination.ChainID == 0 {
		return errors.New("widget: destination chain id must be set")
	}
	if c.Destination.TokenSymbol == "" {
		return errors.New("widget: destination token symbol must be set")
	}
	return nil
}

func (c *Config) withDefaults() {
	if c.Log == nil {
		c.Log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if c.Sink == nil {
		c.Sink = diag.NewSink(0)
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.RefreshMinInterval <= 0 {
		c.RefreshMinInterval = defaultRefreshMinInterval
	}
	if c.ExecuteGasLimit == 0 {
		c.ExecuteGasLimit = defaultExecuteGasLimit
	}
}

// Widget drives one deposit flow. All exported methods are safe for
// concurrent use.
type Widget struct {
	cfg       Config
	machine   *flow.Machine
	selection *assetsel.Store
	tracker   stepTracker
	watch     stopwatch

	mu      sync.Mutex
	account common.Address
	// generation stamps each run; callbacks from a superseded run are
	// discarded.
	generation uint64
	inFlight   bool
	// initialSimulationDone latches once a first quote (or a skipped-swap
	// snapshot) has been shown; it decides whether failures route to the
	// failed screen or back to the amount screen.
	initialSimulationDone   bool
	determiningSwapComplete bool
	pollingEnabled          bool
	lastRefresh             time.Time
}

func New(cfg Config) (*Widget, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.withDefaults()
	w := &Widget{
		cfg:       cfg,
		machine:   flow.NewMachine(),
		selection: assetsel.NewStore(),
	}
	w.watch.now = cfg.Now
	return w, nil
}

// SetAccount binds the connected wallet address used as depositor.
func (w *Widget) SetAccount(addr common.Address) {
	w.mu.Lock()
	w.account = addr
	w.mu.Unlock()
}

// Machine exposes the step machine for read access.
func (w *Widget) Machine() *flow.Machine { return w.machine }

// Selection exposes the asset-selection store.
func (w *Widget) Selection() *assetsel.Store { return w.selection }

// Steps returns the current run's progress checklist.
func (w *Widget) Steps() []sdk.Step { return w.tracker.List() }

// Elapsed returns how long the current or last run has been executing.
func (w *Widget) Elapsed() time.Duration { return w.watch.Elapsed() }

// SetInputs merges a partial inputs update into the machine.
func (w *Widget) SetInputs(update flow.SetInputs) flow.State {
	return w.machine.Dispatch(update)
}

// GoBack navigates to the current step's back target if one exists. Leaving
// the confirmation screen abandons any held intent.
func (w *Widget) GoBack(ctx context.Context) (flow.Step, bool) {
	snap := w.machine.Snapshot()
	target, ok := w.machine.GoBack()
	if !ok {
		return target, false
	}
	if snap.Step == flow.StepConfirmation {
		w.abandonIntent(ctx)
	}
	return target, true
}

// GoToStep navigates forward. Moving from the amount screen to confirmation
// kicks off the deposit run; other forward moves are plain screen changes.
func (w *Widget) GoToStep(ctx context.Context, step flow.Step) error {
	if !step.Valid() {
		return ErrInvalidStep
	}
	snap := w.machine.Snapshot()
	if snap.Step == flow.StepAmount && step == flow.StepConfirmation {
		return w.HandleAmountContinue(ctx)
	}
	w.machine.Dispatch(flow.SetStep{Step: step, Direction: flow.DirectionForward})
	return nil
}

// abandonIntent denies and discards the held intent and clears everything
// staged from it. The generation bump happens before the deny so the dying
// run's rejection is already stale when it lands.
func (w *Widget) abandonIntent(ctx context.Context) {
	w.mu.Lock()
	w.generation++
	w.inFlight = false
	w.initialSimulationDone = false
	w.determiningSwapComplete = false
	w.pollingEnabled = false
	w.mu.Unlock()

	if intent, ok := w.cfg.Session.Intent().Get(); ok {
		intent.Deny()
	}
	w.cfg.Session.Intent().Clear()

	w.tracker.Reset()
	w.watch.Reset()
	w.machine.DispatchAll(
		flow.SetSimulation{Simulation: nil},
		flow.SetSimulationLoading{Loading: false},
		flow.SetIntentReady{Ready: false},
		flow.SetSkipSwap{Skip: false},
		flow.SetSwapSkippedData{Data: nil},
		flow.SetStatus{Status: flow.StatusIdle},
		// re-derives previewing from the amount rule
		flow.SetInputs{},
	)
	w.refreshBalances(ctx)
}

// Reset restores every store to its initial state and invalidates any
// in-flight run.
func (w *Widget) Reset(ctx context.Context) {
	w.mu.Lock()
	w.generation++
	w.inFlight = false
	w.initialSimulationDone = false
	w.determiningSwapComplete = false
	w.pollingEnabled = false
	w.lastRefresh = time.Time{}
	w.mu.Unlock()

	if intent, ok := w.cfg.Session.Intent().Get(); ok {
		intent.Deny()
	}
	w.cfg.Session.Intent().Clear()

	w.tracker.Reset()
	w.watch.Reset()
	w.machine.Dispatch(flow.Reset{})
	w.selection.Reset()
	w.refreshBalances(ctx)
}

// Run drives the background quote-refresh poll until ctx is done. Refreshes
// fire only while a preview is live.
func (w *Widget) Run(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.mu.Lock()
			enabled := w.pollingEnabled
			w.mu.Unlock()
			if !enabled {
				continue
			}
			if err := w.RefreshSimulation(ctx); err != nil {
				w.cfg.Log.Warn("poll quote refresh", "err", err)
			}
		}
	}
}

// refreshBalances refetches funding-source balances and runs the one-time
// auto-selection. Failures are logged and otherwise ignored.
func (w *Widget) refreshBalances(ctx context.Context) {
	if err := w.cfg.Session.RefreshSwapBalance(ctx); err != nil {
		w.cfg.Log.Warn("refresh swap balances", "err", err)
		return
	}
	if w.selection.AutoSelect(w.cfg.Session.SwapBalance()) {
		w.cfg.Sink.Push(diag.LevelInfo, "Widget", "auto-selected all funding sources", nil)
	}
}

func (w *Widget) stale(gen uint64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return gen != w.generation
}
