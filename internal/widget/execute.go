package widget

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/assetsel"
	"github.com/omnivault/deposit-widget/internal/chains"
	"github.com/omnivault/deposit-widget/internal/diag"
	"github.com/omnivault/deposit-widget/internal/flow"
	"github.com/omnivault/deposit-widget/internal/projection"
	"github.com/omnivault/deposit-widget/internal/sdk"
)

// HandleAmountContinue validates the entered amount, encodes the vault
// deposit call, moves to the confirmation screen in its loading state, and
// launches the provider run in the background.
func (w *Widget) HandleAmountContinue(ctx context.Context) error {
	snap := w.machine.Snapshot()
	usd, ok := flow.ParseAmount(snap.Inputs.Amount)
	if !ok || usd <= 0 {
		return ErrNoAmount
	}

	w.mu.Lock()
	account := w.account
	inFlight := w.inFlight
	w.mu.Unlock()
	if account == (common.Address{}) {
		return ErrNoAccount
	}
	if inFlight {
		return ErrRunInFlight
	}

	dest := w.cfg.Destination
	rate, ok := w.cfg.Session.Rates().Rate(dest.TokenSymbol)
	if !ok || rate <= 0 {
		return ErrMissingRate
	}
	toAmount, err := projection.USDToBaseUnits(usd, rate, dest.TokenDecimals)
	if err != nil {
		return fmt.Errorf("widget: convert amount: %w", err)
	}

	payload, err := w.cfg.EncodeDeposit(dest.TokenSymbol, dest.TokenAddress, toAmount, dest.ChainID, account)
	if err != nil {
		return fmt.Errorf("widget: encode deposit: %w", err)
	}

	w.machine.DispatchAll(
		flow.SetInputs{
			ToChainID:      &dest.ChainID,
			ToTokenAddress: &dest.TokenAddress,
			ToAmount:       toAmount,
		},
		flow.SetStatus{Status: flow.StatusSimulationLoading},
		flow.SetSimulationLoading{Loading: true},
		flow.SetStep{Step: flow.StepConfirmation, Direction: flow.DirectionForward},
	)

	params := sdk.SwapAndExecuteParams{
		ToChainID:      dest.ChainID,
		ToTokenAddress: dest.TokenAddress,
		ToAmount:       toAmount,
		Execute: sdk.ExecuteParams{
			To:            payload.To,
			Data:          payload.Data,
			Value:         payload.Value,
			TokenApproval: payload.TokenApproval,
			Gas:           w.cfg.ExecuteGasLimit,
		},
		FromSources: w.fromSources(),
	}
	w.start(ctx, params)
	return nil
}

// fromSources translates the selected composite keys into provider funding
// restrictions. An empty selection means no restriction.
func (w *Widget) fromSources() []sdk.FromSource {
	keys := w.selection.SelectedKeys()
	if len(keys) == 0 {
		return nil
	}
	sources := make([]sdk.FromSource, 0, len(keys))
	for key := range keys {
		addr, chainID, err := assetsel.SplitKey(key)
		if err != nil {
			w.cfg.Log.Warn("skip malformed selection key", "key", key, "err", err)
			continue
		}
		sources = append(sources, sdk.FromSource{TokenAddress: addr, ChainID: chainID})
	}
	return sources
}

// start launches the provider run on its own goroutine. The run's
// generation is captured so results from an abandoned run are dropped.
func (w *Widget) start(ctx context.Context, params sdk.SwapAndExecuteParams) {
	w.mu.Lock()
	if w.inFlight {
		w.mu.Unlock()
		return
	}
	w.inFlight = true
	gen := w.generation
	w.mu.Unlock()

	w.tracker.Seed(sdk.ExpectedSteps)
	w.cfg.Sink.Push(diag.LevelEvent, "Widget", "starting deposit run", map[string]any{
		"toChainId": params.ToChainID,
		"toAmount":  params.ToAmount.String(),
		"sources":   len(params.FromSources),
	})

	go func() {
		defer func() {
			if r := recover(); r != nil {
				w.onReject(ctx, gen, fmt.Errorf("widget: provider panic: %v", r))
			}
			w.mu.Lock()
			w.inFlight = false
			w.mu.Unlock()
		}()

		result, err := w.cfg.Session.Provider().SwapAndExecute(ctx, params, func(ev sdk.Event) {
			w.onEvent(gen, ev)
		})
		if err != nil {
			w.onReject(ctx, gen, err)
		} else {
			w.onResolve(ctx, gen, result)
		}
		// Balances changed either way.
		w.refreshBalances(ctx)
	}()
}

// onEvent applies one provider progress event to the flow state.
func (w *Widget) onEvent(gen uint64, ev sdk.Event) {
	if w.stale(gen) {
		return
	}
	switch ev.Kind {
	case sdk.EventStepsEnumerated:
		w.tracker.Replace(ev.Steps)

	case sdk.EventStepComplete:
		w.tracker.MarkComplete(ev.Step.Type)
		w.cfg.Sink.Push(diag.LevelEvent, "Widget", "step complete", map[string]any{
			"step": string(ev.Step.Type),
		})

	case sdk.EventSwapSkipped:
		// Destination balance already covers the deposit: no bridging, no
		// confirmation pause. Jump straight to execution.
		w.mu.Lock()
		w.initialSimulationDone = true
		w.determiningSwapComplete = true
		w.pollingEnabled = false
		w.mu.Unlock()
		w.machine.DispatchAll(
			flow.SetSwapSkippedData{Data: ev.Skipped},
			flow.SetSkipSwap{Skip: true},
			flow.SetSimulationLoading{Loading: false},
			flow.SetStatus{Status: flow.StatusExecuting},
			flow.SetStep{Step: flow.StepTransactionStatus, Direction: flow.DirectionForward},
		)
		w.watch.Restart()
		w.cfg.Sink.Push(diag.LevelEvent, "Widget", "swap skipped, executing directly", nil)

	case sdk.EventIntentResolved:
		w.mu.Lock()
		w.determiningSwapComplete = true
		w.mu.Unlock()
		w.machine.Dispatch(flow.SetIntentReady{Ready: true})
		w.maybeFinishSimulation(gen)
	}
}

// maybeFinishSimulation publishes the preview once route determination is
// complete and the held intent has arrived. Safe to call more than once.
func (w *Widget) maybeFinishSimulation(gen uint64) {
	if w.stale(gen) {
		return
	}
	w.mu.Lock()
	done := w.determiningSwapComplete
	w.mu.Unlock()
	if !done {
		return
	}
	intent, ok := w.cfg.Session.Intent().Get()
	if !ok {
		return
	}
	quote, _ := w.cfg.Session.Intent().Quote()

	w.mu.Lock()
	w.initialSimulationDone = true
	w.pollingEnabled = true
	w.mu.Unlock()

	w.machine.DispatchAll(
		flow.SetSimulation{Simulation: &flow.Simulation{Intent: intent, Quote: quote}},
		flow.SetSimulationLoading{Loading: false},
		flow.SetStatus{Status: flow.StatusPreviewing},
		flow.SetReceiveAmount{Amount: w.receiveAmountFromQuote(quote)},
	)
	w.cfg.Sink.Push(diag.LevelSuccess, "Widget", "simulation ready", nil)
}

func (w *Widget) receiveAmountFromQuote(q sdk.IntentQuote) string {
	dest := q.Destination
	if dest.Amount == nil {
		return ""
	}
	amount := projection.BaseUnitsToFloat(dest.Amount, dest.Token.Decimals)
	return projection.FormatTokenAmount(amount, "")
}

// HandleConfirmOrder resumes the held intent: the provider continues the
// run past its confirmation pause.
func (w *Widget) HandleConfirmOrder() error {
	snap := w.machine.Snapshot()
	if snap.Status != flow.StatusPreviewing {
		return ErrNotConfirmable
	}
	intent, ok := w.cfg.Session.Intent().Get()
	if !ok {
		return ErrNoIntent
	}

	w.mu.Lock()
	w.pollingEnabled = false
	w.mu.Unlock()

	w.machine.DispatchAll(
		flow.SetStatus{Status: flow.StatusExecuting},
		flow.SetStep{Step: flow.StepTransactionStatus, Direction: flow.DirectionForward},
	)
	w.watch.Restart()
	w.cfg.Sink.Push(diag.LevelEvent, "Widget", "order confirmed", nil)
	intent.Allow()
	return nil
}

// RefreshSimulation re-quotes the held intent, throttled to one refresh per
// RefreshMinInterval.
func (w *Widget) RefreshSimulation(ctx context.Context) error {
	intent, ok := w.cfg.Session.Intent().Get()
	if !ok {
		return ErrNoIntent
	}

	now := w.cfg.Now()
	w.mu.Lock()
	if !w.lastRefresh.IsZero() && now.Sub(w.lastRefresh) < w.cfg.RefreshMinInterval {
		w.mu.Unlock()
		return nil
	}
	w.lastRefresh = now
	gen := w.generation
	w.mu.Unlock()

	w.machine.Dispatch(flow.SetSimulationLoading{Loading: true})
	quote, err := intent.Refresh(ctx)
	if err != nil {
		w.machine.Dispatch(flow.SetSimulationLoading{Loading: false})
		if IsNumericRangeDefect(err) {
			w.cfg.Sink.Push(diag.LevelWarn, "Widget", "quote refresh hit numeric range limit", map[string]any{
				"err": err.Error(),
			})
			return nil
		}
		return fmt.Errorf("widget: refresh quote: %w", err)
	}
	if w.stale(gen) {
		return nil
	}

	w.cfg.Session.Intent().SetQuote(quote)
	w.machine.DispatchAll(
		flow.SetSimulation{Simulation: &flow.Simulation{Intent: intent, Quote: quote}},
		flow.SetSimulationLoading{Loading: false},
		flow.SetReceiveAmount{Amount: w.receiveAmountFromQuote(quote)},
	)
	return nil
}

// onResolve records a completed run: explorer links, deposit hash, actual
// gas cost, and the terminal success state.
func (w *Widget) onResolve(ctx context.Context, gen uint64, result sdk.SwapAndExecuteResult) {
	if w.stale(gen) {
		return
	}

	var actions []flow.Action
	if swap := result.SwapResult; swap != nil {
		for _, s := range swap.SourceSwaps {
			actions = append(actions, flow.AddSourceSwap{Swap: flow.SourceSwap{
				ChainID:     s.ChainID,
				ChainName:   chains.Name(s.ChainID),
				ExplorerURL: chains.ExplorerTxURL(s.ChainID, s.TxHash),
			}})
		}
		if swap.ExplorerURL != "" {
			actions = append(actions, flow.SetIntentExplorerURL{URL: swap.ExplorerURL})
		}
		if len(swap.SourceSwaps) > 0 {
			src := chains.ExplorerTxURL(swap.SourceSwaps[0].ChainID, swap.SourceSwaps[0].TxHash)
			actions = append(actions, flow.SetExplorerURLs{Source: &src})
		}
	}
	if exec := result.ExecuteResponse; exec != nil {
		actions = append(actions, flow.SetDepositTxHash{Hash: exec.TxHash.Hex()})
		destURL := chains.ExplorerTxURL(w.cfg.Destination.ChainID, exec.TxHash)
		actions = append(actions, flow.SetExplorerURLs{Destination: &destURL})
		if fee, ok := projection.ReceiptGasFeeUSD(exec.Receipt, w.cfg.Destination.GasSymbol(), w.cfg.Session.Rates()); ok {
			actions = append(actions, flow.SetActualGasFeeUSD{Fee: fee})
		}
	}
	if quote, ok := w.cfg.Session.Intent().Quote(); ok {
		actions = append(actions, flow.SetReceiveAmount{Amount: w.receiveAmountFromQuote(quote)})
	}
	actions = append(actions,
		flow.SetStatus{Status: flow.StatusSuccess},
		flow.SetStep{Step: flow.StepTransactionComplete, Direction: flow.DirectionForward},
	)
	w.machine.DispatchAll(actions...)

	w.mu.Lock()
	w.pollingEnabled = false
	w.mu.Unlock()
	w.watch.Stop()

	w.cfg.Sink.Push(diag.LevelSuccess, "Widget", "deposit complete", nil)
	if w.cfg.OnSuccess != nil {
		w.cfg.OnSuccess()
	}
}

// onReject records a failed run. Numeric-range defects are diagnostics
// only: the visible state never enters error because of them. Real failures
// route to the failed screen once a preview has been shown, otherwise back
// to the amount screen.
func (w *Widget) onReject(ctx context.Context, gen uint64, err error) {
	if w.stale(gen) {
		return
	}

	w.mu.Lock()
	simDone := w.initialSimulationDone
	w.pollingEnabled = false
	w.mu.Unlock()
	w.watch.Stop()

	if IsNumericRangeDefect(err) {
		w.cfg.Sink.Push(diag.LevelWarn, "Widget", "provider numeric range limit, suppressed", map[string]any{
			"err": err.Error(),
		})
		w.cfg.Log.Warn("provider numeric range limit", "err", err)
		if !simDone {
			// Nothing was ever shown; quietly return to the amount screen.
			w.machine.DispatchAll(
				flow.SetSimulationLoading{Loading: false},
				flow.SetStatus{Status: flow.StatusIdle},
				flow.SetInputs{},
				flow.SetStep{Step: flow.StepAmount, Direction: flow.DirectionBackward},
			)
		} else {
			w.machine.Dispatch(flow.SetSimulationLoading{Loading: false})
		}
		return
	}

	msg := NormalizeError(err)
	actions := []flow.Action{
		flow.SetSimulationLoading{Loading: false},
		flow.SetError{Message: msg},
		flow.SetStatus{Status: flow.StatusError},
	}
	if simDone {
		actions = append(actions, flow.SetStep{Step: flow.StepTransactionFailed, Direction: flow.DirectionForward})
	} else {
		actions = append(actions, flow.SetStep{Step: flow.StepAmount, Direction: flow.DirectionBackward})
	}
	w.machine.DispatchAll(actions...)

	w.cfg.Sink.Push(diag.LevelError, "Widget", "deposit failed", map[string]any{"err": msg})
	w.cfg.Log.Error("deposit run failed", "err", err)
	if w.cfg.OnError != nil {
		w.cfg.OnError(err)
	}
}
