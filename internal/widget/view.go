package widget

import (
	"github.com/omnivault/deposit-widget/internal/assetsel"
	"github.com/omnivault/deposit-widget/internal/flow"
	"github.com/omnivault/deposit-widget/internal/projection"
	"github.com/omnivault/deposit-widget/internal/sdk"
)

// View is the consolidated read model: everything a render layer needs,
// derived in one pass from the machine, the selection, and the session
// caches.
type View struct {
	State     flow.State
	Selection assetsel.State

	// Assets are the flattened funding-source rows, fiat-descending.
	Assets []projection.Asset
	// TokenRows is the grouped asset-selection listing.
	TokenRows []assetsel.TokenRow
	// TotalSelectedUSD sums the fiat value of the selected sources.
	TotalSelectedUSD float64
	// Totals is the all-assets ceiling for amount validation.
	Totals projection.Totals

	// Confirmation is nil until a preview or skipped-swap snapshot exists.
	Confirmation *projection.ConfirmationDetails
	Fees         projection.FeeBreakdown

	Steps          []sdk.Step
	ElapsedSeconds float64
}

// Snapshot assembles the current View.
func (w *Widget) Snapshot() View {
	state := w.machine.Snapshot()
	selection := w.selection.Snapshot()
	balances := w.cfg.Session.SwapBalance()
	rates := w.cfg.Session.Rates()

	assets := projection.AvailableAssets(balances)
	rows := assetsel.BuildRows(balances)

	var quote *sdk.IntentQuote
	if state.Simulation != nil {
		q := state.Simulation.Quote
		quote = &q
	}
	destBalance := projection.DestinationBalance(balances, w.cfg.Destination.TokenSymbol, w.cfg.Destination.ChainID)

	confirmation := projection.BuildConfirmation(projection.ConfirmationInput{
		Destination:           w.cfg.Destination,
		Quote:                 quote,
		Skipped:               state.SwapSkippedData,
		SkipSwap:              state.SkipSwap,
		InputAmount:           state.Inputs.Amount,
		Rates:                 rates,
		Assets:                assets,
		HasDestinationBalance: destBalance != nil,
	})

	fees := projection.BuildFeeBreakdown(projection.FeeInput{
		ActualGasFeeUSD: state.ActualGasFeeUSD,
		Skipped:         state.SwapSkippedData,
		SkipSwap:        state.SkipSwap,
		Quote:           quote,
		GasTokenSymbol:  w.cfg.Destination.GasSymbol(),
		Rates:           rates,
	})

	return View{
		State:            state,
		Selection:        selection,
		Assets:           assets,
		TokenRows:        rows,
		TotalSelectedUSD: projection.TotalSelectedBalance(assets, selection.Selected),
		Totals:           projection.TotalBalance(balances),
		Confirmation:     confirmation,
		Fees:             fees,
		Steps:            w.tracker.List(),
		ElapsedSeconds:   w.watch.Elapsed().Seconds(),
	}
}
