package widget

import (
	"context"
	"errors"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/diag"
	"github.com/omnivault/deposit-widget/internal/flow"
	"github.com/omnivault/deposit-widget/internal/sdk"
	"github.com/omnivault/deposit-widget/internal/sdksim"
	"github.com/omnivault/deposit-widget/internal/session"
	"github.com/omnivault/deposit-widget/internal/vault"
)

var (
	testPool  = common.HexToAddress("0xA238Dd80C259a72e81d7e4664a9801593F98d1c5")
	testToken = common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	testUser  = common.HexToAddress("0x00000000000000000000000000000000DeaDBeef")
)

func testScript() sdksim.Script {
	base := sdk.ChainInfo{ID: 8453, Name: "Base"}
	return sdksim.Script{
		SwapBalances: []sdk.UserAsset{
			{
				Symbol: "USDC", Decimals: 6, Balance: "500", BalanceInFiat: 500,
				Breakdown: []sdk.Breakdown{
					{Chain: base, Balance: "500", BalanceInFiat: 500, ContractAddress: testToken, Decimals: 6},
				},
			},
		},
		RatesPerUSD: map[string]float64{"USDC": 1.0, "ETH": 0.00025},
		Quote: sdk.IntentQuote{
			Sources: []sdk.IntentSource{{
				Chain:  base,
				Token:  sdk.TokenInfo{ContractAddress: testToken, Decimals: 6, Symbol: "USDC"},
				Amount: big.NewInt(100_500_000),
			}},
			Destination: sdk.IntentDestination{
				Chain:  base,
				Token:  sdk.TokenInfo{ContractAddress: testToken, Decimals: 6, Symbol: "USDC"},
				Amount: big.NewInt(100_000_000),
			},
		},
		Result: sdk.SwapAndExecuteResult{
			SwapResult: &sdk.SwapResult{
				ExplorerURL: "https://intents.example/0x1",
				SourceSwaps: []sdk.SourceSwap{{ChainID: 8453, TxHash: common.HexToHash("0x11")}},
			},
			ExecuteResponse: &sdk.ExecuteResponse{
				TxHash: common.HexToHash("0x22"),
				Receipt: &sdk.Receipt{
					GasUsed:           big.NewInt(200_000),
					EffectiveGasPrice: big.NewInt(20_000_000_000),
				},
			},
		},
	}
}

type harness struct {
	sim  *sdksim.Sim
	sess *session.Session
	w    *Widget
	sink *diag.Sink

	mu        sync.Mutex
	successes int
	failures  []error
}

func newHarness(t *testing.T, script sdksim.Script) *harness {
	t.Helper()
	h := &harness{
		sim:  sdksim.New(script),
		sink: diag.NewSink(0),
	}

	sess, err := session.New(h.sim, nil, h.sink)
	if err != nil {
		t.Fatalf("session.New: %v", err)
	}
	h.sess = sess
	if err := sess.Init(context.Background(), sdksim.Wallet{Address: testUser, ChainID: 8453}); err != nil {
		t.Fatalf("session.Init: %v", err)
	}

	w, err := New(Config{
		Session: sess,
		Destination: vault.Destination{
			ChainID:       8453,
			TokenAddress:  testToken,
			TokenSymbol:   "USDC",
			TokenDecimals: 6,
		},
		EncodeDeposit: vault.AaveEncoder(testPool),
		Sink:          h.sink,
		OnSuccess: func() {
			h.mu.Lock()
			h.successes++
			h.mu.Unlock()
		},
		OnError: func(err error) {
			h.mu.Lock()
			h.failures = append(h.failures, err)
			h.mu.Unlock()
		},
	})
	if err != nil {
		t.Fatalf("widget.New: %v", err)
	}
	h.w = w
	w.SetAccount(testUser)
	w.Selection().AutoSelect(sess.SwapBalance())
	return h
}

func (h *harness) failureCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.failures)
}

func (h *harness) successCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.successes
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func enterAmount(h *harness, amount string) {
	h.w.SetInputs(flow.SetInputs{Amount: &amount})
}

func TestHandleAmountContinue_Guards(t *testing.T) {
	h := newHarness(t, testScript())

	if err := h.w.HandleAmountContinue(context.Background()); !errors.Is(err, ErrNoAmount) {
		t.Fatalf("no amount: got %v want ErrNoAmount", err)
	}

	enterAmount(h, "100")
	h.w.SetAccount(common.Address{})
	if err := h.w.HandleAmountContinue(context.Background()); !errors.Is(err, ErrNoAccount) {
		t.Fatalf("no account: got %v want ErrNoAccount", err)
	}
}

func TestDepositFlow_HappyPath(t *testing.T) {
	h := newHarness(t, testScript())
	ctx := context.Background()

	enterAmount(h, "100")
	if got := h.w.Machine().Snapshot().Status; got != flow.StatusPreviewing {
		t.Fatalf("after amount: got %s", got)
	}

	if err := h.w.HandleAmountContinue(ctx); err != nil {
		t.Fatalf("continue: %v", err)
	}
	snap := h.w.Machine().Snapshot()
	if snap.Step != flow.StepConfirmation || snap.Status != flow.StatusSimulationLoading {
		t.Fatalf("after continue: step=%s status=%s", snap.Step, snap.Status)
	}

	waitFor(t, "preview", func() bool {
		s := h.w.Machine().Snapshot()
		return s.Status == flow.StatusPreviewing && s.Simulation != nil
	})
	snap = h.w.Machine().Snapshot()
	if !snap.IntentReady {
		t.Fatal("intent must be marked ready")
	}
	if snap.ReceiveAmount != "100.00" {
		t.Fatalf("receive amount: got %q", snap.ReceiveAmount)
	}

	if err := h.w.HandleConfirmOrder(); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	snap = h.w.Machine().Snapshot()
	if snap.Step != flow.StepTransactionStatus || snap.Status != flow.StatusExecuting {
		t.Fatalf("after confirm: step=%s status=%s", snap.Step, snap.Status)
	}

	waitFor(t, "completion", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusSuccess
	})
	snap = h.w.Machine().Snapshot()
	if snap.Step != flow.StepTransactionComplete {
		t.Fatalf("terminal step: got %s", snap.Step)
	}
	if snap.DepositTxHash == "" || snap.ExplorerURLs.Destination == "" {
		t.Fatalf("result links missing: %+v", snap)
	}
	if len(snap.SourceSwaps) != 1 || snap.SourceSwaps[0].ChainName != "Base" {
		t.Fatalf("source swaps: %+v", snap.SourceSwaps)
	}
	// 200000 gas at 20 gwei = 0.004 ETH = $16.
	if snap.ActualGasFeeUSD == nil || *snap.ActualGasFeeUSD != 16 {
		t.Fatalf("actual gas fee: %v", snap.ActualGasFeeUSD)
	}
	if h.successCount() != 1 || h.failureCount() != 0 {
		t.Fatalf("callbacks: %d successes, %d failures", h.successCount(), h.failureCount())
	}

	// Terminal outcomes refetch balances: init + post-run.
	waitFor(t, "balance refetch", func() bool { swap, _, _, _ := h.sim.CallCounts(); return swap >= 2 })
}

func TestDepositFlow_InFlightGuard(t *testing.T) {
	h := newHarness(t, testScript())
	ctx := context.Background()

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(ctx); err != nil {
		t.Fatalf("continue: %v", err)
	}
	if err := h.w.HandleAmountContinue(ctx); !errors.Is(err, ErrRunInFlight) {
		t.Fatalf("second continue: got %v want ErrRunInFlight", err)
	}
}

func TestDepositFlow_SwapSkippedJumpsToExecution(t *testing.T) {
	script := testScript()
	script.Skip = &sdk.SwapSkipped{
		Destination: sdk.SwapSkippedDelivery{
			Amount: big.NewInt(100_000_000),
			Chain:  sdk.ChainInfo{ID: 8453, Name: "Base"},
			Token:  sdk.TokenInfo{Decimals: 6, Symbol: "USDC"},
		},
		Input: sdk.SwapSkippedInput{Amount: big.NewInt(100_000_000), Token: sdk.TokenInfo{Decimals: 6, Symbol: "USDC"}},
		Gas:   sdk.SwapSkippedGas{EstimatedFee: big.NewInt(25_000_000_000_000)},
	}
	h := newHarness(t, script)

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(context.Background()); err != nil {
		t.Fatalf("continue: %v", err)
	}

	// No confirmation pause: the run goes straight through to success.
	waitFor(t, "completion", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusSuccess
	})
	snap := h.w.Machine().Snapshot()
	if !snap.SkipSwap || snap.SwapSkippedData == nil {
		t.Fatalf("skip state: SkipSwap=%v data=%v", snap.SkipSwap, snap.SwapSkippedData)
	}
	if h.successCount() != 1 {
		t.Fatalf("successes: got %d want 1", h.successCount())
	}
}

func TestDepositFlow_NumericRangeDefectSuppressed(t *testing.T) {
	script := testScript()
	script.FailBeforeIntent = errors.New("IntegerOutOfRangeError: value exceeds safe integer range")
	h := newHarness(t, script)

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(context.Background()); err != nil {
		t.Fatalf("continue: %v", err)
	}

	// Failure pre-preview routes quietly back to the amount screen.
	waitFor(t, "return to amount", func() bool {
		return h.w.Machine().Snapshot().Step == flow.StepAmount
	})
	snap := h.w.Machine().Snapshot()
	if snap.Status == flow.StatusError || snap.Err != "" {
		t.Fatalf("defect must not surface: status=%s err=%q", snap.Status, snap.Err)
	}
	if h.failureCount() != 0 {
		t.Fatalf("OnError fired %d times for a suppressed defect", h.failureCount())
	}

	// It still lands in diagnostics.
	found := false
	for _, e := range h.sink.Entries() {
		if e.Level == diag.LevelWarn {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a warn diagnostics entry")
	}
}

func TestDepositFlow_PreSimulationFailureRoutesToAmount(t *testing.T) {
	script := testScript()
	script.FailBeforeIntent = errors.New("no viable route")
	h := newHarness(t, script)

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(context.Background()); err != nil {
		t.Fatalf("continue: %v", err)
	}

	waitFor(t, "error state", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusError
	})
	snap := h.w.Machine().Snapshot()
	if snap.Step != flow.StepAmount {
		t.Fatalf("pre-simulation failure must return to amount, got %s", snap.Step)
	}
	if snap.Err != "no viable route" {
		t.Fatalf("err: got %q", snap.Err)
	}
	if h.failureCount() != 1 {
		t.Fatalf("OnError: got %d calls", h.failureCount())
	}
}

func TestDepositFlow_PostSimulationFailureRoutesToFailedScreen(t *testing.T) {
	script := testScript()
	script.FailAfterAllow = errors.New("execution reverted")
	h := newHarness(t, script)
	ctx := context.Background()

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(ctx); err != nil {
		t.Fatalf("continue: %v", err)
	}
	waitFor(t, "preview", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusPreviewing
	})
	if err := h.w.HandleConfirmOrder(); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	waitFor(t, "error state", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusError
	})
	snap := h.w.Machine().Snapshot()
	if snap.Step != flow.StepTransactionFailed {
		t.Fatalf("post-simulation failure must show the failed screen, got %s", snap.Step)
	}
	if snap.Err != "execution reverted" {
		t.Fatalf("err: got %q", snap.Err)
	}
}

func TestHandleConfirmOrder_RequiresPreview(t *testing.T) {
	h := newHarness(t, testScript())
	if err := h.w.HandleConfirmOrder(); !errors.Is(err, ErrNotConfirmable) {
		t.Fatalf("got %v want ErrNotConfirmable", err)
	}
}

func TestGoBack_FromConfirmationAbandonsIntent(t *testing.T) {
	h := newHarness(t, testScript())
	ctx := context.Background()

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(ctx); err != nil {
		t.Fatalf("continue: %v", err)
	}
	waitFor(t, "preview", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusPreviewing
	})

	target, ok := h.w.GoBack(ctx)
	if !ok || target != flow.StepAmount {
		t.Fatalf("GoBack: got (%s, %v)", target, ok)
	}
	if _, ok := h.sess.Intent().Get(); ok {
		t.Fatal("intent cell must be cleared")
	}

	// The denied run's rejection is stale and must never surface.
	time.Sleep(50 * time.Millisecond)
	snap := h.w.Machine().Snapshot()
	if snap.Status == flow.StatusError || snap.Err != "" {
		t.Fatalf("stale rejection surfaced: status=%s err=%q", snap.Status, snap.Err)
	}
	if snap.Status != flow.StatusPreviewing {
		t.Fatalf("amount rule must re-derive previewing, got %s", snap.Status)
	}
	if h.failureCount() != 0 {
		t.Fatal("OnError must not fire for an abandoned run")
	}
}

func TestGoBack_RefusedOnStatusScreen(t *testing.T) {
	h := newHarness(t, testScript())
	h.w.Machine().Dispatch(flow.SetStep{Step: flow.StepTransactionStatus, Direction: flow.DirectionForward})
	if _, ok := h.w.GoBack(context.Background()); ok {
		t.Fatal("back must be refused on the status screen")
	}
}

func TestReset_RestoresInitialState(t *testing.T) {
	h := newHarness(t, testScript())
	ctx := context.Background()

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(ctx); err != nil {
		t.Fatalf("continue: %v", err)
	}
	waitFor(t, "preview", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusPreviewing
	})

	h.w.Reset(ctx)
	snap := h.w.Machine().Snapshot()
	if snap.Step != flow.StepAmount || snap.Status != flow.StatusIdle || snap.Inputs.Amount != "" {
		t.Fatalf("reset state: %+v", snap)
	}
	if got := len(h.w.Steps()); got != 0 {
		t.Fatalf("tracker must be cleared, got %d steps", got)
	}
}

func TestGoToStep_AmountToConfirmationStartsRun(t *testing.T) {
	h := newHarness(t, testScript())
	enterAmount(h, "100")

	if err := h.w.GoToStep(context.Background(), flow.StepConfirmation); err != nil {
		t.Fatalf("GoToStep: %v", err)
	}
	if got := h.w.Machine().Snapshot().Step; got != flow.StepConfirmation {
		t.Fatalf("step: got %s", got)
	}
	if err := h.w.GoToStep(context.Background(), "nonsense"); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("invalid step: got %v", err)
	}
}

func TestSnapshot_ConfirmationAppearsWithPreview(t *testing.T) {
	h := newHarness(t, testScript())
	ctx := context.Background()

	if view := h.w.Snapshot(); view.Confirmation != nil {
		t.Fatal("no preview yet, no confirmation details")
	}

	enterAmount(h, "100")
	if err := h.w.HandleAmountContinue(ctx); err != nil {
		t.Fatalf("continue: %v", err)
	}
	waitFor(t, "preview", func() bool {
		return h.w.Machine().Snapshot().Status == flow.StatusPreviewing
	})

	view := h.w.Snapshot()
	if view.Confirmation == nil {
		t.Fatal("expected confirmation details")
	}
	if view.Confirmation.ReceiveAmountUSD != 100 {
		t.Fatalf("receive usd: got %v", view.Confirmation.ReceiveAmountUSD)
	}
	if view.TotalSelectedUSD != 500 {
		t.Fatalf("selected total: got %v", view.TotalSelectedUSD)
	}
}
