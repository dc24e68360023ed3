package sdksim

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

func initSim(t *testing.T, script Script) *Sim {
	t.Helper()
	s := New(script)
	if err := s.Initialize(context.Background(), Wallet{Address: common.HexToAddress("0x01"), ChainID: 8453}); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func collectKinds(events []sdk.Event) []sdk.EventKind {
	kinds := make([]sdk.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	return kinds
}

func TestSwapAndExecute_NotInitialized(t *testing.T) {
	s := New(Script{})
	if _, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, nil); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("got %v want ErrNotInitialized", err)
	}
	if _, err := s.BalancesForSwap(context.Background()); !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("BalancesForSwap: got %v", err)
	}
}

func TestSwapAndExecute_EventOrder(t *testing.T) {
	want := sdk.SwapAndExecuteResult{DepositTxHash: "0xabc"}
	s := initSim(t, Script{Result: want})
	s.SetOnSwapIntentHook(func(in sdk.SwapIntent) {
		// Confirm immediately; the run is synchronous so the pause must
		// resolve from inside the hook.
		in.Allow()
	})

	var events []sdk.Event
	got, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, func(ev sdk.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("SwapAndExecute: %v", err)
	}
	if got.DepositTxHash != want.DepositTxHash {
		t.Fatalf("result: got %+v", got)
	}

	kinds := collectKinds(events)
	// enumeration, DETERMINING_SWAP done, intent, then the five remaining
	// step completions.
	wantKinds := []sdk.EventKind{
		sdk.EventStepsEnumerated,
		sdk.EventStepComplete,
		sdk.EventIntentResolved,
		sdk.EventStepComplete,
		sdk.EventStepComplete,
		sdk.EventStepComplete,
		sdk.EventStepComplete,
		sdk.EventStepComplete,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("event count: got %d want %d (%v)", len(kinds), len(wantKinds), kinds)
	}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] {
			t.Fatalf("event %d: got %v want %v", i, kinds[i], wantKinds[i])
		}
	}
	if got := events[0].Steps; len(got) != len(sdk.ExpectedSteps) {
		t.Fatalf("enumerated steps: got %d want %d", len(got), len(sdk.ExpectedSteps))
	}
	if events[1].Step.Type != sdk.StepDeterminingSwap || !events[1].Step.Completed {
		t.Fatalf("first completion: got %+v", events[1].Step)
	}
	if last := events[len(events)-1].Step; last.Type != sdk.StepExecute {
		t.Fatalf("last completion: got %+v", last)
	}
}

func TestSwapAndExecute_SkipPath(t *testing.T) {
	skip := &sdk.SwapSkipped{}
	s := initSim(t, Script{Skip: skip, Result: sdk.SwapAndExecuteResult{DepositTxHash: "0xdef"}})
	s.SetOnSwapIntentHook(func(sdk.SwapIntent) {
		t.Error("skip path must not hold an intent open")
	})

	var events []sdk.Event
	got, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, func(ev sdk.Event) {
		events = append(events, ev)
	})
	if err != nil {
		t.Fatalf("SwapAndExecute: %v", err)
	}
	if got.DepositTxHash != "0xdef" {
		t.Fatalf("result: got %+v", got)
	}

	kinds := collectKinds(events)
	wantKinds := []sdk.EventKind{
		sdk.EventStepsEnumerated,
		sdk.EventSwapSkipped,
		sdk.EventStepComplete,
		sdk.EventStepComplete,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("event count: got %d (%v)", len(kinds), kinds)
	}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] {
			t.Fatalf("event %d: got %v want %v", i, kinds[i], wantKinds[i])
		}
	}
	if events[1].Skipped != skip {
		t.Fatal("skip event must carry the scripted snapshot")
	}
}

func TestSwapAndExecute_Denied(t *testing.T) {
	s := initSim(t, Script{})
	s.SetOnSwapIntentHook(func(in sdk.SwapIntent) { in.Deny() })

	if _, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, nil); !errors.Is(err, ErrDenied) {
		t.Fatalf("got %v want ErrDenied", err)
	}
}

func TestSwapAndExecute_ContextCancelled(t *testing.T) {
	s := initSim(t, Script{})
	ctx, cancel := context.WithCancel(context.Background())
	s.SetOnSwapIntentHook(func(sdk.SwapIntent) { cancel() })

	if _, err := s.SwapAndExecute(ctx, sdk.SwapAndExecuteParams{}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v want context.Canceled", err)
	}
}

func TestSwapAndExecute_FailBeforeIntent(t *testing.T) {
	boom := errors.New("no viable route")
	s := initSim(t, Script{FailBeforeIntent: boom})
	s.SetOnSwapIntentHook(func(sdk.SwapIntent) {
		t.Error("intent must not be held when the run fails first")
	})

	if _, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, nil); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}

func TestSwapAndExecute_FailAfterAllow(t *testing.T) {
	boom := errors.New("execute reverted")
	s := initSim(t, Script{FailAfterAllow: boom})
	s.SetOnSwapIntentHook(func(in sdk.SwapIntent) { in.Allow() })

	if _, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, nil); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
}

func TestIntent_RefreshUsesScriptedQuote(t *testing.T) {
	base := sdk.IntentQuote{Destination: sdk.IntentDestination{Amount: big.NewInt(100)}}
	updated := sdk.IntentQuote{Destination: sdk.IntentDestination{Amount: big.NewInt(95)}}
	s := initSim(t, Script{Quote: base, RefreshQuote: &updated})

	var held sdk.SwapIntent
	s.SetOnSwapIntentHook(func(in sdk.SwapIntent) {
		held = in
		in.Deny()
	})
	s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, nil)
	if held == nil {
		t.Fatal("hook never ran")
	}

	if got := held.Quote(); got.Destination.Amount.Cmp(big.NewInt(100)) != 0 {
		t.Fatalf("initial quote: got %v", got.Destination.Amount)
	}
	q, err := held.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if q.Destination.Amount.Cmp(big.NewInt(95)) != 0 {
		t.Fatalf("refreshed quote: got %v", q.Destination.Amount)
	}
	if got := held.Quote(); got.Destination.Amount.Cmp(big.NewInt(95)) != 0 {
		t.Fatal("refresh must update the held quote")
	}
}

func TestIntent_AllowAfterDenyIsNoOp(t *testing.T) {
	s := initSim(t, Script{})
	s.SetOnSwapIntentHook(func(in sdk.SwapIntent) {
		in.Deny()
		in.Allow() // must not panic or flip the outcome
	})
	if _, err := s.SwapAndExecute(context.Background(), sdk.SwapAndExecuteParams{}, nil); !errors.Is(err, ErrDenied) {
		t.Fatalf("got %v want ErrDenied", err)
	}
}

func TestWallet_ProviderRequests(t *testing.T) {
	w := Wallet{Address: common.HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314"), ChainID: 8453}

	raw, err := w.Request(context.Background(), "eth_accounts", nil)
	if err != nil {
		t.Fatalf("eth_accounts: %v", err)
	}
	var addrs []string
	if err := json.Unmarshal(raw, &addrs); err != nil {
		t.Fatalf("decode accounts: %v", err)
	}
	if len(addrs) != 1 || addrs[0] != w.Address.Hex() {
		t.Fatalf("eth_accounts: got %v", addrs)
	}

	raw, err = w.Request(context.Background(), "eth_chainId", nil)
	if err != nil {
		t.Fatalf("eth_chainId: %v", err)
	}
	var chain string
	if err := json.Unmarshal(raw, &chain); err != nil {
		t.Fatalf("decode chain id: %v", err)
	}
	if chain != "0x2105" {
		t.Fatalf("eth_chainId: got %q", chain)
	}

	if _, err := w.Request(context.Background(), "eth_sendTransaction", nil); err == nil {
		t.Fatal("unsupported method must be rejected")
	}
}
