// Package sdk defines the in-process contract with the external
// bridging/execution provider. The engine consumes this contract and never
// reaches past it; route finding, signing, and broadcasting are the
// provider's business.
package sdk

import (
	"context"
	"encoding/json"
)

// Provider is the minimal EIP-1193 surface the SDK needs from the connected
// wallet.
type Provider interface {
	Request(ctx context.Context, method string, params []any) (json.RawMessage, error)
}

// SwapIntent is a held-open quote: the provider pauses execution until the
// user allows or denies it. Refresh re-quotes the same route.
type SwapIntent interface {
	Quote() IntentQuote
	Allow()
	Deny()
	Refresh(ctx context.Context) (IntentQuote, error)
}

// IntentHook receives the intent when the provider pauses for confirmation.
type IntentHook func(SwapIntent)

// SDK is the bridging/execution provider contract.
//
// Ready reports whether the underlying implementation finished its own
// construction; Initialize binds it to a wallet provider. Balance and rate
// queries are only valid after a successful Initialize.
type SDK interface {
	Ready() bool
	IsInitialized() bool
	Initialize(ctx context.Context, provider Provider) error
	Deinit(ctx context.Context) error

	BalancesForSwap(ctx context.Context) ([]UserAsset, error)
	BalancesForBridge(ctx context.Context) ([]UserAsset, error)
	// Rates returns native-unit-per-USD quotes keyed by upper-case symbol.
	Rates(ctx context.Context) (map[string]float64, error)

	SetOnSwapIntentHook(hook IntentHook)

	// SwapAndExecute runs the combined bridge-and-execute flow. Events are
	// delivered to onEvent in emission order; the call blocks until the
	// flow terminates.
	SwapAndExecute(ctx context.Context, params SwapAndExecuteParams, onEvent EventFunc) (SwapAndExecuteResult, error)
}
