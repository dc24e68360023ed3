// Package session manages the bridging provider's lifecycle for one wallet
// connection: initialization with a readiness timeout, cached balances and
// exchange rates, and the mutable intent cell.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/omnivault/deposit-widget/internal/diag"
	"github.com/omnivault/deposit-widget/internal/rates"
	"github.com/omnivault/deposit-widget/internal/sdk"
)

var (
	ErrNotReady           = errors.New("session: provider never became ready")
	ErrAlreadyInitialized = errors.New("session: provider already initialized")
	ErrNotInitialized     = errors.New("session: provider not initialized")
	ErrInvalidProvider    = errors.New("session: invalid wallet provider")
)

const (
	// readyProbeInterval and readyWaitMax bound the provider-readiness
	// wait; past the bound initialization is reported as failed.
	readyProbeInterval = 100 * time.Millisecond
	readyWaitMax       = 2 * time.Second
)

// Session owns the provider instance and its fetched state. Only the
// orchestration layer writes through it.
type Session struct {
	provider sdk.SDK
	log      *slog.Logger
	sink     *diag.Sink

	mu            sync.Mutex
	initialized   bool
	swapBalance   []sdk.UserAsset
	bridgeBalance []sdk.UserAsset
	rateTable     rates.Table

	intent IntentCell
}

func New(provider sdk.SDK, log *slog.Logger, sink *diag.Sink) (*Session, error) {
	if provider == nil {
		return nil, errors.New("session: nil provider")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	if sink == nil {
		sink = diag.NewSink(0)
	}
	return &Session{provider: provider, log: log, sink: sink}, nil
}

// Init waits for provider readiness (bounded), binds the wallet provider,
// fetches balances and rates, and attaches the intent hook.
func (s *Session) Init(ctx context.Context, wallet sdk.Provider) error {
	if wallet == nil {
		return ErrInvalidProvider
	}
	if err := s.waitReady(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return ErrAlreadyInitialized
	}
	s.mu.Unlock()

	if err := s.provider.Initialize(ctx, wallet); err != nil {
		return fmt.Errorf("session: initialize provider: %w", err)
	}

	s.provider.SetOnSwapIntentHook(func(intent sdk.SwapIntent) {
		s.intent.Set(intent)
		s.sink.Push(diag.LevelEvent, "Session", "swap intent paused for confirmation", nil)
	})

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	s.setup(ctx)
	return nil
}

func (s *Session) waitReady(ctx context.Context) error {
	deadline := time.Now().Add(readyWaitMax)
	for !s.provider.Ready() {
		if time.Now().After(deadline) {
			return ErrNotReady
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyProbeInterval):
		}
	}
	return nil
}

// setup fetches balances and rates. Individual failures are logged and the
// rest proceed; a partially-populated session is usable.
func (s *Session) setup(ctx context.Context) {
	if err := s.RefreshBridgeBalance(ctx); err != nil {
		s.log.Warn("fetch bridge balance", "err", err)
	}
	if err := s.RefreshSwapBalance(ctx); err != nil {
		s.log.Warn("fetch swap balance", "err", err)
	}
	if err := s.RefreshRates(ctx); err != nil {
		s.log.Warn("fetch rates", "err", err)
	}
}

// Deinit tears the provider binding down and clears all cached state.
func (s *Session) Deinit(ctx context.Context) error {
	s.mu.Lock()
	if !s.initialized {
		s.mu.Unlock()
		return ErrNotInitialized
	}
	s.mu.Unlock()

	err := s.provider.Deinit(ctx)

	s.mu.Lock()
	s.initialized = false
	s.swapBalance = nil
	s.bridgeBalance = nil
	s.rateTable = nil
	s.mu.Unlock()
	s.intent.Clear()

	if err != nil {
		return fmt.Errorf("session: deinitialize provider: %w", err)
	}
	return nil
}

// Initialized reports whether the wallet binding succeeded.
func (s *Session) Initialized() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// RefreshSwapBalance refetches the swap funding-source balances.
func (s *Session) RefreshSwapBalance(ctx context.Context) error {
	assets, err := s.provider.BalancesForSwap(ctx)
	if err != nil {
		return fmt.Errorf("session: swap balances: %w", err)
	}
	s.mu.Lock()
	s.swapBalance = assets
	s.mu.Unlock()
	return nil
}

// RefreshBridgeBalance refetches the bridgable balances.
func (s *Session) RefreshBridgeBalance(ctx context.Context) error {
	assets, err := s.provider.BalancesForBridge(ctx)
	if err != nil {
		return fmt.Errorf("session: bridge balances: %w", err)
	}
	s.mu.Lock()
	s.bridgeBalance = assets
	s.mu.Unlock()
	return nil
}

// RefreshRates refetches exchange rates. The provider quotes units per USD;
// the table stores USD per unit.
func (s *Session) RefreshRates(ctx context.Context) error {
	raw, err := s.provider.Rates(ctx)
	if err != nil {
		return fmt.Errorf("session: rates: %w", err)
	}
	table := rates.FromUnitsPerUSD(raw)
	s.mu.Lock()
	s.rateTable = table
	s.mu.Unlock()
	return nil
}

// SwapBalance returns the cached swap balances.
func (s *Session) SwapBalance() []sdk.UserAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sdk.UserAsset(nil), s.swapBalance...)
}

// BridgeBalance returns the cached bridgable balances.
func (s *Session) BridgeBalance() []sdk.UserAsset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]sdk.UserAsset(nil), s.bridgeBalance...)
}

// Rates returns the cached exchange-rate table.
func (s *Session) Rates() rates.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rateTable
}

// FiatValue converts a token amount to USD at the cached rates.
func (s *Session) FiatValue(amount float64, symbol string) float64 {
	return s.Rates().FiatValue(amount, symbol)
}

// Intent returns the session's intent cell.
func (s *Session) Intent() *IntentCell {
	return &s.intent
}

// Provider exposes the underlying SDK for the orchestration layer. Nothing
// else should call it.
func (s *Session) Provider() sdk.SDK {
	return s.provider
}
