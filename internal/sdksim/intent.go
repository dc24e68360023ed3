package sdksim

import (
	"context"
	"sync"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

// intent is the scripted held-open quote. Allow and Deny are one-shot;
// later calls are no-ops.
type intent struct {
	mu      sync.Mutex
	quote   sdk.IntentQuote
	refresh *sdk.IntentQuote
	refErr  error
	done    bool
	allowed chan struct{}
	denied  chan struct{}

	RefreshCalls int
}

func newIntent(script Script) *intent {
	return &intent{
		quote:   script.Quote,
		refresh: script.RefreshQuote,
		refErr:  script.RefreshErr,
		allowed: make(chan struct{}),
		denied:  make(chan struct{}),
	}
}

func (i *intent) Quote() sdk.IntentQuote {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.quote
}

func (i *intent) Allow() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done {
		return
	}
	i.done = true
	close(i.allowed)
}

func (i *intent) Deny() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done {
		return
	}
	i.done = true
	close(i.denied)
}

func (i *intent) Refresh(context.Context) (sdk.IntentQuote, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.RefreshCalls++
	if i.refErr != nil {
		return sdk.IntentQuote{}, i.refErr
	}
	if i.refresh != nil {
		i.quote = *i.refresh
		return *i.refresh, nil
	}
	return i.quote, nil
}
