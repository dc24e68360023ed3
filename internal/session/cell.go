package session

import (
	"sync"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

// IntentCell is the mutable cell holding the currently-paused swap intent.
// It is owned by the session and written through accessors only; clearing it
// is how late callbacks from an abandoned attempt become no-ops.
type IntentCell struct {
	mu     sync.Mutex
	intent sdk.SwapIntent
	quote  sdk.IntentQuote
	hasQ   bool
}

// Set stores a freshly-paused intent and caches its quote.
func (c *IntentCell) Set(intent sdk.SwapIntent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intent = intent
	if intent != nil {
		c.quote = intent.Quote()
		c.hasQ = true
	} else {
		c.quote = sdk.IntentQuote{}
		c.hasQ = false
	}
}

// Get returns the held intent, if any.
func (c *IntentCell) Get() (sdk.SwapIntent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent, c.intent != nil
}

// Quote returns the latest cached quote for the held intent.
func (c *IntentCell) Quote() (sdk.IntentQuote, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quote, c.hasQ
}

// SetQuote replaces the cached quote after a refresh.
func (c *IntentCell) SetQuote(q sdk.IntentQuote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.intent == nil {
		return
	}
	c.quote = q
}

// Clear drops the held intent and quote.
func (c *IntentCell) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intent = nil
	c.quote = sdk.IntentQuote{}
	c.hasQ = false
}
