// Package assetsel tracks which (token, chain) balance entries the user has
// opted into funding a deposit from, and classifies the selection against
// the named presets.
package assetsel

import (
	"sync"

	"github.com/omnivault/deposit-widget/internal/sdk"
)

// State is the selection store's contents. Selected holds composite
// "<tokenAddress>-<chainID>" keys; Filter always describes Selected (it is
// recomputed after every mutation, never free-standing); Expanded is
// accordion state carried for the render layer only.
type State struct {
	Selected map[string]struct{}
	Filter   Filter
	Expanded map[string]struct{}
}

// NewState returns the empty-selection initial state. The initial filter is
// FilterAll by intent: the auto-selection pass seeds a full selection.
func NewState() State {
	return State{
		Selected: make(map[string]struct{}),
		Filter:   FilterAll,
		Expanded: make(map[string]struct{}),
	}
}

func (s State) clone() State {
	out := State{
		Selected: make(map[string]struct{}, len(s.Selected)),
		Filter:   s.Filter,
		Expanded: make(map[string]struct{}, len(s.Expanded)),
	}
	for k := range s.Selected {
		out.Selected[k] = struct{}{}
	}
	for k := range s.Expanded {
		out.Expanded[k] = struct{}{}
	}
	return out
}

// Update is a partial state update. Nil fields are left untouched.
type Update struct {
	Selected map[string]struct{}
	Filter   *Filter
	Expanded map[string]struct{}
}

// Store owns a State and serializes mutations. Callers replacing Selected
// through Set are responsible for classifying the new selection and passing
// the resulting filter; the toggle and preset helpers do this themselves.
type Store struct {
	mu           sync.Mutex
	state        State
	autoSelected bool
}

func NewStore() *Store {
	return &Store{state: NewState()}
}

// Snapshot returns a copy of the current state.
func (st *Store) Snapshot() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Set merges a partial update. It does not recompute the filter.
func (st *Store) Set(u Update) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if u.Selected != nil {
		st.state.Selected = u.Selected
	}
	if u.Filter != nil {
		st.state.Filter = *u.Filter
	}
	if u.Expanded != nil {
		st.state.Expanded = u.Expanded
	}
}

// Reset restores the initial state and re-arms auto-selection.
func (st *Store) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state = NewState()
	st.autoSelected = false
}

// AutoSelect selects every funding source with a positive balance the first
// time balance data arrives while the selection is still empty. It reports
// whether it changed anything.
func (st *Store) AutoSelect(balances []sdk.UserAsset) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.autoSelected || len(st.state.Selected) > 0 {
		return false
	}
	keys := make(map[string]struct{})
	for _, asset := range balances {
		for _, b := range asset.Breakdown {
			if b.Chain.ID == 0 || b.Balance == "" {
				continue
			}
			keys[Key(b.ContractAddress, b.Chain.ID)] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return false
	}
	st.state.Selected = keys
	st.state.Filter = FilterAll
	st.autoSelected = true
	return true
}

// ApplyPreset replaces the selection with a preset's derived set.
func (st *Store) ApplyPreset(rows []TokenRow, preset Filter) {
	if !preset.Preset() {
		return
	}
	keys := KeysForFilter(rows, preset)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.state.Selected = keys
	st.state.Filter = preset
}

// ToggleToken toggles all of a token row's chains: a fully or partially
// selected row is cleared, an unselected row is fully selected. The filter
// is reclassified against the new selection.
func (st *Store) ToggleToken(rows []TokenRow, symbol string) {
	var row *TokenRow
	for i := range rows {
		if rows[i].Symbol == symbol {
			row = &rows[i]
			break
		}
	}
	if row == nil {
		return
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	next := cloneSet(st.state.Selected)
	if RowCheckState(*row, next) == CheckNone {
		for _, c := range row.Chains {
			next[c.Key] = struct{}{}
		}
	} else {
		for _, c := range row.Chains {
			delete(next, c.Key)
		}
	}
	st.state.Selected = next
	st.state.Filter = Classify(rows, next)
}

// ToggleChain toggles a single (token, chain) entry and reclassifies.
func (st *Store) ToggleChain(rows []TokenRow, key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := cloneSet(st.state.Selected)
	if _, ok := next[key]; ok {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	st.state.Selected = next
	st.state.Filter = Classify(rows, next)
}

// ToggleExpanded flips a row's accordion state.
func (st *Store) ToggleExpanded(key string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	next := cloneSet(st.state.Expanded)
	if _, ok := next[key]; ok {
		delete(next, key)
	} else {
		next[key] = struct{}{}
	}
	st.state.Expanded = next
}

// SelectedKeys returns the selection as a sorted-free copy.
func (st *Store) SelectedKeys() map[string]struct{} {
	st.mu.Lock()
	defer st.mu.Unlock()
	return cloneSet(st.state.Selected)
}

func cloneSet(in map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(in))
	for k := range in {
		out[k] = struct{}{}
	}
	return out
}
