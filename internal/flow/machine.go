package flow

import "sync"

// Machine owns the only mutable State and serializes all dispatches, so
// there is never a data race between concurrent writers.
type Machine struct {
	mu    sync.Mutex
	state State
}

func NewMachine() *Machine {
	return &Machine{state: NewState()}
}

// Dispatch applies one action and returns the resulting snapshot.
func (m *Machine) Dispatch(action Action) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = reduce(m.state, action)
	return m.state.clone()
}

// DispatchAll applies actions in order as one serialized batch.
func (m *Machine) DispatchAll(actions ...Action) State {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range actions {
		m.state = reduce(m.state, a)
	}
	return m.state.clone()
}

// Snapshot returns a copy of the current state.
func (m *Machine) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.clone()
}

// GoBack moves to the current step's back target when the adjacency table
// permits one, clearing any prior error. It reports whether a move happened.
func (m *Machine) GoBack() (Step, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	target, ok := BackTarget(m.state.Step)
	if !ok {
		return m.state.Step, false
	}
	m.state = reduce(m.state, ClearError{})
	m.state = reduce(m.state, SetStep{Step: target, Direction: DirectionBackward})
	return target, true
}
