package core

import "sync"

// State is an immutable, separately versioned payload attached to a node.
// Revisions increase by one with every update of the same family.
type State struct {
	data     any
	revision uint64
	family   *Family
}

// NewState returns the first state revision of family.
func NewState(family *Family, data any) *State {
	return &State{data: data, revision: 1, family: family}
}

// Next returns a new revision carrying data.
func (s *State) Next(data any) *State {
	return &State{data: data, revision: s.revision + 1, family: s.family}
}

// Data returns the payload.
func (s *State) Data() any { return s.data }

// Revision returns the state's revision number.
func (s *State) Revision() uint64 { return s.revision }

// Family returns the family the state belongs to.
func (s *State) Family() *Family { return s.family }

// MostRecentIfObsolete returns the family's most recent state when it is
// newer than s, and nil otherwise.
func (s *State) MostRecentIfObsolete() *State {
	if s.family == nil {
		return nil
	}
	latest := s.family.StateCoordinator().MostRecent()
	if latest == nil || latest.revision <= s.revision {
		return nil
	}
	return latest
}

// Update asks the family's dispatcher to commit new state derived from the
// most recent one. It returns false when no dispatcher is installed.
func (s *State) Update(fn func(old any) any) bool {
	if s.family == nil {
		return false
	}
	return s.family.StateCoordinator().Dispatch(StateUpdate{Family: s.family, Callback: fn})
}

// StateUpdate is a request to replace a family's state without new props.
type StateUpdate struct {
	Family   *Family
	Callback func(old any) any
}

// StateDispatcher delivers state updates to whoever owns the commit path.
type StateDispatcher func(StateUpdate)

// StateCoordinator tracks the most recently committed state of one family
// and routes state updates for it.
type StateCoordinator struct {
	mu         sync.Mutex
	mostRecent *State
	dispatch   StateDispatcher
}

// MostRecent returns the latest committed state, or nil.
func (c *StateCoordinator) MostRecent() *State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mostRecent
}

// SetMostRecent records s if it is newer than the current one. It reports
// whether s was recorded.
func (c *StateCoordinator) SetMostRecent(s *State) bool {
	if s == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.mostRecent != nil && c.mostRecent.revision >= s.revision {
		return false
	}
	c.mostRecent = s
	return true
}

// SetDispatcher installs the function that receives state updates.
func (c *StateCoordinator) SetDispatcher(d StateDispatcher) {
	c.mu.Lock()
	c.dispatch = d
	c.mu.Unlock()
}

// Dispatch forwards u to the installed dispatcher.
func (c *StateCoordinator) Dispatch(u StateUpdate) bool {
	c.mu.Lock()
	d := c.dispatch
	c.mu.Unlock()
	if d == nil {
		return false
	}
	d(u)
	return true
}
