package editor

import (
	"sync"

	"github.com/jonathan/resume-builder/internal/types"
)

// Snapshot is an immutable view of the store at one version.
// Resume is a private copy; mutating it does not affect the store.
type Snapshot struct {
	Version int
	Resume  *types.Resume
}

// Listener receives every snapshot published after a successful dispatch
type Listener func(Snapshot)

// Option configures a Store
type Option func(*Store)

// WithTemplateCheck rejects SelectTemplate actions naming an unknown template
func WithTemplateCheck(check func(name string) error) Option {
	return func(s *Store) {
		s.templateCheck = check
	}
}

// Store is the single writer of a resume being edited. State changes only
// through Dispatch; readers get snapshots.
type Store struct {
	mu            sync.RWMutex
	state         *types.Resume
	version       int
	listeners     map[int]Listener
	nextListener  int
	templateCheck func(string) error
}

// NewStore creates a store holding a copy of initial (or an empty resume)
func NewStore(initial *types.Resume, opts ...Option) *Store {
	if initial == nil {
		initial = &types.Resume{}
	}
	s := &Store{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Reduce applies an action to a copy of state and returns the copy.
// state itself is never modified.
func Reduce(state *types.Resume, action Action) (*types.Resume, error) {
	next := state.Clone()
	if next == nil {
		next = &types.Resume{}
	}
	if err := action.Apply(next); err != nil {
		return nil, err
	}
	return next, nil
}

// Dispatch applies action and publishes the new snapshot. On error the state
// and version are unchanged and no listener is called.
func (s *Store) Dispatch(action Action) (Snapshot, error) {
	if err := s.checkTemplates(action); err != nil {
		return Snapshot{}, err
	}

	s.mu.Lock()
	next, err := Reduce(s.state, action)
	if err != nil {
		s.mu.Unlock()
		return Snapshot{}, err
	}
	s.state = next
	s.version++
	snap := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(Snapshot{Version: snap.Version, Resume: snap.Resume.Clone()})
	}
	return snap, nil
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// Version returns the number of successful dispatches so far
func (s *Store) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Subscribe registers a listener and returns a function that removes it
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Version: s.version, Resume: s.state.Clone()}
}

func (s *Store) checkTemplates(action Action) error {
	if s.templateCheck == nil {
		return nil
	}
	switch a := action.(type) {
	case SelectTemplate:
		if err := s.templateCheck(a.Template); err != nil {
			return &ActionError{Action: a.Name(), Message: "unknown template", Cause: err}
		}
	case Batch:
		for _, inner := range a {
			if err := s.checkTemplates(inner); err != nil {
				return err
			}
		}
	}
	return nil
}
