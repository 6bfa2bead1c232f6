// Package store owns the application state graph. All mutation flows through
// Dispatch, which applies an Action, recomputes derived fields, notifies
// listeners and hands the new snapshot to the persistence adapter.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kmkohl117-gif/brainbucket-android/internal/logger"
)

// Persister is the persistence adapter. Load returns nil, nil on first run.
type Persister interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s State) error
}

// Listener is called after every dispatch with the action and the resulting state.
// Listeners run while the store is locked: they must not dispatch or modify the state.
type Listener func(a Action, s State)

// Options configures a Store.
type Options struct {
	Persister   Persister        // nil keeps state in memory only
	Logger      *slog.Logger     // discard if nil
	Clock       func() time.Time // time.Now if nil
	OnSaveError func(error)      // called for every swallowed save failure
}

// Store is a single-writer state container.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
	closed    bool

	now    func() time.Time
	logger *slog.Logger
	saver  *saver
}

// New loads persisted state (if any), migrates and recomputes it, and starts
// the background saver.
func New(ctx context.Context, opts Options) (*Store, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	var loaded *State
	if opts.Persister != nil {
		var err error
		loaded, err = opts.Persister.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load state: %w", err)
		}
	}
	if loaded != nil && loaded.SchemaVersion < CurrentSchemaVersion {
		log.Info("migrating persisted state",
			"from_version", loaded.SchemaVersion,
			"to_version", CurrentSchemaVersion,
		)
	}

	s := &Store{
		state:     Recompute(Migrate(loaded)),
		listeners: make(map[int]Listener),
		now:       clock,
		logger:    log,
	}
	if opts.Persister != nil {
		s.saver = newSaver(opts.Persister, log, opts.OnSaveError)
	}
	return s, nil
}

// Dispatch applies a, recomputes derived fields and returns a copy of the new state.
// Persistence happens in the background and never blocks the next dispatch.
func (s *Store) Dispatch(a Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.apply(a)
	return s.state.Clone()
}

// Update calls fn with the current state and dispatches the action it returns,
// all under one lock, so no other dispatch can land between the check in fn and
// the transition. fn must not modify the state. A nil action or an error from fn
// leaves the state unchanged; the error is returned as is.
func (s *Store) Update(fn func(State) (Action, error)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, err := fn(s.state)
	if err != nil {
		return State{}, err
	}
	if a != nil {
		s.apply(a)
	}
	return s.state.Clone(), nil
}

// apply runs one transition. s.mu must be held.
func (s *Store) apply(a Action) {
	s.logger.Debug("dispatch", "action", a.Type())
	s.state = Reduce(s.state, a, s.now())

	for _, id := range s.order {
		s.listeners[id](a, s.state)
	}

	if s.saver != nil {
		if s.closed {
			s.logger.Warn("store closed, state change not persisted", "action", a.Type())
		} else {
			s.saver.submit(s.state)
		}
	}
}

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Read calls fn with the current state while holding the lock.
// fn must not retain or modify the state.
func (s *Store) Read(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.state)
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn Listener) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// Close writes the last pending snapshot and stops the saver.
// Dispatch keeps working in memory after Close.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed || s.saver == nil {
		s.closed = true
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()
	return s.saver.close(ctx)
}
