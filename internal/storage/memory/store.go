// Package memory keeps session state in process memory.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/honeycarbs/job-aggregator/internal/domain/session"
)

// Store is a session.Store backed by a map. State is lost on restart.
type Store struct {
	mu       sync.Mutex
	sessions map[string]session.State
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]session.State),
	}
}

func (s *Store) Get(_ context.Context, id string) (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.sessions[id]
	if !ok {
		return session.New(id), nil
	}
	return clone(st), nil
}

// Update runs fn under the store lock, so fn must not block
func (s *Store) Update(ctx context.Context, id string, fn session.UpdateFunc) (session.State, error) {
	if err := ctx.Err(); err != nil {
		return session.State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.sessions[id]
	if !ok {
		cur = session.New(id)
	}

	next, err := fn(clone(cur))
	if err != nil {
		return clone(cur), err
	}

	s.sessions[id] = clone(next)
	return next, nil
}

// Len returns the number of stored sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func clone(st session.State) session.State {
	st.Results = slices.Clone(st.Results)
	st.Advertised = slices.Clone(st.Advertised)
	st.Sources = maps.Clone(st.Sources)
	st.Query.Sources = slices.Clone(st.Query.Sources)
	if st.Error != nil {
		e := *st.Error
		st.Error = &e
	}
	return st
}

var _ session.Store = (*Store)(nil)
