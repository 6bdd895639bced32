package conversation

import (
	"sync"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// Store keeps per-sender conversation state and scratch data for multi-step
// flows. Message processing is sequential within a poll iteration, but the
// HTTP status endpoint reads counts concurrently, hence the mutex.
type Store struct {
	mu      sync.Mutex
	states  map[string]model.ConversationState
	scratch map[string]model.ConversationScratch
}

// NewStore constructs an empty conversation store.
func NewStore() *Store {
	return &Store{
		states:  make(map[string]model.ConversationState),
		scratch: make(map[string]model.ConversationScratch),
	}
}

// Get returns the sender's current state, if any.
func (s *Store) Get(sender string) (model.ConversationState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[sender]
	return state, ok
}

// Set records the sender's state.
func (s *Store) Set(sender string, state model.ConversationState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[sender] = state
}

// Scratch returns the sender's scratch data, if any.
func (s *Store) Scratch(sender string) (model.ConversationScratch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	scratch, ok := s.scratch[sender]
	return scratch, ok
}

// SetScratch records the sender's scratch data.
func (s *Store) SetScratch(sender string, scratch model.ConversationScratch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scratch[sender] = scratch
}

// Clear removes state and scratch together. Every terminal outcome of a flow
// goes through here so the two can never drift apart.
func (s *Store) Clear(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, sender)
	delete(s.scratch, sender)
}

// ActiveCount reports how many senders are mid-flow.
func (s *Store) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.states)
}
