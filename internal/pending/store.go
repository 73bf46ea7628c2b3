// Package pending holds the first message of a freshly created thread until
// the thread view mounts and claims it.
package pending

import "sync"

// Store is a per-thread, consume-once message stash. The create flow parks
// the user's first message under the new thread id; the thread view claims
// it exactly once after navigation. A claimed message is never reinstated,
// so a remounted view cannot double-send it.
type Store struct {
	mu       sync.Mutex
	messages map[string]string
	claimed  map[string]bool
}

// NewStore returns an empty pending-message store.
func NewStore() *Store {
	return &Store{
		messages: make(map[string]string),
		claimed:  make(map[string]bool),
	}
}

// Put parks a message for a thread. A message for an already-claimed thread
// is dropped; the one-shot has fired and stays fired.
func (s *Store) Put(threadID, text string) {
	if threadID == "" || text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.claimed[threadID] {
		return
	}
	s.messages[threadID] = text
}

// Consume returns the parked message for a thread and marks it delivered.
// Every call after the first returns ok=false.
func (s *Store) Consume(threadID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, ok := s.messages[threadID]
	if !ok {
		return "", false
	}
	delete(s.messages, threadID)
	s.claimed[threadID] = true
	return text, true
}
