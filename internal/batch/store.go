package batch

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
)

// Store holds the active batches for the running process, keyed by batch ID.
type Store struct {
	mu      sync.RWMutex
	batches map[string]*Batch
}

// NewStore creates an empty batch store.
func NewStore() *Store {
	return &Store{
		batches: make(map[string]*Batch),
	}
}

// Create makes a new batch with a random ID and registers it.
func (s *Store) Create() *Batch {
	b := New(newBatchID())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches[b.ID] = b
	return b
}

// Get returns the batch with the given ID.
func (s *Store) Get(id string) (*Batch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.batches[id]
	return b, ok
}

// Delete discards a batch and all of its in-memory photos and groups.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.batches, id)
}

func newBatchID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
