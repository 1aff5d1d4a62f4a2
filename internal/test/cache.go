package test

import (
	"context"
	"sync"
)

// SeenCacheStub is a map backed seen-message cache with optional failures.
type SeenCacheStub struct {
	mu        sync.Mutex
	Entries   map[string]int64
	LookupErr error
	WriteErr  error
	Lookups   int
}

// NewSeenCacheStub constructs an empty SeenCacheStub.
func NewSeenCacheStub() *SeenCacheStub {
	return &SeenCacheStub{Entries: make(map[string]int64)}
}

// Lookup returns the cached order id for messageID.
func (s *SeenCacheStub) Lookup(_ context.Context, messageID string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Lookups++
	if s.LookupErr != nil {
		return 0, false, s.LookupErr
	}
	id, ok := s.Entries[messageID]
	return id, ok, nil
}

// Remember stores orderID for messageID.
func (s *SeenCacheStub) Remember(_ context.Context, messageID string, orderID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if s.Entries == nil {
		s.Entries = make(map[string]int64)
	}
	s.Entries[messageID] = orderID
	return nil
}
