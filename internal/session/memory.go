package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	conv    Conversation
	expires time.Time
}

type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return Conversation{}, nil
	}
	if s.ttl > 0 && s.now().After(e.expires) {
		delete(s.entries, key)
		return Conversation{}, nil
	}
	return Conversation{State: e.conv.State.Clone(), Step: e.conv.Step}, nil
}

func (s *MemoryStore) Save(_ context.Context, key string, c Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = memoryEntry{
		conv:    Conversation{State: c.State.Clone(), Step: c.Step},
		expires: s.now().Add(s.ttl),
	}
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
	return nil
}
