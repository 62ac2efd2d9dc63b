package account

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a Store backed by in-process maps.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*Account
	byEmail map[string]string
	now     func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	return s.copyOf(id), nil
}

func (s *MemoryStore) FindByID(_ context.Context, id string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.byID[id]; !ok {
		return nil, ErrNotFound
	}
	return s.copyOf(id), nil
}

func (s *MemoryStore) Create(_ context.Context, a *Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byEmail[a.Email]; taken {
		return ErrDuplicateEmail
	}
	Prepare(a, s.now().UTC())
	stored := *a
	s.byID[a.ID] = &stored
	s.byEmail[a.Email] = a.ID
	return nil
}

// Len returns the number of stored accounts.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// copyOf must be called with the lock held.
func (s *MemoryStore) copyOf(id string) *Account {
	a := *s.byID[id]
	return &a
}
