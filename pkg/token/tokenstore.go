package tokenstore

import (
	"context"
	"sync"
	"time"
)

// Store tracks issued token ids per user so that logout can revoke every
// token a user holds, not just the one presented.
type Store interface {
	Track(ctx context.Context, userID uint, jti string, expiresAt time.Time) error
	RevokeUser(ctx context.Context, userID uint) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// MemoryStore is the in-process Store used when no Redis is configured.
// State is lost on restart, which un-revokes tokens that have not expired.
type MemoryStore struct {
	mu      sync.RWMutex
	issued  map[uint]map[string]time.Time
	revoked map[string]time.Time
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		issued:  map[uint]map[string]time.Time{},
		revoked: map[string]time.Time{},
		now:     time.Now,
	}
}

func (s *MemoryStore) Track(_ context.Context, userID uint, jti string, expiresAt time.Time) error {
	if jti == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneNoLock()
	set := s.issued[userID]
	if set == nil {
		set = map[string]time.Time{}
		s.issued[userID] = set
	}
	set[jti] = expiresAt
	return nil
}

func (s *MemoryStore) RevokeUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for jti, exp := range s.issued[userID] {
		s.revoked[jti] = exp
	}
	delete(s.issued, userID)
	return nil
}

func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.revoked[jti]
	return ok, nil
}

// pruneNoLock drops entries whose token has expired anyway; caller must hold s.mu.
func (s *MemoryStore) pruneNoLock() {
	now := s.now()
	for jti, exp := range s.revoked {
		if exp.Before(now) {
			delete(s.revoked, jti)
		}
	}
	for uid, set := range s.issued {
		for jti, exp := range set {
			if exp.Before(now) {
				delete(set, jti)
			}
		}
		if len(set) == 0 {
			delete(s.issued, uid)
		}
	}
}
