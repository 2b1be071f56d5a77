package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

type memoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore keeps sessions in process memory; entries expire after their
// ttl and are purged every cleanupInterval.
func NewMemoryStore(defaultTTL, cleanupInterval time.Duration) Store {
	return &memoryStore{cache: cache.New(defaultTTL, cleanupInterval)}
}

func (s *memoryStore) Get(ctx context.Context, id string) (*Session, error) {
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return v.(*Session).clone(), nil
}

func (s *memoryStore) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	s.cache.Set(sess.ID, sess.clone(), ttl)
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}
