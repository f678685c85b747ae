package auth

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
)

// LocalSessionStore 进程内会话存储，带容量上限和过期时间。
type LocalSessionStore struct {
	cache *lru.LRU[string, Session]
}

// NewLocalSessionStore 创建进程内会话存储。
func NewLocalSessionStore(size int, ttl time.Duration) *LocalSessionStore {
	if size <= 0 {
		size = 10000
	}
	return &LocalSessionStore{
		cache: lru.NewLRU[string, Session](size, nil, ttl),
	}
}

func (s *LocalSessionStore) Save(_ context.Context, session Session) error {
	s.cache.Add(session.ID, session)
	return nil
}

func (s *LocalSessionStore) Lookup(_ context.Context, id string) (*Session, error) {
	session, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.Expired(time.Now()) {
		s.cache.Remove(id)
		return nil, ErrSessionNotFound
	}
	return &session, nil
}

func (s *LocalSessionStore) Delete(_ context.Context, id string) error {
	s.cache.Remove(id)
	return nil
}
