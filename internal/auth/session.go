package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warden/internal/config"

	"github.com/go-redis/redis/v8"
	"github.com/oklog/ulid/v2"
)

const (
	SessionStoreLocal = "local"
	SessionStoreRedis = "redis"
)

// ErrSessionNotFound 会话不存在或已过期
var ErrSessionNotFound = errors.New("session not found")

// Session 登录会话，只保存身份信息，不保存解析后的权限。
type Session struct {
	ID        string
	AccountID uint
	UserName  string
	ExpiresAt time.Time
}

// Expired 判断会话是否过期。
func (s *Session) Expired(now time.Time) bool {
	return s == nil || !now.Before(s.ExpiresAt)
}

// SessionStore 会话存储策略，在启动时选定后注入使用方。
type SessionStore interface {
	Save(ctx context.Context, session Session) error
	Lookup(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

// NewSessionID 生成会话 ID。
func NewSessionID() string {
	return ulid.Make().String()
}

// NewSessionStore 按配置选择会话存储。
func NewSessionStore(cfg *config.Config, ttl time.Duration) (SessionStore, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	switch cfg.SessionStore {
	case "", SessionStoreLocal:
		return NewLocalSessionStore(cfg.SessionLocalSize, ttl), nil
	case SessionStoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		return NewRedisSessionStore(client, cfg.RedisKeyPrefix), nil
	default:
		return nil, fmt.Errorf("unsupported session store: %s", cfg.SessionStore)
	}
}
