package session

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/lincup/internal/domain/entity"
	"github.com/oksasatya/lincup/internal/domain/repository"
)

// Key is the redis hash holding the session of a user.
func Key(userID string) string {
	return "user:session:" + userID
}

// RedisStore keeps one session hash per user. The TTL slides: Save and every successful Get
// push the expiry out by ttl, so only idle sessions expire.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, sess *entity.Session) error {
	key := Key(sess.UserID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":    sess.UserID,
		"email":      sess.Email,
		"sid":        sess.SID,
		"created_at": sess.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisStore) Get(ctx context.Context, userID string) (*entity.Session, error) {
	key := Key(userID)
	data, err := s.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, repository.ErrNotFound
	}
	if s.ttl > 0 {
		// a failed touch only shortens the session; the read itself succeeded
		_ = s.rdb.Expire(ctx, key, s.ttl).Err()
	}
	created, _ := time.Parse(time.RFC3339Nano, data["created_at"])
	return &entity.Session{
		UserID:    data["user_id"],
		Email:     data["email"],
		SID:       data["sid"],
		CreatedAt: created,
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.rdb.Del(ctx, Key(userID)).Err()
}

// MemoryStore is a process-local SessionStore without expiry.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]entity.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: map[string]entity.Session{}}
}

func (s *MemoryStore) Save(_ context.Context, sess *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.UserID] = *sess
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sess, nil
}

func (s *MemoryStore) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

var (
	_ repository.SessionStore = (*RedisStore)(nil)
	_ repository.SessionStore = (*MemoryStore)(nil)
)
