package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-ConsultationService/internal/wizard"
)

// RedisStore хранилище сессий в Redis: JSON под ключом consultation:session:<id> с TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создает хранилище
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Get возвращает сессию по ID
func (r *RedisStore) Get(ctx context.Context, id string) (*wizard.Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - %v", ErrStore, err)
	}
	return decode(data)
}

// Save сохраняет сессию и продлевает TTL
func (r *RedisStore) Save(ctx context.Context, s *wizard.Session) error {
	data, err := encode(s)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, sessionKey(s.ID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("%w: Save - %v", ErrStore, err)
	}
	return nil
}

// Delete удаляет сессию
func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return fmt.Errorf("%w: Delete - %v", ErrStore, err)
	}
	return nil
}
