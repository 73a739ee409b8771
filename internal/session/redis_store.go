package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/guitar-shop/internal/cache"
	"github.com/magabrotheeeer/guitar-shop/internal/stores"
)

// ErrMissingSessionID возвращается при пустом идентификаторе сессии.
var ErrMissingSessionID = errors.New("missing session id")

// RedisStore хранит снапшоты в redis под ключом "session:<id>".
type RedisStore struct {
	cache  *cache.Cache
	prefix string
	ttl    time.Duration
}

// NewRedisStore создаёт хранилище снапшотов поверх кэша.
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{
		cache:  c,
		prefix: "session:",
		ttl:    ttl,
	}
}

func (r *RedisStore) key(sessionID string) string {
	return r.prefix + sessionID
}

// Load читает снапшот и проверяет его так же, как клиент при гидратации.
func (r *RedisStore) Load(ctx context.Context, sessionID string) (*stores.InitialData, error) {
	const op = "session.RedisStore.Load"
	if sessionID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrMissingSessionID)
	}

	var data stores.InitialData
	found, err := r.cache.Get(ctx, r.key(sessionID), &data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, nil
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &data, nil
}

// Save сохраняет снапшот и продлевает его время жизни.
func (r *RedisStore) Save(ctx context.Context, sessionID string, data stores.InitialData) error {
	const op = "session.RedisStore.Save"
	if sessionID == "" {
		return fmt.Errorf("%s: %w", op, ErrMissingSessionID)
	}
	if err := r.cache.Set(ctx, r.key(sessionID), data, r.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет снапшот.
func (r *RedisStore) Delete(ctx context.Context, sessionID string) error {
	const op = "session.RedisStore.Delete"
	if err := r.cache.Invalidate(ctx, r.key(sessionID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
