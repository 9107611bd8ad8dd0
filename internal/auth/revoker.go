package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/grand-thief-cash/todolist/infra/application/components/redis"
	appconsts "github.com/grand-thief-cash/todolist/infra/application/consts"
	"github.com/grand-thief-cash/todolist/infra/application/core"
	"github.com/grand-thief-cash/todolist/internal/consts"
)

// Revoker is the denylist of logged-out token ids. Entries live until the token would expire anyway.
type Revoker interface {
	core.Component
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

type memRevoker struct {
	*core.BaseComponent
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevoker() Revoker {
	return &memRevoker{
		BaseComponent: core.NewBaseComponent(consts.COMP_TOKEN_REVOKER, appconsts.COMPONENT_LOGGING),
		entries:       make(map[string]time.Time),
		now:           time.Now,
	}
}

func (r *memRevoker) Revoke(_ context.Context, tokenID string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, exp := range r.entries {
		if !exp.After(now) {
			delete(r.entries, id)
		}
	}
	if until.After(now) {
		r.entries[tokenID] = until
	}
	return nil
}

func (r *memRevoker) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.entries[tokenID]
	return ok && exp.After(r.now()), nil
}

// kvStore is the slice of go-redis the denylist needs.
type kvStore interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
}

type redisRevoker struct {
	*core.BaseComponent
	Redis *redis.RedisComponent `infra:"dep:redis"`

	kv  kvStore
	key func(parts ...string) string
	now func() time.Time
}

func NewRedisRevoker() Revoker {
	return &redisRevoker{
		BaseComponent: core.NewBaseComponent(consts.COMP_TOKEN_REVOKER, appconsts.COMPONENT_LOGGING),
		now:           time.Now,
	}
}

func (r *redisRevoker) Start(ctx context.Context) error {
	if err := r.BaseComponent.Start(ctx); err != nil {
		return err
	}
	if r.Redis == nil || r.Redis.Client() == nil {
		return errors.New("token_revoker: redis client not available")
	}
	r.kv = r.Redis.Client()
	r.key = r.Redis.Key
	return nil
}

func (r *redisRevoker) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := until.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	if err := r.kv.Set(ctx, r.key("revoked", tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *redisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.kv.Exists(ctx, r.key("revoked", tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return n > 0, nil
}
