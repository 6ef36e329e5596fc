package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spigell/interview-agent/internal/interview"
)

const defaultKeyPrefix = "interview:session:"

// keyValue is the part of *redis.Client used by RedisStore.
type keyValue interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

// RedisStore keeps snapshots as JSON strings with an optional TTL.
type RedisStore struct {
	rdb    keyValue
	ttl    time.Duration
	prefix string
}

func NewRedisStore(rdb keyValue, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl, prefix: defaultKeyPrefix}
}

// NewRedisClient accepts either host:port or a redis:// / rediss:// URL and
// checks the connection.
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis address is empty")
	}

	var client *redis.Client
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		opt, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{Addr: addr})
	}

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) key(sessionID string) string {
	return s.prefix + sessionID
}

func (s *RedisStore) Save(ctx context.Context, snapshot *interview.Snapshot) (string, error) {
	if err := validate(snapshot); err != nil {
		return "", err
	}

	b, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := s.key(snapshot.SessionID)
	if err := s.rdb.Set(ctx, key, b, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("store snapshot: %w", err)
	}
	return key, nil
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (*interview.Snapshot, error) {
	if err := validateID(sessionID); err != nil {
		return nil, err
	}

	key := s.key(sessionID)
	raw, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	var snapshot interview.Snapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return &snapshot, nil
}
