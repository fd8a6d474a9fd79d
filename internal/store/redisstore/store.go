package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dkrough/chat-backend/internal/chat"
)

// Store retains raw upstream bodies that could not be ingested, keyed by
// chat and request kind. Entries expire; recovery is best effort after the
// TTL has passed.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr, password string, db int, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *Store) Close() error { return s.rdb.Close() }

func key(chatID uint64, kind chat.RequestKind) string {
	return fmt.Sprintf("rawbody:%d:%s", chatID, kind)
}

func (s *Store) Retain(ctx context.Context, chatID uint64, kind chat.RequestKind, raw []byte) error {
	return s.rdb.Set(ctx, key(chatID, kind), raw, s.ttl).Err()
}

func (s *Store) Load(ctx context.Context, chatID uint64, kind chat.RequestKind) ([]byte, bool, error) {
	raw, err := s.rdb.Get(ctx, key(chatID, kind)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (s *Store) Delete(ctx context.Context, chatID uint64, kind chat.RequestKind) error {
	return s.rdb.Del(ctx, key(chatID, kind)).Err()
}
