package suggestions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisKey  = "suggestions:document"
	maxUpdateRetries = 10
)

// RedisStore keeps the document under a single key and uses optimistic
// WATCH/MULTI transactions for updates. Updates from this process are also
// serialized locally so WATCH only ever races other processes.
type RedisStore struct {
	client *redis.Client
	key    string
	keys   VoteKeys
	mu     sync.Mutex
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Load(ctx context.Context) (*Document, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		doc := NewDocument()
		if err := s.Save(ctx, doc); err != nil {
			return nil, err
		}
		return doc, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return DecodeWith(raw, s.voteKeys())
}

func (s *RedisStore) Save(ctx context.Context, doc *Document) error {
	raw, err := Encode(doc)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, raw, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

func (s *RedisStore) NextID(ctx context.Context) (int64, error) {
	return nextID(ctx, s)
}

func (s *RedisStore) Update(ctx context.Context, fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txf := func(tx *redis.Tx) error {
		doc := NewDocument()
		raw, err := tx.Get(ctx, s.key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
		case err != nil:
			return fmt.Errorf("redis get %s: %w", s.key, err)
		default:
			if doc, err = DecodeWith(raw, s.voteKeys()); err != nil {
				return err
			}
		}

		if err := fn(doc); err != nil {
			return err
		}
		out, err := Encode(doc)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, s.key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, s.key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis update %s: too much contention", s.key)
}

// WithVoteKeys sets the legacy vote keys accepted on load.
func (s *RedisStore) WithVoteKeys(keys VoteKeys) *RedisStore {
	s.keys = keys
	return s
}

func (s *RedisStore) voteKeys() VoteKeys {
	if s.keys == nil {
		return DefaultVoteKeys()
	}
	return s.keys
}
