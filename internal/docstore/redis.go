package docstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// maxUpdateRetries bounds optimistic retries when another writer touches
// the key between WATCH and EXEC.
const maxUpdateRetries = 10

// RedisStore keeps each document as a JSON string under "<prefix>:<path>".
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRedis wraps rdb. The store owns the client and closes it on Close.
func NewRedis(rdb redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "doc"
	}
	return &RedisStore{rdb: rdb, prefix: prefix}
}

func (s *RedisStore) key(ref Ref) string { return s.prefix + ":" + ref.Path() }

func (s *RedisStore) Set(ctx context.Context, ref Ref, data Data) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	raw, err := encode(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	return s.rdb.Set(ctx, s.key(ref), raw, 0).Err()
}

// Update merges data into the stored JSON under WATCH, so a concurrent
// writer makes the transaction retry instead of being overwritten.
func (s *RedisStore) Update(ctx context.Context, ref Ref, data Data) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	if len(data) == 0 {
		return ErrEmptyUpdate
	}
	key := s.key(ref)
	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("update %s: %w", ref, ErrNotFound)
		}
		if err != nil {
			return err
		}
		doc, err := decode(raw)
		if err != nil {
			return fmt.Errorf("decode %s: %w", ref, err)
		}
		merged, err := encode(merge(doc, data))
		if err != nil {
			return fmt.Errorf("encode %s: %w", ref, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateRetries; i++ {
		err := s.rdb.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("update %s: gave up after %d conflicting writes", ref, maxUpdateRetries)
}

func (s *RedisStore) Get(ctx context.Context, ref Ref) (*Snapshot, error) {
	if ref.IsZero() {
		return nil, ErrInvalidRef
	}
	raw, err := s.rdb.Get(ctx, s.key(ref)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &Snapshot{Ref: ref}, nil
	}
	if err != nil {
		return nil, err
	}
	data, err := decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return &Snapshot{Ref: ref, Exists: true, Data: data}, nil
}

func (s *RedisStore) Delete(ctx context.Context, ref Ref) error {
	if ref.IsZero() {
		return ErrInvalidRef
	}
	return s.rdb.Del(ctx, s.key(ref)).Err()
}

func (s *RedisStore) Close() error { return s.rdb.Close() }
