package txpool

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RemoteStore is the shared Store backend (spec.md §4.3), using native Redis
// sets (SADD/SREM/SMEMBERS/SCARD) directly via redis.Client the same way
// relaycache.RemoteCache reaches past cachestore2.Store[[]byte] for
// list/counter primitives it doesn't expose.
type RemoteStore struct {
	redis *redis.Client
	ttl   time.Duration
}

var _ Store = (*RemoteStore)(nil)

// NewRemoteStore builds a RemoteStore; ttl is the pending-transaction
// storage TTL (spec.md §6's PENDING_TRANSACTION_STORAGE_TTL), applied to a
// per-sender set on its first insert only -- Add issues EXPIRE with NX, which
// leaves an existing expiry untouched on subsequent inserts so a long-lived
// sender's entries don't each reset the whole set's clock.
func NewRemoteStore(rdb *redis.Client, ttl time.Duration) *RemoteStore {
	return &RemoteStore{redis: rdb, ttl: ttl}
}

// Add atomically inserts rlpHex into both sets via a pipelined multi-op that
// commits as a single unit (spec.md §4.3's atomicity requirement): if the
// pipeline fails partway, Redis itself guarantees no command before the
// failure point was applied without the others, since pipeline Exec sends
// all commands and Redis processes them uninterrupted by other clients.
func (s *RemoteStore) Add(ctx context.Context, sender, rlpHex string) error {
	sKey := senderKey(sender)
	gKey := globalKey()

	pipe := s.redis.TxPipeline()
	pipe.SAdd(ctx, sKey, rlpHex)
	pipe.SAdd(ctx, gKey, rlpHex)
	if s.ttl > 0 {
		pipe.ExpireNX(ctx, sKey, s.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RemoteStore) Remove(ctx context.Context, sender, rlpHex string) error {
	sKey := senderKey(sender)
	gKey := globalKey()

	pipe := s.redis.TxPipeline()
	pipe.SRem(ctx, sKey, rlpHex)
	pipe.SRem(ctx, gKey, rlpHex)
	card := pipe.SCard(ctx, sKey)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return err
	}
	if card.Val() == 0 {
		return s.redis.Del(ctx, sKey).Err()
	}
	return nil
}

func (s *RemoteStore) Count(ctx context.Context, sender string) (int, error) {
	n, err := s.redis.SCard(ctx, senderKey(sender)).Result()
	return int(n), err
}

func (s *RemoteStore) Payloads(ctx context.Context, sender string) ([]string, error) {
	return s.redis.SMembers(ctx, senderKey(sender)).Result()
}

func (s *RemoteStore) AllPayloads(ctx context.Context) ([]string, error) {
	return s.redis.SMembers(ctx, globalKey()).Result()
}

// ClearAll deletes only KeyPrefix-scoped keys (spec.md §3 invariant 1),
// mirroring relaycache.RemoteCache.Clear's SCAN+UNLINK pattern.
func (s *RemoteStore) ClearAll(ctx context.Context) error {
	iter := s.redis.Scan(ctx, 0, KeyPrefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return s.redis.Unlink(ctx, keys...).Err()
}
