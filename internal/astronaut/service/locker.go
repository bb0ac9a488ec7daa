package service

import (
	"context"
	"hash/fnv"
	"sync"

	dErrors "stargate/pkg/domain-errors"
)

// numLockShards spreads per-person locks over a fixed set of mutexes. Two people
// may share a shard; that only costs contention, never correctness.
const numLockShards = 128

// shardedLocker is the default in-process Locker.
type shardedLocker struct {
	shards [numLockShards]chan struct{}
}

func newShardedLocker() *shardedLocker {
	l := &shardedLocker{}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

// Lock acquires the shard for key, giving up when ctx is done.
func (l *shardedLocker) Lock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "lock aborted: context cancelled")
	}
	shard := l.shards[shardFor(key)]
	select {
	case shard <- struct{}{}:
	case <-ctx.Done():
		return nil, dErrors.Wrap(ctx.Err(), dErrors.CodeTimeout, "timed out waiting for lock")
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-shard })
	}, nil
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % numLockShards
}
