package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltwiz/voltwiz/pkg/adapters/redis"
)

func TestLocker_AcquireAndRelease(t *testing.T) {
	client := newTestClient(t)
	locker := redis.NewLocker(client, "voltwiz:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "s1", 5*time.Second)
	require.NoError(t, err)

	// A second acquire for the same key blocks until released or canceled.
	blocked, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blocked, "s1", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "s1", 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestLocker_DistinctKeysDoNotContend(t *testing.T) {
	client := newTestClient(t)
	locker := redis.NewLocker(client, "voltwiz:")
	ctx := context.Background()

	unlockA, err := locker.Lock(ctx, "a", 5*time.Second)
	require.NoError(t, err)
	defer unlockA(ctx)

	unlockB, err := locker.Lock(ctx, "b", 5*time.Second)
	require.NoError(t, err)
	defer unlockB(ctx)
}
