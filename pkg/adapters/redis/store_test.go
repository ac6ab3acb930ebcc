package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltwiz/voltwiz/pkg/adapters/redis"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	return backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunSessionStoreContract(t, store)
}

func TestStore_TTLExpiration(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	session := domain.NewSession("session-ttl")
	session.Workflow.CurrentStep = 3
	require.NoError(t, store.Save(ctx, session))

	sessions, err := store.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, sessions, "session-ttl")

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "session-ttl")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Index pruning compares against wall-clock time, so wait past the TTL.
	time.Sleep(1200 * time.Millisecond)

	sessions, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStore_RoundTripPreservesWorkflow(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ctx := context.Background()

	session := domain.NewSession("s1")
	session.Workflow.CurrentStep = 4
	session.Workflow.ExtractedParameters["scenario"] = map[string]any{"numMCS": 2.0}
	session.Workflow.ValidationResults = &domain.ValidationResult{IsValid: true, Score: 0.9}
	session.History.Append(domain.MessageRoleUser, "hello")
	session.History.Append(domain.MessageRoleAgent, "hi")

	require.NoError(t, store.Save(ctx, session))
	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)

	assert.Equal(t, 4, loaded.Workflow.CurrentStep)
	assert.Equal(t, map[string]any{"numMCS": 2.0}, loaded.Workflow.ExtractedParameters["scenario"])
	require.NotNil(t, loaded.Workflow.ValidationResults)
	assert.Equal(t, 0.9, loaded.Workflow.ValidationResults.Score)
	assert.Equal(t, 2, loaded.History.Len())
}
