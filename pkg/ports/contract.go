package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID)
		session.Workflow.CurrentStep = 3
		session.Workflow.ExtractedParameters[domain.SectionScenario] = map[string]any{"numMCS": 2}
		session.History.Append(domain.MessageRoleUser, "hello")

		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, sessionID, loaded.ID)
		assert.Equal(t, 3, loaded.Workflow.CurrentStep)
		// JSON persistence may turn numbers into float64; only check presence.
		assert.NotNil(t, loaded.Workflow.ExtractedParameters[domain.SectionScenario])
		require.Equal(t, 1, loaded.History.Len())
		assert.Equal(t, "hello", loaded.History.Messages[0].Text)
	})

	t.Run("Load returns isolated copies", func(t *testing.T) {
		first, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		first.Workflow.CurrentStep = 99
		first.Workflow.ExtractedParameters["scratch"] = "mutated"

		second, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, 3, second.Workflow.CurrentStep, "mutating a loaded session must not leak into the store")
		assert.NotContains(t, second.Workflow.ExtractedParameters, "scratch")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "does-not-exist")
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, sessionID)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Delete(ctx, sessionID)
		require.NoError(t, err)

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)

		// Deleting an absent session is not an error.
		assert.NoError(t, store.Delete(ctx, sessionID))
	})
}
