package middleware

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voltwiz/voltwiz/pkg/domain"
)

func testKey(b byte) []byte {
	return bytes.Repeat([]byte{b}, 32)
}

func sampleSession(id string) *domain.Session {
	session := domain.NewSession(id)
	session.Workflow.CurrentStep = 3
	session.Workflow.ExtractedParameters = map[string]any{
		"scenario": map[string]any{"numMCS": float64(2), "numCEV": float64(8)},
	}
	session.History.Append(domain.MessageRoleUser, "we run 8 vehicles")
	return session
}

func TestEncryption_RoundTrip(t *testing.T) {
	backend := newRawStore()
	store := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(1)})(backend)

	original := sampleSession("enc-1")
	require.NoError(t, store.Save(context.Background(), original))

	loaded, err := store.Load(context.Background(), "enc-1")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Workflow.CurrentStep)
	assert.Equal(t, original.Workflow.ExtractedParameters, loaded.Workflow.ExtractedParameters)
	assert.Equal(t, 1, loaded.History.Len())
}

func TestEncryption_BackendSeesOnlyCiphertext(t *testing.T) {
	backend := newRawStore()
	store := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(1)})(backend)

	require.NoError(t, store.Save(context.Background(), sampleSession("enc-2")))

	persisted := backend.saved["enc-2"]
	require.NotNil(t, persisted)
	assert.Nil(t, persisted.History)
	require.Len(t, persisted.Workflow.ExtractedParameters, 1)
	_, ok := persisted.Workflow.ExtractedParameters[envelopeKey]
	assert.True(t, ok, "backend record must be an envelope")
	assert.NotContains(t, persisted.Workflow.ExtractedParameters, "scenario")
}

func TestEncryption_KeyRotation(t *testing.T) {
	backend := newRawStore()
	oldKey, newKey := testKey(1), testKey(2)

	oldStore := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: oldKey})(backend)
	require.NoError(t, oldStore.Save(context.Background(), sampleSession("enc-3")))

	rotated := NewEncryptionMiddleware(EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(backend)

	loaded, err := rotated.Load(context.Background(), "enc-3")
	require.NoError(t, err)
	assert.Equal(t, 3, loaded.Workflow.CurrentStep)
}

func TestEncryption_WrongKeyFails(t *testing.T) {
	backend := newRawStore()
	store := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(1)})(backend)
	require.NoError(t, store.Save(context.Background(), sampleSession("enc-4")))

	wrong := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(9)})(backend)
	_, err := wrong.Load(context.Background(), "enc-4")
	assert.ErrorContains(t, err, "decrypt")
}

func TestEncryption_PlainRecordFailsClosed(t *testing.T) {
	backend := newRawStore()
	require.NoError(t, backend.Save(context.Background(), sampleSession("enc-5")))

	store := NewEncryptionMiddleware(EncryptionConfig{ActiveKey: testKey(1)})(backend)
	_, err := store.Load(context.Background(), "enc-5")
	assert.ErrorContains(t, err, "envelope")
}

func TestEncryption_ShortKeyPanics(t *testing.T) {
	assert.Panics(t, func() {
		NewEncryptionMiddleware(EncryptionConfig{ActiveKey: []byte("too short")})
	})
}
