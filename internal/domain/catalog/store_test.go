package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	ownerID := uuid.New()

	t.Run("creates active store", func(t *testing.T) {
		store, err := NewStore(ownerID, "Celuvia Prints", "Fine art prints", "shop@example.com", "07700900000")
		require.NoError(t, err)
		require.NotNil(t, store)

		assert.Equal(t, ownerID, store.OwnerID)
		assert.Equal(t, "Celuvia Prints", store.Name)
		assert.True(t, store.IsActive)
		assert.True(t, store.IsOwnedBy(ownerID))
		assert.False(t, store.IsOwnedBy(uuid.New()))
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewStore(ownerID, "", "desc", "", "")
		require.Error(t, err)
	})

	t.Run("fails with empty owner", func(t *testing.T) {
		_, err := NewStore(uuid.Nil, "Celuvia Prints", "", "", "")
		require.Error(t, err)
	})
}

func TestStoreLifecycle(t *testing.T) {
	store, err := NewStore(uuid.New(), "Celuvia Prints", "", "", "")
	require.NoError(t, err)

	store.Close()
	assert.False(t, store.IsActive)

	store.Reopen()
	assert.True(t, store.IsActive)
}
