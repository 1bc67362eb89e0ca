package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductImageKey(t *testing.T) {
	productID := uuid.New()

	t.Run("keeps the lowercased extension", func(t *testing.T) {
		key := ProductImageKey(productID, "Photo.JPG")
		assert.True(t, strings.HasPrefix(key, "products/"+productID.String()+"/"))
		assert.True(t, strings.HasSuffix(key, ".jpg"))
	})

	t.Run("defaults to jpg when the name has no extension", func(t *testing.T) {
		key := ProductImageKey(productID, "photo")
		assert.True(t, strings.HasSuffix(key, ".jpg"))
	})

	t.Run("generates a fresh key per call", func(t *testing.T) {
		assert.NotEqual(t, ProductImageKey(productID, "a.png"), ProductImageKey(productID, "a.png"))
	})
}

func TestStubImageStorage(t *testing.T) {
	stub := NewStubImageStorage()
	ctx := context.Background()

	t.Run("generates upload and download URLs", func(t *testing.T) {
		uploadURL, expiresAt, err := stub.GenerateUploadURL(ctx, "products/x/y.jpg", "image/jpeg", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, uploadURL, "products/x/y.jpg")
		assert.True(t, expiresAt.After(time.Now()))

		downloadURL, _, err := stub.GenerateDownloadURL(ctx, "products/x/y.jpg", time.Minute)
		require.NoError(t, err)
		assert.Contains(t, downloadURL, "products/x/y.jpg")
	})

	t.Run("rejects empty keys", func(t *testing.T) {
		_, _, err := stub.GenerateUploadURL(ctx, "", "image/jpeg", time.Minute)
		assert.Error(t, err)
		_, err2 := stub.ObjectExists(ctx, "")
		assert.Error(t, err2)
		assert.Error(t, stub.DeleteObject(ctx, ""))
	})

	t.Run("reports objects as present", func(t *testing.T) {
		exists, err := stub.ObjectExists(ctx, "products/x/y.jpg")
		require.NoError(t, err)
		assert.True(t, exists)
	})
}
