package storage

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcminio "github.com/testcontainers/testcontainers-go/modules/minio"
)

func setupMinio(t *testing.T) *MinioStore {
	t.Helper()

	if testing.Short() {
		t.Skip("minio integration test skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()

	ctr, err := tcminio.Run(ctx, "minio/minio:RELEASE.2024-01-16T16-07-38Z",
		tcminio.WithUsername("designhub"),
		tcminio.WithPassword("designhub-secret"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(ctr) })

	endpoint, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := NewMinioStore(ctx, MinioConfig{
		Endpoint:  endpoint,
		AccessKey: ctr.Username,
		SecretKey: ctr.Password,
		Bucket:    "designhub-test",
	})
	require.NoError(t, err)

	return store
}

func TestMinioStore(t *testing.T) {
	store := setupMinio(t)
	ctx := context.Background()

	t.Run("round_trip", func(t *testing.T) {
		content := []byte("\x89PNG\r\n\x1a\nminio bytes")

		name, err := store.Save(ctx, bytes.NewReader(content), int64(len(content)), "image/png")
		require.NoError(t, err)
		require.NoError(t, ValidateName(name))

		obj, err := store.Open(ctx, name)
		require.NoError(t, err)
		defer obj.Close()

		got, err := io.ReadAll(obj)
		require.NoError(t, err)
		assert.Equal(t, content, got)
		assert.Equal(t, int64(len(content)), obj.Size)
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("unknown_size", func(t *testing.T) {
		name, err := store.Save(ctx, bytes.NewReader([]byte("streamed")), -1, "application/octet-stream")
		require.NoError(t, err)

		obj, err := store.Open(ctx, name)
		require.NoError(t, err)
		defer obj.Close()
		assert.Equal(t, int64(len("streamed")), obj.Size)
	})

	t.Run("missing_key", func(t *testing.T) {
		_, err := store.Open(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("invalid_names", func(t *testing.T) {
		for _, name := range []string{"../x", "..", "", "a/b", `a\b`} {
			_, err := store.Open(ctx, name)
			assert.ErrorIs(t, err, ErrInvalidName, "name %q", name)
		}
	})
}
