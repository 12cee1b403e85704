//go:build integration

package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopapi/backend/internal/infrastructure/config"
	"github.com/shopapi/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap/zaptest"
)

const (
	minioUser     = "minioadmin"
	minioPassword = "minioadmin-secret"
)

// newMinioConfig starts an S3-compatible MinIO container
func newMinioConfig(t *testing.T) config.StorageConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			Cmd:          []string{"server", "/data"},
			ExposedPorts: []string{"9000/tcp"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPassword,
			},
			WaitingFor: wait.ForHTTP("/minio/health/live").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start MinIO container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: Failed to terminate minio container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000/tcp")
	require.NoError(t, err)

	return config.StorageConfig{
		Enabled:         true,
		Endpoint:        fmt.Sprintf("http://%s:%s", host, port.Port()),
		Region:          "us-east-1",
		Bucket:          "shop-images-test",
		AccessKeyID:     minioUser,
		SecretAccessKey: minioPassword,
		UsePathStyle:    true,
	}
}

func TestS3ImageStorage_Lifecycle(t *testing.T) {
	cfg := newMinioConfig(t)
	ctx := context.Background()

	images, err := storage.NewS3ImageStorage(&cfg, storage.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	require.NoError(t, images.EnsureBucket(ctx))
	// A second call finds the bucket
	require.NoError(t, images.EnsureBucket(ctx))

	key := "products/abc/photo.png"
	exists, err := images.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, images.Upload(ctx, key, []byte("\x89PNG\r\n\x1a\nfake"), "image/png"))

	exists, err = images.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, cfg.Endpoint+"/shop-images-test/"+key, images.PublicURL(key))

	require.NoError(t, images.DeleteObject(ctx, key))
	exists, err = images.ObjectExists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
