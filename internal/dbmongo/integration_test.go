package dbmongo

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gochat/internal/common"
	"gochat/internal/config"
)

// Runs against the docker-compose MongoDB when MONGO_INTEGRATION is set.
func integrationClient(t *testing.T) *MongoClient {
	t.Helper()
	if os.Getenv("MONGO_INTEGRATION") == "" {
		t.Skip("set MONGO_INTEGRATION=1 to run against a live MongoDB")
	}
	cfg := &config.Config{
		MongoDB: config.MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USERNAME", "admin"),
			Password: getEnvOrDefault("MONGO_PASSWORD", "admin123"),
			Database: getEnvOrDefault("MONGO_DATABASE", "gochat_test"),
			Timeout:  5,
		},
	}
	client, err := NewMongoConnection(cfg, zap.NewNop())
	require.NoError(t, err, "ensure MongoDB is running: docker-compose up -d mongo")
	t.Cleanup(func() { client.Close(context.Background()) })
	return client
}

func TestMediaStorage_Integration(t *testing.T) {
	ctx := context.Background()
	storage := NewMediaStorage(integrationClient(t), "http://localhost:8080/media")

	t.Run("upload and download", func(t *testing.T) {
		content := "\x89PNG\r\n\x1a\nfake"
		uploaded, err := storage.UploadFile(ctx, "a.png", "image/png", 9, strings.NewReader(content))
		require.NoError(t, err)
		assert.NotEmpty(t, uploaded.ID)
		assert.Equal(t, int64(len(content)), uploaded.Size)

		r, file, err := storage.DownloadFile(ctx, uploaded.ID)
		require.NoError(t, err)
		defer r.Close()
		assert.Equal(t, "image/png", file.MIMEType)
		assert.Equal(t, uint64(9), file.UploadedBy)

		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, content, string(got))

		require.NoError(t, storage.DeleteFile(ctx, uploaded.ID))
		_, _, err = storage.DownloadFile(ctx, uploaded.ID)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	t.Run("image host upload returns uri", func(t *testing.T) {
		uri, err := storage.Upload(ctx, 3, &common.Image{MIMEType: "image/gif", Data: []byte("GIF89a")})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(uri, "http://localhost:8080/media/"))
		storage.DeleteFile(ctx, strings.TrimPrefix(uri, "http://localhost:8080/media/"))
	})

	t.Run("missing and malformed ids", func(t *testing.T) {
		_, _, err := storage.DownloadFile(ctx, "507f1f77bcf86cd799439011")
		assert.True(t, errors.Is(err, common.ErrNotFound))
		_, _, err = storage.DownloadFile(ctx, "invalid-objectid")
		assert.True(t, errors.Is(err, common.ErrNotFound))
		assert.True(t, errors.Is(storage.DeleteFile(ctx, "invalid-objectid"), common.ErrNotFound))
	})
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
