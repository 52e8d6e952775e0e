package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"layer-backend/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	id := uuid.New()

	path, err := s.Upload(ctx, id, "my jacket.JPG", bytes.NewReader([]byte("jpegbytes")))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(path, id.String()[:2]+"/"))
	require.True(t, strings.HasSuffix(path, "_my_jacket.jpg"))

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	require.Equal(t, "jpegbytes", string(body))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Download(ctx, path)
	require.ErrorIs(t, err, ErrNotFound)

	// deleting twice is fine
	require.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrNotFound)
}

func TestGenerateStoragePath(t *testing.T) {
	id := uuid.MustParse("12345678-1234-1234-1234-123456789abc")
	require.Equal(t, "12/12345678-1234-1234-1234-123456789abc_image.jpg", generateStoragePath(id, ""))
	require.Equal(t, "12/12345678-1234-1234-1234-123456789abc_photo.png", generateStoragePath(id, "dir/photo.png"))
}

func TestContentType(t *testing.T) {
	require.Equal(t, "image/jpeg", ContentType("a.jpeg"))
	require.Equal(t, "image/png", ContentType("A.PNG"))
	require.Equal(t, "application/octet-stream", ContentType("notes.txt"))
	require.Equal(t, "webp", ImageFormat("x.webp"))
	require.Equal(t, "jpeg", ImageFormat("x.bin"))
}

func TestNewStorage(t *testing.T) {
	_, err := NewStorage(context.Background(), config.StorageConfig{Type: "ftp"})
	require.Error(t, err)

	_, err = NewStorage(context.Background(), config.StorageConfig{Type: "s3"})
	require.ErrorContains(t, err, "AWS_S3_BUCKET")

	s, err := NewStorage(context.Background(), config.StorageConfig{Type: "local", LocalPath: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &LocalStorage{}, s)
}
