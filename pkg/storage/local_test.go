package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	resp, err := store.Upload(ctx, &UploadRequest{
		Key:         "users/abc/profile.png",
		Reader:      strings.NewReader("png-bytes"),
		ContentType: "image/png",
	})
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/users/abc/profile.png", resp.URL)
	assert.Equal(t, int64(len("png-bytes")), resp.Size)

	data, err := os.ReadFile(filepath.Join(dir, "users", "abc", "profile.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	exists, err := store.FileExists(ctx, "users/abc/profile.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, "users/abc/profile.png"))
	exists, err = store.FileExists(ctx, "users/abc/profile.png")
	require.NoError(t, err)
	assert.False(t, exists)

	// Deleting a missing object is not an error.
	assert.NoError(t, store.Delete(ctx, "users/abc/profile.png"))
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir(), "http://localhost")
	require.NoError(t, err)

	for _, key := range []string{"", "/etc/passwd", "../outside.txt", "a/../../b"} {
		_, err := store.Upload(context.Background(), &UploadRequest{Key: key, Reader: strings.NewReader("x")})
		assert.ErrorIs(t, err, ErrInvalidKey, key)
	}
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Options{Provider: "ftp"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
