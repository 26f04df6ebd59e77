package files

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apt_reviews/internal/domain"
)

func TestBatchStore_ListOrdersByOffset(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"fetch-batch-100.json", "fetch-batch-20.json", "fetch-batch-0.json", "extra.json", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("{}"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.json"), 0o755))

	names, err := NewBatchStore(dir).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"fetch-batch-0.json", "fetch-batch-20.json", "fetch-batch-100.json", "extra.json"}, names)
}

func TestBatchStore_ListMissingDir(t *testing.T) {
	_, err := NewBatchStore(filepath.Join(t.TempDir(), "nope")).List(context.Background())
	require.Error(t, err)
}

func TestBatchStore_WriteRead(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "batch")
	s := NewBatchStore(dir)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, domain.BatchFileName(40), []byte(`{"content":[]}`)))
	b, err := s.Read(ctx, "fetch-batch-40.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":[]}`, string(b))

	_, err = s.Read(ctx, "fetch-batch-60.json")
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	assert.Error(t, s.Write(ctx, "../escape.json", nil))
}

func TestAssetStore_PutAndPublicURL(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "assets")
	s := NewAssetStore(dir, "https://proj.supabase.co/storage/v1/", "apt-images")

	require.NoError(t, s.Put(context.Background(), "1-rue-test.jpg", strings.NewReader("JPEG")))
	b, err := os.ReadFile(filepath.Join(dir, "1-rue-test.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "JPEG", string(b))

	assert.Equal(t, "https://proj.supabase.co/storage/v1/object/public/apt-images/1-rue-test.jpg", s.PublicURL("1-rue-test.jpg"))
}
