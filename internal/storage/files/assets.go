package files

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// AssetStore writes objects under dir and hands out the public URL the
// object will have once the directory is synced to the storage bucket.
type AssetStore struct {
	dir     string
	baseURL string
	bucket  string
}

func NewAssetStore(dir, storageURL, bucket string) *AssetStore {
	return &AssetStore{dir: dir, baseURL: strings.TrimRight(storageURL, "/"), bucket: bucket}
}

func (s *AssetStore) Put(ctx context.Context, name string, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if name == "" || name != filepath.Base(name) {
		return fmt.Errorf("invalid asset name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write asset %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(s.dir, name))
}

// PublicURL is <storage>/object/public/<bucket>/<name>.
func (s *AssetStore) PublicURL(name string) string {
	return s.baseURL + "/object/public/" + url.PathEscape(s.bucket) + "/" + url.PathEscape(name)
}
