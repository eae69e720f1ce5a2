package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// ErrAssetNotFound is returned by AssetStore.Open when no asset exists under the key.
var ErrAssetNotFound = errors.New("asset not found")

// AssetStore persists uploaded files and hands them back for serving.
// Keys are slash separated and relative to the store root, e.g. "pokemons/25.png".
type AssetStore interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Open(ctx context.Context, key string) (*Asset, error)
}

// Asset is an open stored file. Callers must Close Content.
type Asset struct {
	Content     io.ReadSeekCloser
	Size        int64
	ModTime     time.Time
	ContentType string // empty when the store does not record it
}

// CleanAssetKey normalises a request path into a store key. It returns ""
// for paths that do not name a file inside the store.
func CleanAssetKey(p string) string {
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	if key == "" || key == "." {
		return ""
	}
	return key
}

// LocalStore keeps assets on an afero filesystem rooted at the assets directory.
type LocalStore struct {
	fs afero.Fs
}

// NewLocalStore returns a store rooted at dir on the OS filesystem.
func NewLocalStore(dir string) *LocalStore {
	return NewLocalStoreFs(afero.NewBasePathFs(afero.NewOsFs(), dir))
}

// NewLocalStoreFs wraps an existing filesystem whose root is the assets directory.
func NewLocalStoreFs(fs afero.Fs) *LocalStore {
	return &LocalStore{fs: fs}
}

// Save writes data under key, creating parent directories and replacing any
// existing file.
func (s *LocalStore) Save(_ context.Context, key string, data []byte, _ string) error {
	if dir := path.Dir(key); dir != "." {
		if err := s.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create asset directory %s: %w", dir, err)
		}
	}
	if err := afero.WriteFile(s.fs, key, data, 0o644); err != nil {
		return fmt.Errorf("write asset %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) Open(_ context.Context, key string) (*Asset, error) {
	f, err := s.fs.Open(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrAssetNotFound
		}
		return nil, fmt.Errorf("open asset %s: %w", key, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat asset %s: %w", key, err)
	}
	if info.IsDir() {
		f.Close()
		return nil, ErrAssetNotFound
	}

	return &Asset{Content: f, Size: info.Size(), ModTime: info.ModTime()}, nil
}
