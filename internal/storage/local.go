package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// LocalStore keeps assets on the local filesystem under a single directory.
type LocalStore struct {
	dir     string
	baseURL string
	log     *zap.Logger
}

func NewLocalStore(dir, baseURL string, log *zap.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log.Named("storage.local"),
	}, nil
}

func (s *LocalStore) Put(ctx context.Context, name string, contentType string, r io.Reader) (*Object, error) {
	_ = contentType

	key := newKey(name)
	dst := filepath.Join(s.dir, key)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create media file: %w", err)
	}

	size, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("write media file: %w", err)
	}

	s.log.Info("media stored", zap.String("key", key), zap.Int64("size", size))
	return &Object{
		Key:  key,
		URL:  s.baseURL + "/" + key,
		Size: size,
	}, nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// The key may come from a URL path; keep lookups inside the media dir.
	clean := path.Base(path.Clean("/" + key))
	if clean == "/" || clean == "." {
		return nil, os.ErrNotExist
	}
	return os.Open(filepath.Join(s.dir, clean))
}

// newKey derives a unique storage key preserving a readable hint of the
// original filename and its extension.
func newKey(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))

	hint := slug.Make(base)
	if hint == "" {
		hint = "file"
	}
	if len(hint) > 48 {
		hint = hint[:48]
	}
	return strings.ToLower(ulid.Make().String()) + "-" + hint + ext
}
