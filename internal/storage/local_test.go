package storage

import (
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "/media/", zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestPutAndOpen(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	obj, err := store.Put(ctx, "Brand Photo.PNG", "image/png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), obj.Size)
	assert.True(t, strings.HasSuffix(obj.Key, "-brand-photo.png"), obj.Key)
	assert.Equal(t, "/media/"+obj.Key, obj.URL)

	r, err := store.Open(ctx, obj.Key)
	require.NoError(t, err)
	defer r.Close()
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))
}

func TestPutKeysAreUnique(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, err := store.Put(ctx, "same.pdf", "application/pdf", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := store.Put(ctx, "same.pdf", "application/pdf", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Key, b.Key)
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.Open(ctx, "../secret.txt")
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = store.Open(ctx, "")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
