package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	root := filepath.Join(t.TempDir(), "uploads")
	store, err := NewLocalStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "cvs/one.txt", strings.NewReader("hello"), "text/plain"))
	_, err = os.Stat(filepath.Join(root, "cvs", "one.txt"))
	require.NoError(t, err)

	rc, err := store.Open(ctx, "cvs/one.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "hello", string(data))

	require.NoError(t, store.Delete(ctx, "cvs/one.txt"))
	_, err = store.Open(ctx, "cvs/one.txt")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "cvs/one.txt"), ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = store.Save(context.Background(), "../escape.txt", strings.NewReader("x"), "")
	var storeErr *Error
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "save", storeErr.Op)
	assert.ErrorIs(t, err, ErrInvalidKey)
}
