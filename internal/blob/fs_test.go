package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStore_RoundTrip(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("fake image bytes")

	err = store.Put(ctx, "index-images/b1/1-page.heic", data, "image/heic")
	require.NoError(t, err)

	obj, err := store.Get(ctx, "index-images/b1/1-page.heic")
	require.NoError(t, err)
	assert.Equal(t, data, obj.Data)
	// heic is not sniffable, so the sidecar has to carry it.
	assert.Equal(t, "image/heic", obj.ContentType)
}

func TestFSStore_SniffsMissingContentType(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	// A real JPEG header, stored without a declared content type.
	data := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

	require.NoError(t, store.Put(ctx, "img.jpg", data, ""))

	obj, err := store.Get(ctx, "img.jpg")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", obj.ContentType)
}

func TestFSStore_NotFound(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "index-images/missing.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	for _, key := range []string{"../outside", "..", "/etc/passwd", "."} {
		_, err := store.Get(ctx, key)
		assert.Error(t, err, "key %q", key)
		assert.NotErrorIs(t, err, ErrNotFound)

		err = store.Put(ctx, key, []byte("x"), "")
		assert.Error(t, err, "key %q", key)
	}
}

func TestFSStore_Overwrite(t *testing.T) {
	store, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "k", []byte("one"), "text/plain"))
	require.NoError(t, store.Put(ctx, "k", []byte("two"), "text/plain"))

	obj, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("two"), obj.Data)
}
