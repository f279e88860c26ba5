package dirhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_PutGet(t *testing.T) {
	cache := NewCache()

	d1 := Digest{0x01, 0x02}
	d2 := Digest{0x03, 0x04}

	_, ok := cache.Get("/a")
	assert.False(t, ok, "empty cache should miss")
	assert.True(t, cache.IsEmpty())

	cache.Put("/a", d1, ScanContext)
	cache.Put("/b", d2, ScanContext)

	got, ok := cache.Get("/a")
	require.True(t, ok)
	assert.True(t, got.Equal(d1))

	got, ok = cache.Get("/b")
	require.True(t, ok)
	assert.True(t, got.Equal(d2))

	assert.Equal(t, 2, cache.Len())
}

func TestCache_PutReplaces(t *testing.T) {
	cache := NewCache()
	cache.Put("/a", Digest{0x01}, SeedContext)
	cache.Put("/a", Digest{0x02}, ScanContext)

	got, ok := cache.Get("/a")
	require.True(t, ok)
	assert.Equal(t, "02", got.Hex())
	assert.Equal(t, 1, cache.Len())
}

func TestCache_ForEachOrder(t *testing.T) {
	cache := NewCache()
	cache.Put("/c", Digest{0x03}, ScanContext)
	cache.Put("/a", Digest{0x01}, ScanContext)
	cache.Put("/b", Digest{0x02}, ScanContext)

	var paths []string
	cache.ForEach(func(path string, digest Digest, context string) bool {
		paths = append(paths, path)
		return true
	})

	assert.Equal(t, []string{"/a", "/b", "/c"}, paths, "iteration should be in path order")
}

func TestCache_Merge(t *testing.T) {
	base := NewCache()
	base.Put("/a", Digest{0x01}, ScanContext)
	base.Put("/b", Digest{0x02}, ScanContext)

	other := NewCache()
	other.Put("/b", Digest{0xff}, SeedContext)
	other.Put("/c", Digest{0x03}, SeedContext)

	require.NoError(t, base.Merge(other))

	assert.Equal(t, 3, base.Len())

	// Theirs wins on collision.
	got, ok := base.Get("/b")
	require.True(t, ok)
	assert.Equal(t, "ff", got.Hex())

	// Merging nil is a no-op.
	require.NoError(t, base.Merge(nil))
	assert.Equal(t, 3, base.Len())
}

func TestCache_Snapshot(t *testing.T) {
	cache := NewCache()
	cache.Put("/a", Digest{0xde, 0xad}, ScanContext)
	cache.Put("/b", Digest{0xbe, 0xef}, SeedContext)

	snapshot := cache.Snapshot()
	assert.Equal(t, map[string]string{
		"/a": "dead",
		"/b": "beef",
	}, snapshot)
}
