package dirhash

import (
	"strings"

	zcsl "github.com/mattkeenan/zerocopyskiplist"
)

// Context constants for cache entries. Seed entries come from a loaded cache
// file, scan entries are computed by the current traversal.
const (
	SeedContext = "seed"
	ScanContext = "scan"
)

// cacheEntry is a single path -> digest mapping held by the cache.
type cacheEntry struct {
	Path   string
	Digest Digest
}

// Cache is the fingerprint cache threaded through a traversal: a mapping from
// filesystem path to digest, ordered by path. Once a path is present its
// digest is never recomputed within the same traversal. The cache performs no
// staleness detection; discarding a cache whose underlying content may have
// changed is the caller's responsibility.
//
// A Cache is owned by a single traversal and is not safe for concurrent use.
type Cache struct {
	skiplist *zcsl.ZeroCopySkiplist[cacheEntry, string, string]
}

// NewCache creates an empty fingerprint cache.
func NewCache() *Cache {
	getKeyFromItem := func(e *cacheEntry) string {
		return e.Path
	}

	getItemSize := func(e *cacheEntry) int {
		return len(e.Path) + len(e.Digest)
	}

	cmpKey := func(a, b string) int {
		return strings.Compare(a, b)
	}

	skiplist := zcsl.MakeZeroCopySkiplist[cacheEntry, string, string](
		16,
		getKeyFromItem,
		getItemSize,
		cmpKey,
	)

	return &Cache{skiplist: skiplist}
}

// Get returns the digest stored for path, if any.
func (c *Cache) Get(path string) (Digest, bool) {
	node, _ := c.skiplist.Find(path)
	if node == nil {
		return nil, false
	}
	entry := node.Item()
	return entry.Digest, true
}

// Put stores a digest for path under the given context, replacing any
// existing entry.
func (c *Cache) Put(path string, digest Digest, context string) {
	if c.contains(path) {
		c.skiplist.Delete(path)
	}
	entry := cacheEntry{Path: path, Digest: digest}
	c.skiplist.Insert(&entry, context)
}

func (c *Cache) contains(path string) bool {
	node, _ := c.skiplist.Find(path)
	return node != nil
}

// Len returns the number of entries in the cache.
func (c *Cache) Len() int {
	return c.skiplist.Length()
}

// IsEmpty returns true if the cache has no entries.
func (c *Cache) IsEmpty() bool {
	return c.skiplist.IsEmpty()
}

// ForEach iterates over all entries in path order.
func (c *Cache) ForEach(callback func(path string, digest Digest, context string) bool) {
	for current := c.skiplist.First(); current != nil; current = current.Next() {
		entry := current.Item()
		if !callback(entry.Path, entry.Digest, current.Context()) {
			break
		}
	}
}

// Merge merges another cache into this one. Entries from the other cache win
// on path collisions.
func (c *Cache) Merge(other *Cache) error {
	if other == nil {
		return nil
	}
	return c.skiplist.Merge(other.skiplist, zcsl.MergeTheirs)
}

// Snapshot flattens the cache into a path -> hex digest table, the form used
// for persistence and duplicate detection.
func (c *Cache) Snapshot() map[string]string {
	snapshot := make(map[string]string, c.Len())
	c.ForEach(func(path string, digest Digest, context string) bool {
		snapshot[path] = digest.Hex()
		return true
	})
	return snapshot
}
