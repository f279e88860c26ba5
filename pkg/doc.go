// Package dirhash produces a deterministic, content-addressed fingerprint
// for a directory tree. Two trees holding identical file contents yield
// identical fingerprints regardless of file names, directory names, or
// traversal order; only byte content participates in the digest.
//
// # Core API
//
// The main entry point is Fingerprint, which recursively digests a tree
// while threading a fingerprint cache through the traversal:
//
//	cache := dirhash.NewCache()
//	digest, err := dirhash.Fingerprint("/path/to/dir", dirhash.Options{}, cache)
//	fmt.Println(digest.Hex())
//
// # Cache persistence
//
// The populated cache can be persisted as a flat path -> hex digest table
// and restored for later runs:
//
//	err := dirhash.SaveCacheFile(cache, "cache.json")
//	cache, err := dirhash.LoadCacheFile("cache.json")
//
// The cache is a memo keyed by path identity, not content: callers must
// discard it whenever underlying file content may have changed.
//
// # Duplicate detection
//
// Find paths sharing a digest in a persisted snapshot:
//
//	groups := dirhash.FindDuplicates(cache.Snapshot())
//	for _, group := range groups {
//		fmt.Printf("Hash %s: %v\n", group.Hash, group.Files)
//	}
//
// # Configuration
//
// Enable debug output:
//
//	dirhash.SetDebugFlags("cache,traversal")
//	dirhash.SetVerboseLevel(2)
package dirhash
