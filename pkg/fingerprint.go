package dirhash

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// EntryKind classifies a directory entry at traversal time. Classification is
// never cached; it is resolved fresh on every traversal.
type EntryKind int

const (
	EntryFile EntryKind = iota
	EntryDir
	EntrySymlink
	EntryOther
)

// Options configures a fingerprint traversal.
type Options struct {
	// ChunkSize bounds how many bytes of a file are read into memory at
	// once. Zero means DefaultChunkSize. It never affects the digest.
	ChunkSize int

	// Algorithm names the hash function. Empty means DefaultAlgorithm.
	Algorithm string

	// ResolveSymlinks classifies symlinks by their resolved target kind.
	// When false, symlink entries are excluded from the computation
	// entirely, as if absent.
	ResolveSymlinks bool

	// OnProgress, if non-nil, receives byte counts as file contents are
	// hashed.
	OnProgress func(n int64)
}

// Fingerprint computes the content-addressed digest of the directory tree
// rooted at dirPath. Two trees holding identical multisets of file contents
// produce identical digests regardless of file names, directory names, or
// iteration order.
//
// The cache is consulted before any recomputation and populated as the
// traversal proceeds, including an entry for dirPath itself. The caller owns
// the cache and must discard it when underlying content may have changed; no
// staleness detection is performed. Passing nil uses a fresh throwaway cache.
//
// Errors are never recovered internally: the first failure aborts the whole
// call and no partial digest is returned.
func Fingerprint(dirPath string, opts Options, cache *Cache) (Digest, error) {
	chunkSize := opts.ChunkSize
	if chunkSize == 0 {
		chunkSize = DefaultChunkSize
	}
	if chunkSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}

	algoName := opts.Algorithm
	if algoName == "" {
		algoName = DefaultAlgorithm
	}

	// Resolve the algorithm once, before any I/O.
	algorithm, err := GetHashAlgorithm(algoName)
	if err != nil {
		return nil, err
	}

	if cache == nil {
		cache = NewCache()
	}

	resolved := opts
	resolved.ChunkSize = chunkSize

	return fingerprintDir(dirPath, resolved, algorithm, cache)
}

// fingerprintDir is the recursive core: classify children, obtain their
// digests (cache first), sort the digests by hex string and combine them.
func fingerprintDir(dirPath string, opts Options, algorithm *HashAlgorithm, cache *Cache) (Digest, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dirPath, err)
	}

	var filePaths []string
	var subdirPaths []string

	for _, entry := range entries {
		entryPath := filepath.Join(dirPath, entry.Name())

		kind, mode, err := classifyEntry(entryPath, entry, opts.ResolveSymlinks)
		if err != nil {
			return nil, err
		}

		switch kind {
		case EntryFile:
			filePaths = append(filePaths, entryPath)
		case EntryDir:
			subdirPaths = append(subdirPaths, entryPath)
		case EntrySymlink:
			// Only reachable with symlink resolution disabled:
			// excluded entirely, contributes nothing to the digest.
			if IsDebugEnabled("traversal") {
				VerboseLog(2, "excluding symlink %s", entryPath)
			}
		case EntryOther:
			return nil, &UnsupportedEntryKindError{Path: entryPath, Mode: mode}
		}
	}

	childDigests := make([]Digest, 0, len(filePaths)+len(subdirPaths))

	for _, filePath := range filePaths {
		if digest, ok := cache.Get(filePath); ok {
			if IsDebugEnabled("cache") {
				VerboseLog(3, "cache hit for file %s", filePath)
			}
			childDigests = append(childDigests, digest)
			continue
		}

		digest, err := ChecksumFile(filePath, opts.ChunkSize, algorithm, opts.OnProgress)
		if err != nil {
			return nil, err
		}
		cache.Put(filePath, digest, ScanContext)
		childDigests = append(childDigests, digest)
	}

	for _, subdirPath := range subdirPaths {
		if digest, ok := cache.Get(subdirPath); ok {
			if IsDebugEnabled("cache") {
				VerboseLog(3, "cache hit for directory %s", subdirPath)
			}
			childDigests = append(childDigests, digest)
			continue
		}

		digest, err := fingerprintDir(subdirPath, opts, algorithm, cache)
		if err != nil {
			return nil, err
		}
		childDigests = append(childDigests, digest)
	}

	// Sort by the canonical hex string, not raw bytes, so the combination
	// order is reproducible across implementations regardless of their
	// byte-comparison conventions. This sort is what makes the digest
	// independent of filesystem iteration order and entry names.
	sort.Slice(childDigests, func(i, j int) bool {
		return childDigests[i].Hex() < childDigests[j].Hex()
	})

	hasher := algorithm.NewFunc()
	for _, digest := range childDigests {
		hasher.Write(digest)
	}

	// An empty directory (or one holding only excluded symlinks) hashes
	// zero input bytes: the algorithm's defined empty-input digest.
	result := Digest(hasher.Sum(nil))
	cache.Put(dirPath, result, ScanContext)

	return result, nil
}

// classifyEntry determines the kind of a directory entry. Symlinks are
// reclassified by their resolved target when resolveSymlinks is true; a
// failure to resolve propagates rather than silently dropping content.
func classifyEntry(entryPath string, entry fs.DirEntry, resolveSymlinks bool) (EntryKind, fs.FileMode, error) {
	entryType := entry.Type()

	if entryType&fs.ModeSymlink != 0 {
		if !resolveSymlinks {
			return EntrySymlink, entryType, nil
		}

		info, err := os.Stat(entryPath)
		if err != nil {
			return EntryOther, entryType, fmt.Errorf("failed to resolve symlink %s: %w", entryPath, err)
		}

		switch {
		case info.Mode().IsRegular():
			return EntryFile, info.Mode(), nil
		case info.IsDir():
			return EntryDir, info.Mode(), nil
		default:
			return EntryOther, info.Mode(), nil
		}
	}

	switch {
	case entryType.IsRegular():
		return EntryFile, entryType, nil
	case entryType.IsDir():
		return EntryDir, entryType, nil
	default:
		// Device files, sockets, FIFOs and friends are explicitly
		// unsupported, not silently ignored.
		return EntryOther, entryType, nil
	}
}
