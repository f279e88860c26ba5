package dirhash

import (
	"encoding/json"
	"fmt"
	"os"
	"syscall"

	"github.com/google/vectorio"
)

// Persisted cache file format: a JSON object mapping each visited path to its
// hex digest, pretty-printed with 2-space indent, keys in path order.
//
//	{
//	  "/some/dir": "d41d8cd98f00b204e9800998ecf8427e",
//	  "/some/dir/file": "5eb63bbbe01eeed093cb22bb8f5acdc3"
//	}

// LoadCacheFile reads a persisted path -> hex digest table and rebuilds a
// cache from it. Loaded entries carry the seed context.
func LoadCacheFile(path string) (*Cache, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CacheLoadError{Path: path, Err: err}
	}

	var table map[string]string
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, &CacheLoadError{Path: path, Err: err}
	}

	cache := NewCache()
	for entryPath, hexDigest := range table {
		digest, err := ParseDigest(hexDigest)
		if err != nil {
			return nil, &CacheLoadError{
				Path: path,
				Err:  fmt.Errorf("invalid digest for %s: %w", entryPath, err),
			}
		}
		cache.Put(entryPath, digest, SeedContext)
	}

	return cache, nil
}

// SaveCacheFile serializes the cache to path. The serialized form is built as
// one buffer per entry and written with vectorio for efficient bulk writes,
// then atomically renamed into place so a crash never leaves a truncated
// cache file behind.
func SaveCacheFile(cache *Cache, path string) error {
	tempPath := fmt.Sprintf("%s.tmp-%d", path, os.Getpid())

	if err := writeCacheWithVectorIO(cache, tempPath); err != nil {
		os.Remove(tempPath)
		return &CacheWriteError{Path: path, Err: err}
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return &CacheWriteError{Path: path, Err: err}
	}

	return nil
}

// writeCacheWithVectorIO writes the serialized cache to outputPath using
// vectorio, chunking the entry buffers to respect the system IOV_MAX limit.
func writeCacheWithVectorIO(cache *Cache, outputPath string) error {
	lines, totalSize, err := cacheToLines(cache)
	if err != nil {
		return err
	}

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create temp cache file %s: %w", outputPath, err)
	}
	defer file.Close()

	// Build one iovec per serialized line. The lines slice keeps the
	// underlying buffers reachable for the duration of the writes.
	iovecs := make([]syscall.Iovec, len(lines))
	for i, line := range lines {
		iovecs[i] = syscall.Iovec{
			Base: &line[0],
			Len:  uint64(len(line)),
		}
	}

	totalWritten := 0
	for offset := 0; offset < len(iovecs); offset += maxWriteIovecs {
		end := offset + maxWriteIovecs
		if end > len(iovecs) {
			end = len(iovecs)
		}

		chunk := iovecs[offset:end]
		nw, err := vectorio.WritevRaw(uintptr(file.Fd()), chunk)
		if err != nil {
			return fmt.Errorf("failed to write cache chunk with vectorio: %w", err)
		}
		totalWritten += nw
	}

	if totalWritten != totalSize {
		return fmt.Errorf("cache write incomplete: wrote %d bytes, expected %d", totalWritten, totalSize)
	}

	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync cache file: %w", err)
	}

	return nil
}

// cacheToLines serializes the cache into per-entry buffers in skiplist
// (path) order, ready to be handed to writev.
func cacheToLines(cache *Cache) ([][]byte, int, error) {
	type flatEntry struct {
		path string
		hex  string
	}

	var entries []flatEntry
	cache.ForEach(func(path string, digest Digest, context string) bool {
		entries = append(entries, flatEntry{path: path, hex: digest.Hex()})
		return true
	})

	if len(entries) == 0 {
		empty := []byte("{}\n")
		return [][]byte{empty}, len(empty), nil
	}

	var lines [][]byte
	totalSize := 0
	appendLine := func(line []byte) {
		lines = append(lines, line)
		totalSize += len(line)
	}

	appendLine([]byte("{\n"))
	for i, entry := range entries {
		// json.Marshal handles path escaping; digests are plain hex.
		key, err := json.Marshal(entry.path)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to marshal cache key %s: %w", entry.path, err)
		}

		separator := ",\n"
		if i == len(entries)-1 {
			separator = "\n"
		}
		appendLine([]byte(fmt.Sprintf("  %s: %q%s", key, entry.hex, separator)))
	}
	appendLine([]byte("}\n"))

	return lines, totalSize, nil
}

// maxWriteIovecs bounds how many iovecs go into a single writev call. Linux
// pins IOV_MAX at 1024 (UIO_MAXIOV) and Go exposes no portable sysconf, so the
// kernel constant is used directly; larger batches fail with EINVAL. See
// golang/go#58623.
const maxWriteIovecs = 1024
