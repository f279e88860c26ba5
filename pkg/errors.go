package dirhash

import (
	"errors"
	"fmt"
	"io/fs"
)

// Sentinel errors for argument validation. Both are raised before any file
// is opened.
var (
	ErrUnsupportedAlgorithm = errors.New("unsupported hash algorithm")
	ErrInvalidChunkSize     = errors.New("chunk size must be a positive integer")
)

// UnsupportedEntryKindError reports a directory entry that is neither a
// regular file nor a directory after symlink handling. It aborts the whole
// fingerprint call: silently omitting unknown content would corrupt the
// completeness guarantee of the digest.
type UnsupportedEntryKindError struct {
	Path string
	Mode fs.FileMode
}

func (e *UnsupportedEntryKindError) Error() string {
	return fmt.Sprintf("unsupported entry kind for %s (mode %s)", e.Path, e.Mode)
}

// CacheLoadError reports a malformed or inaccessible cache file during load.
type CacheLoadError struct {
	Path string
	Err  error
}

func (e *CacheLoadError) Error() string {
	return fmt.Sprintf("failed to load cache file %s: %v", e.Path, e.Err)
}

func (e *CacheLoadError) Unwrap() error { return e.Err }

// CacheWriteError reports a failure while persisting a cache file.
type CacheWriteError struct {
	Path string
	Err  error
}

func (e *CacheWriteError) Error() string {
	return fmt.Sprintf("failed to write cache file %s: %v", e.Path, e.Err)
}

func (e *CacheWriteError) Unwrap() error { return e.Err }
