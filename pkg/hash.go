package dirhash

import (
	"crypto/md5"  // #nosec G501 -- content fingerprinting only, not security
	"crypto/sha1" // #nosec G505 -- content fingerprinting only, not security
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"
)

// DefaultChunkSize is the maximum number of bytes of a file read into memory
// at once while hashing. It bounds memory use only and never affects the
// resulting digest.
const DefaultChunkSize = 1000000

// DefaultAlgorithm is the default hash algorithm. MD5 is retained for
// compatibility with existing fingerprints, not for security.
const DefaultAlgorithm = "md5"

// HashAlgorithm represents a hash algorithm configuration
type HashAlgorithm struct {
	Name    string
	Size    int
	NewFunc func() hash.Hash
}

// GetHashAlgorithm returns the hash algorithm configuration for the given
// name. Unknown names fail here, before any I/O happens for the call.
func GetHashAlgorithm(name string) (*HashAlgorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "md5":
		return &HashAlgorithm{
			Name:    "md5",
			Size:    md5.Size,
			NewFunc: func() hash.Hash { return md5.New() }, // #nosec G401
		}, nil
	case "sha1":
		return &HashAlgorithm{
			Name:    "sha1",
			Size:    sha1.Size,
			NewFunc: func() hash.Hash { return sha1.New() }, // #nosec G401
		}, nil
	case "sha256":
		return &HashAlgorithm{
			Name:    "sha256",
			Size:    sha256.Size,
			NewFunc: func() hash.Hash { return sha256.New() },
		}, nil
	case "sha384":
		return &HashAlgorithm{
			Name:    "sha384",
			Size:    sha512.Size384,
			NewFunc: func() hash.Hash { return sha512.New384() },
		}, nil
	case "sha512":
		return &HashAlgorithm{
			Name:    "sha512",
			Size:    sha512.Size,
			NewFunc: func() hash.Hash { return sha512.New() },
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, name)
	}
}

// SupportedAlgorithms lists the algorithm names accepted by GetHashAlgorithm.
func SupportedAlgorithms() []string {
	return []string{"md5", "sha1", "sha256", "sha384", "sha512"}
}

// ChecksumFile calculates the digest of a file's contents, reading at most
// chunkSize bytes at a time. onProgress, if non-nil, is called with the
// number of bytes consumed after each chunk.
func ChecksumFile(filePath string, chunkSize int, algorithm *HashAlgorithm, onProgress func(n int64)) (Digest, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	hasher := algorithm.NewFunc()
	buffer := make([]byte, chunkSize)

	for {
		n, err := file.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
			if onProgress != nil {
				onProgress(int64(n))
			}
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read from file %s: %w", filePath, err)
		}
	}

	return Digest(hasher.Sum(nil)), nil
}
