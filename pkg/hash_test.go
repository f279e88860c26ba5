package dirhash

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func TestGetHashAlgorithm(t *testing.T) {
	for _, name := range SupportedAlgorithms() {
		algorithm, err := GetHashAlgorithm(name)
		if err != nil {
			t.Errorf("GetHashAlgorithm(%q) failed: %v", name, err)
			continue
		}
		if algorithm.Name != name {
			t.Errorf("GetHashAlgorithm(%q).Name = %q", name, algorithm.Name)
		}
		if got := algorithm.NewFunc().Size(); got != algorithm.Size {
			t.Errorf("algorithm %q reports size %d, hasher says %d", name, algorithm.Size, got)
		}
	}

	// Case and whitespace are normalised.
	if _, err := GetHashAlgorithm("  SHA256 "); err != nil {
		t.Errorf("expected sha256 lookup to tolerate case/whitespace, got %v", err)
	}
}

func TestGetHashAlgorithm_Unsupported(t *testing.T) {
	_, err := GetHashAlgorithm("whirlpool")
	if !errors.Is(err, ErrUnsupportedAlgorithm) {
		t.Errorf("expected ErrUnsupportedAlgorithm, got %v", err)
	}
}

func TestChecksumFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "data.txt")
	content := "hello world"
	writeTestFile(t, path, content)

	algorithm, err := GetHashAlgorithm("md5")
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}

	digest, err := ChecksumFile(path, DefaultChunkSize, algorithm, nil)
	if err != nil {
		t.Fatalf("ChecksumFile failed: %v", err)
	}

	expected := md5.Sum([]byte(content))
	if digest.Hex() != hex.EncodeToString(expected[:]) {
		t.Errorf("ChecksumFile = %s, expected %s", digest.Hex(), hex.EncodeToString(expected[:]))
	}
}

func TestChecksumFile_ChunkSizeIndependence(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "data.bin")

	// Content longer than the smallest chunk size so chunking actually splits.
	content := make([]byte, 10000)
	for i := range content {
		content[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	algorithm, err := GetHashAlgorithm("sha256")
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}

	expected := sha256.Sum256(content)
	for _, chunkSize := range []int{1, 7, 100, 4096, DefaultChunkSize} {
		digest, err := ChecksumFile(path, chunkSize, algorithm, nil)
		if err != nil {
			t.Fatalf("ChecksumFile with chunk size %d failed: %v", chunkSize, err)
		}
		if digest.Hex() != hex.EncodeToString(expected[:]) {
			t.Errorf("chunk size %d changed the digest: %s", chunkSize, digest.Hex())
		}
	}
}

func TestChecksumFile_InvalidChunkSize(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "data.txt")
	writeTestFile(t, path, "content")

	algorithm, err := GetHashAlgorithm("md5")
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}

	for _, chunkSize := range []int{0, -1, -1000000} {
		_, err := ChecksumFile(path, chunkSize, algorithm, nil)
		if !errors.Is(err, ErrInvalidChunkSize) {
			t.Errorf("chunk size %d: expected ErrInvalidChunkSize, got %v", chunkSize, err)
		}
	}
}

func TestChecksumFile_Progress(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "data.bin")
	content := make([]byte, 2500)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	algorithm, err := GetHashAlgorithm("md5")
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}

	var seen int64
	_, err = ChecksumFile(path, 1000, algorithm, func(n int64) { seen += n })
	if err != nil {
		t.Fatalf("ChecksumFile failed: %v", err)
	}
	if seen != int64(len(content)) {
		t.Errorf("progress callback saw %d bytes, expected %d", seen, len(content))
	}
}

func TestChecksumFile_MissingFile(t *testing.T) {
	algorithm, err := GetHashAlgorithm("md5")
	if err != nil {
		t.Fatalf("GetHashAlgorithm failed: %v", err)
	}

	_, err = ChecksumFile(filepath.Join(t.TempDir(), "missing"), DefaultChunkSize, algorithm, nil)
	if err == nil {
		t.Errorf("expected an error for a missing file")
	}
}
