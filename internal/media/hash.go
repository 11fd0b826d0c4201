package media

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// fastHash is a cheap non-cryptographic digest recorded in a sidecar beside
// each encoded variant; on a skipExisting run a matching sidecar
// short-circuits the source/destination mtime comparison. The full content
// hash is still computed for every source. Mirrors
// lci/internal/core/file_content_store.go's FastHash/ContentHash split.
func fastHash(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// contentHash is the cryptographic hex digest used for skipHashes matching
// and hash-addressed output paths.
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return contentHash(data), nil
}

// readFastHashSidecar returns the fastHash recorded beside an encoded
// variant on a prior run, or 0 if no sidecar exists or it's unreadable.
func readFastHashSidecar(path string) uint64 {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	v, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

// writeFastHashSidecar records fh beside an encoded variant so the next run
// can short-circuit skipExisting without re-reading the source image.
func writeFastHashSidecar(path string, fh uint64) {
	_ = os.WriteFile(path, []byte(strconv.FormatUint(fh, 10)), 0o644)
}
