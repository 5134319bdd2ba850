// Package dedup fingerprints files by content so duplicate documents under
// different names are processed once per run.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"

	"github.com/rotisserie/eris"
)

// hashChunkSize bounds per-read memory so arbitrarily large documents hash in
// constant space.
const hashChunkSize = 64 * 1024

// HashFile returns the hex SHA-256 digest of the file's content. Identical
// content always hashes equal regardless of filename; a read failure is an
// error the caller logs and skips, never a run-fatal condition.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", eris.Wrapf(err, "dedup: open %s", path)
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", eris.Wrapf(err, "dedup: read %s", path)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
