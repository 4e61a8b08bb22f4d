package distfile

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Digest returns the SHA256 hex digest of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)

	return hex.EncodeToString(sum[:])
}

// CalculateDigest computes the SHA256 hex digest of the file at
// path. Returns empty string with no error if the file does not
// exist.
func CalculateDigest(path string) (result string, retErr error) {
	const errCtx = "calculating digest"

	fi, err := os.Open(path) //nolint:gosec // path is caller-provided by design
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}

	if err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	defer func() {
		if closeErr := fi.Close(); closeErr != nil && retErr == nil {
			retErr = fmt.Errorf("%s: %w", errCtx, closeErr)
		}
	}()

	ha := sha256.New()

	if _, err := io.Copy(ha, fi); err != nil {
		return "", fmt.Errorf("%s: %w", errCtx, err)
	}

	return hex.EncodeToString(ha.Sum(nil)), nil
}

// Verify reports whether the file at path holds exactly
// content. A missing file is not up to date.
func Verify(path string, content []byte) (bool, error) {
	const errCtx = "verifying dist file"

	onDisk, err := CalculateDigest(path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return onDisk != "" && onDisk == Digest(content), nil
}

// Write stores content at path, creating parent
// directories. The file is left untouched when it already
// holds content; changed reports whether it was written.
func Write(path string, content []byte) (changed bool, err error) {
	const errCtx = "writing dist file"

	upToDate, err := Verify(path, content)
	if err != nil {
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if upToDate {
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gosec // dist dirs are world-readable
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	if err := os.WriteFile(path, content, 0o644); err != nil { //nolint:gosec // generated layouts are world-readable
		return false, fmt.Errorf("%s: %w", errCtx, err)
	}

	return true, nil
}
