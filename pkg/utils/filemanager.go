// =============================================================================
// Dyad Splitter - File Manager Utility
// =============================================================================
//
// This module provides the small amount of file handling the splitter needs:
//   - Creating the output directory
//   - Naming temp files next to their target
//   - Moving a finished temp file into place
//   - Guarding against writing over the input
//
// OUTPUT STRATEGY:
//   Output is written to ".<name>.<uuid>.tmp" in the target directory and
//   renamed onto the target when complete. Rename within one directory is
//   atomic on the platforms we run on, so readers never see a partial file.
//
// =============================================================================

package utils

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ErrSameFile is returned by CheckDistinct when two paths name one file.
var ErrSameFile = errors.New("input and output are the same file")

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// FILE NAMING
// =============================================================================

// TempPath returns a unique hidden temp file name in the directory of path.
//
// EXAMPLE:
//   out/couples_split.csv -> out/.couples_split.csv.3f2c...e9.tmp
func TempPath(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.New().String()))
}

// =============================================================================
// FILE OPERATIONS
// =============================================================================

// ReplaceFile moves src onto dst, replacing dst if it exists.
func ReplaceFile(src, dst string) error {
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", filepath.Base(dst), err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// CheckDistinct returns ErrSameFile when a and b refer to the same existing
// file. Paths that do not exist yet are always distinct.
func CheckDistinct(a, b string) error {
	ai, err := os.Stat(a)
	if err != nil {
		return nil
	}
	bi, err := os.Stat(b)
	if err != nil {
		return nil
	}
	if os.SameFile(ai, bi) {
		return fmt.Errorf("%w: %s", ErrSameFile, b)
	}
	return nil
}
