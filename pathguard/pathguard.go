package pathguard

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrUnsafeTarget indicates a log target path failed a safety check.
var ErrUnsafeTarget = errors.New("unsafe log target")

// AssertSafe resolves path to an absolute path and verifies that no ancestor
// directory is a symbolic link and that the target, if it exists, is a
// regular file inspected without following links. A missing target is not an
// error; any inspection failure other than "not found" is.
func AssertSafe(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%w: resolving %q: %w", ErrUnsafeTarget, path, err)
	}

	err = assertAncestorsSafe(filepath.Dir(abs))
	if err != nil {
		return err
	}

	info, err := os.Lstat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("%w: inspecting %q: %w", ErrUnsafeTarget, abs, err)
	}

	if info.Mode()&fs.ModeSymlink != 0 {
		return fmt.Errorf("%w: %q is a symlink", ErrUnsafeTarget, abs)
	}

	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %q is not a regular file", ErrUnsafeTarget, abs)
	}

	return nil
}

// assertAncestorsSafe walks dir and every parent up to the filesystem root,
// rejecting any ancestor that is a symbolic link. Missing ancestors are fine.
func assertAncestorsSafe(dir string) error {
	for {
		info, err := os.Lstat(dir)

		switch {
		case err != nil && errors.Is(err, fs.ErrNotExist):
			// Ancestor does not exist yet; it will be created as a real
			// directory.

		case err != nil:
			return fmt.Errorf("%w: inspecting ancestor %q: %w", ErrUnsafeTarget, dir, err)

		case info.Mode()&fs.ModeSymlink != 0:
			return fmt.Errorf("%w: ancestor %q is a symlink", ErrUnsafeTarget, dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil
		}

		dir = parent
	}
}
