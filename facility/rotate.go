package facility

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.jacobcolvin.com/logrouter/pathguard"
)

const logFileMode = 0o644

// Rotate shifts the rotation chain of path one slot and recreates path
// empty. With keep <= 0 the file is truncated in place. With keep = N the
// oldest member path.N is deleted, every path.i becomes path.(i+1), and the
// current file becomes path.1.
//
// Every touched path is safety-checked first. The chain is not shifted
// atomically; a crash mid-rotation can leave a partially shifted chain.
func Rotate(path string, keep int) error {
	err := pathguard.AssertSafe(path)
	if err != nil {
		return err
	}

	if keep <= 0 {
		return os.WriteFile(path, nil, logFileMode)
	}

	oldest := fmt.Sprintf("%s.%d", path, keep)

	err = pathguard.AssertSafe(oldest)
	if err != nil {
		return err
	}

	err = os.Remove(oldest)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing oldest rotation %q: %w", oldest, err)
	}

	for idx := keep - 1; idx >= 1; idx-- {
		src := fmt.Sprintf("%s.%d", path, idx)
		dst := fmt.Sprintf("%s.%d", path, idx+1)

		err = pathguard.AssertSafe(src)
		if err != nil {
			return err
		}

		err = pathguard.AssertSafe(dst)
		if err != nil {
			return err
		}

		err = os.Rename(src, dst)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("shifting rotation %q: %w", src, err)
		}
	}

	if fileExists(path) {
		first := path + ".1"

		err = pathguard.AssertSafe(first)
		if err != nil {
			return err
		}

		err = os.Rename(path, first)
		if err != nil {
			return fmt.Errorf("rotating %q: %w", path, err)
		}
	}

	return os.WriteFile(path, nil, logFileMode)
}

func fileExists(path string) bool {
	_, err := os.Lstat(path)

	return err == nil
}

func fileSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}

	return info.Size()
}

func appendBytes(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, logFileMode)
	if err != nil {
		return fmt.Errorf("opening %q for append: %w", path, err)
	}

	_, err = f.Write(data)
	if err != nil {
		_ = f.Close()

		return fmt.Errorf("appending to %q: %w", path, err)
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("closing %q: %w", path, err)
	}

	return nil
}
