package facility

import (
	"fmt"
	"os"
	"path/filepath"

	"go.jacobcolvin.com/logrouter/pathguard"
	"go.jacobcolvin.com/logrouter/record"
	"go.jacobcolvin.com/logrouter/sanitize"
)

// File is a rotating plain-text facility. Each record becomes one line:
//
//	[YYYY-MM-DD HH:MM:SS] [NATURE] <message flattened to one line>
//
// When appending a line would push the file past its size limit, the
// rotation chain is shifted first.
//
// Create instances with [NewFile].
type File struct {
	handle   string
	path     string
	keep     int
	maxBytes int64
}

var _ Facility = (*File)(nil)

// NewFile creates a plain-text file facility. Missing parent directories are
// created; the target is safety-checked before and after it is ensured to
// exist; rotateOnStart shifts the chain once before first use.
func NewFile(handle, path string, rotateOnStart bool, keep int, maxBytes int64) (*File, error) {
	err := ValidateHandle(handle)
	if err != nil {
		return nil, err
	}

	err = os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return nil, fmt.Errorf("creating parent directories for %q: %w", path, err)
	}

	err = pathguard.AssertSafe(path)
	if err != nil {
		return nil, err
	}

	if rotateOnStart {
		err = Rotate(path, keep)
		if err != nil {
			return nil, err
		}
	}

	if !fileExists(path) {
		err = os.WriteFile(path, nil, logFileMode)
		if err != nil {
			return nil, fmt.Errorf("creating %q: %w", path, err)
		}
	}

	err = pathguard.AssertSafe(path)
	if err != nil {
		return nil, err
	}

	return &File{
		handle:   handle,
		path:     path,
		keep:     keep,
		maxBytes: maxBytes,
	}, nil
}

// Handle returns the facility handle.
func (f *File) Handle() string {
	return f.handle
}

// Describe returns the handle and resolved target path.
func (f *File) Describe() string {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		abs = f.path
	}

	return f.handle + ": " + abs
}

// Write appends one formatted line, rotating first when the line would push
// the file past its size limit.
func (f *File) Write(rec record.Record) error {
	err := pathguard.AssertSafe(f.path)
	if err != nil {
		return err
	}

	line := fmt.Sprintf("[%s] [%s] %s\n",
		rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Nature, sanitize.Flatten(rec.Message))

	if fileSize(f.path)+int64(len(line)) > f.maxBytes {
		err = Rotate(f.path, f.keep)
		if err != nil {
			return err
		}
	}

	return appendBytes(f.path, []byte(line))
}
