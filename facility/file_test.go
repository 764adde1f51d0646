package facility_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/logrouter/facility"
	"go.jacobcolvin.com/logrouter/pathguard"
	"go.jacobcolvin.com/logrouter/record"
)

// tempDir resolves symlinks in t.TempDir so that platforms with a symlinked
// temp root do not trip the path safety checks.
func tempDir(t *testing.T) string {
	t.Helper()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	return dir
}

func TestValidateHandle(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		handle      string
		expectError bool
	}{
		"simple":           {handle: "app"},
		"with underscores": {handle: "app_log_2"},
		"max length":       {handle: "a234567890123456789012345678901234567890123456789012345678901234"},
		"empty":            {handle: "", expectError: true},
		"dash":             {handle: "bad-handle", expectError: true},
		"space":            {handle: "bad handle", expectError: true},
		"too long":         {handle: "a2345678901234567890123456789012345678901234567890123456789012345", expectError: true},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := facility.ValidateHandle(tc.handle)
			if tc.expectError {
				require.ErrorIs(t, err, facility.ErrInvalidHandle)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestNewFileCreatesParentsAndTarget(t *testing.T) {
	t.Parallel()

	target := filepath.Join(tempDir(t), "a", "b", "app.log")

	f, err := facility.NewFile("app", target, false, 0, 1<<20)
	require.NoError(t, err)
	require.FileExists(t, target)

	assert.Equal(t, "app", f.Handle())
	assert.Contains(t, f.Describe(), "app.log")
}

func TestNewFileRejectsBadHandle(t *testing.T) {
	t.Parallel()

	_, err := facility.NewFile("bad-handle", filepath.Join(tempDir(t), "app.log"), false, 0, 1<<20)
	require.ErrorIs(t, err, facility.ErrInvalidHandle)
}

func TestNewFileRejectsSymlinkTarget(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	real := filepath.Join(dir, "real.log")
	require.NoError(t, os.WriteFile(real, nil, 0o644))

	link := filepath.Join(dir, "link.log")
	require.NoError(t, os.Symlink(real, link))

	_, err := facility.NewFile("app", link, false, 0, 1<<20)
	require.ErrorIs(t, err, pathguard.ErrUnsafeTarget)
}

func TestFileWriteFormatsAndFlattens(t *testing.T) {
	t.Parallel()

	target := filepath.Join(tempDir(t), "app.log")

	f, err := facility.NewFile("app", target, false, 0, 1<<20)
	require.NoError(t, err)

	rec := record.Record{
		Message:   "line1\nline2\r\nline3",
		Level:     record.LevelInfo,
		Nature:    record.NatureWarning,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, f.Write(rec))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[2026-01-02 03:04:05] [WARNING] line1 line2 line3\n", string(content))
}

func TestFileWriteRotatesBySize(t *testing.T) {
	t.Parallel()

	target := filepath.Join(tempDir(t), "size.log")

	f, err := facility.NewFile("app", target, false, 2, 160)
	require.NoError(t, err)

	for range 10 {
		rec := record.Record{
			Message:   "padding-padding-padding-padding-padding-padding",
			Level:     record.LevelInfo,
			Nature:    record.NatureInfo,
			Timestamp: time.Now(),
		}
		require.NoError(t, f.Write(rec))
	}

	rotated := target + ".1"
	require.FileExists(t, rotated)

	info, err := os.Stat(rotated)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestRotateKeepZeroTruncates(t *testing.T) {
	t.Parallel()

	target := filepath.Join(tempDir(t), "app.log")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	require.NoError(t, facility.Rotate(target, 0))

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Empty(t, content)
}

func TestRotateShiftsChain(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	target := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(target, []byte("newest"), 0o644))
	require.NoError(t, os.WriteFile(target+".1", []byte("older"), 0o644))

	require.NoError(t, facility.Rotate(target, 2))

	read := func(path string) string {
		content, err := os.ReadFile(path)
		require.NoError(t, err)

		return string(content)
	}

	assert.Equal(t, "older", read(target+".2"))
	assert.Equal(t, "newest", read(target+".1"))
	assert.Empty(t, read(target))
}

func TestRotateDropsOldestBeyondKeep(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	target := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(target, []byte("newest"), 0o644))
	require.NoError(t, os.WriteFile(target+".1", []byte("old-1"), 0o644))
	require.NoError(t, os.WriteFile(target+".2", []byte("old-2"), 0o644))

	require.NoError(t, facility.Rotate(target, 2))

	content, err := os.ReadFile(target + ".2")
	require.NoError(t, err)
	assert.Equal(t, "old-1", string(content))
	assert.NoFileExists(t, target+".3")
}

func TestRotateRejectsUnsafeChainMember(t *testing.T) {
	t.Parallel()

	dir := tempDir(t)
	target := filepath.Join(dir, "app.log")
	require.NoError(t, os.WriteFile(target, []byte("newest"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "outside.log"), target+".1"))

	err := facility.Rotate(target, 2)
	require.ErrorIs(t, err, pathguard.ErrUnsafeTarget)

	content, readErr := os.ReadFile(target)
	require.NoError(t, readErr)
	assert.Equal(t, "newest", string(content), "a rejected rotation must not touch the live file")
}

func TestNewFileRotateOnStart(t *testing.T) {
	t.Parallel()

	target := filepath.Join(tempDir(t), "app.log")
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	_, err := facility.NewFile("app", target, true, 0, 1<<20)
	require.NoError(t, err)

	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Empty(t, content)
}
