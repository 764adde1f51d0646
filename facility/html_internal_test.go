package facility

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/logrouter/record"
	"go.jacobcolvin.com/logrouter/sanitize"
	"go.jacobcolvin.com/logrouter/syntax"
)

// TestHTMLFileRejectsTamperedRenderer drives a write through a renderer that
// smuggles an event handler into the class attribute. The final validation
// pass must reject the row and leave the document untouched.
func TestHTMLFileRejectsTamperedRenderer(t *testing.T) {
	t.Parallel()

	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	target := filepath.Join(dir, "log.html")

	f, err := NewHTMLFile("web", target, HTMLOptions{
		Title:            "Tamper",
		Theme:            record.ThemeDark,
		MaxLineLength:    4096,
		ColorizeBudget:   50 * time.Millisecond,
		MaxDocumentBytes: 1 << 20,
	})
	require.NoError(t, err)

	before, err := os.ReadFile(target)
	require.NoError(t, err)

	f.classAttr = func(class syntax.Class) string {
		return `syn-base" onclick="alert(1)`
	}

	rec := record.Record{
		Message:   "payload",
		Level:     record.LevelInfo,
		Nature:    record.NatureInfo,
		Timestamp: time.Now(),
	}
	err = f.Write(rec)
	require.ErrorIs(t, err, sanitize.ErrUnsafeHTML)

	after, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}
