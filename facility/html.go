package facility

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"go.jacobcolvin.com/logrouter/pathguard"
	"go.jacobcolvin.com/logrouter/record"
	"go.jacobcolvin.com/logrouter/sanitize"
	"go.jacobcolvin.com/logrouter/syntax"
)

// StreamMarker is the insertion marker embedded in every HTML log document.
const StreamMarker = "<!-- LOGROUTER_STREAM_ENTRIES -->"

const rowMarker = `<div class="log-row">`

//go:embed document.tmpl
var documentTemplate string

//go:embed style.css
var documentStylesheet string

var docTmpl = template.Must(template.New("document").Parse(documentTemplate))

// HTMLOptions configures a [HTMLFile].
type HTMLOptions struct {
	Title            string
	Theme            record.Theme
	AutoRefresh      bool
	RefreshSeconds   int
	RotateOnStart    bool
	RotationsToKeep  int
	MaxLineLength    int
	ColorizeBudget   time.Duration
	MaxDocumentBytes int64
}

// HTMLFile is a rotating facility persisting a self-contained
// browser-viewable HTML document. Each record appends one fixed-schema
// log-row block with a zero-padded line number, date and clock spans, a
// nature badge, and a per-rune syntax-colored message.
//
// Every rendered row is re-validated through [sanitize.ValidateFragment]
// before it is committed; nothing is ever appended unvalidated.
//
// Create instances with [NewHTMLFile].
type HTMLFile struct {
	classAttr        func(class syntax.Class) string
	handle           string
	path             string
	title            string
	theme            record.Theme
	refreshSeconds   int
	maxLineLength    int
	colorizeBudget   time.Duration
	maxDocumentBytes int64
	lineNumber       int
	keep             int
	autoRefresh      bool
}

var _ Facility = (*HTMLFile)(nil)

// NewHTMLFile creates an HTML document facility. Missing parent directories
// are created, the target is safety-checked, the chain is optionally rotated,
// the document shell is written (or an existing one reused), and the running
// row counter is recovered by counting existing row markers.
func NewHTMLFile(handle, path string, opts HTMLOptions) (*HTMLFile, error) {
	err := ValidateHandle(handle)
	if err != nil {
		return nil, err
	}

	err = opts.Theme.Validate()
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

	if opts.RotateOnStart {
		err = Rotate(path, opts.RotationsToKeep)
		if err != nil {
			return nil, err
		}
	}

	f := &HTMLFile{
		handle:           handle,
		path:             path,
		title:            opts.Title,
		theme:            opts.Theme,
		autoRefresh:      opts.AutoRefresh,
		refreshSeconds:   opts.RefreshSeconds,
		keep:             opts.RotationsToKeep,
		maxLineLength:    opts.MaxLineLength,
		colorizeBudget:   opts.ColorizeBudget,
		maxDocumentBytes: opts.MaxDocumentBytes,
		classAttr:        defaultClassAttr,
	}

	err = f.ensureDocument()
	if err != nil {
		return nil, err
	}

	f.lineNumber, err = f.countExistingRows()
	if err != nil {
		return nil, err
	}

	return f, nil
}

// Handle returns the facility handle.
func (f *HTMLFile) Handle() string {
	return f.handle
}

// Describe returns the handle, file URL, and document settings.
func (f *HTMLFile) Describe() string {
	abs, err := filepath.Abs(f.path)
	if err != nil {
		abs = f.path
	}

	refresh := "auto_refresh=off"
	if f.autoRefresh {
		refresh = fmt.Sprintf("auto_refresh=%ds", f.refreshSeconds)
	}

	return fmt.Sprintf("%s: file://%s (title=%q, theme=%q, %s)", f.handle, abs, f.title, f.theme, refresh)
}

// Write renders one row, validates it, and appends it. The write is rejected
// whole when validation fails or when the document would exceed its byte
// cap; a rejected write leaves the document untouched.
func (f *HTMLFile) Write(rec record.Record) error {
	err := f.ensureDocument()
	if err != nil {
		return err
	}

	err = pathguard.AssertSafe(f.path)
	if err != nil {
		return err
	}

	timestamp := rec.Timestamp.Format("2006-01-02 15:04:05")
	datePart, clockPart, _ := strings.Cut(timestamp, " ")

	f.lineNumber++

	row := fmt.Sprintf(`<div class="log-row">
  <div class="log-line-no"><pre>%s</pre></div>
  <div class="log-time"><pre><span class="log-date">%s</span> <span class="log-clock">%s</span></pre></div>
  <div class="%s"><pre>%s</pre></div>
  <div><pre>%s</pre></div>
</div>
`,
		sanitize.EscapeHTML(fmt.Sprintf("%06d", f.lineNumber)),
		sanitize.EscapeHTML(datePart),
		sanitize.EscapeHTML(clockPart),
		htmlBadgeClass(rec),
		sanitize.EscapeHTML(htmlBadgeIcon(rec)),
		f.renderMessage(rec.Message),
	)

	err = sanitize.ValidateFragment(row)
	if err != nil {
		return err
	}

	nextSize := fileSize(f.path) + int64(len(row))
	if nextSize > f.maxDocumentBytes {
		return fmt.Errorf("%w: document size limit exceeded (%d > %d bytes)",
			sanitize.ErrUnsafeHTML, nextSize, f.maxDocumentBytes)
	}

	return appendBytes(f.path, []byte(row))
}

// renderMessage renders the message lines as per-rune syntax-colored spans
// under the shared colorize budget, falling back to a single escaped span of
// the line when the budget expires. Continuation lines are tab-prefixed.
func (f *HTMLFile) renderMessage(message string) string {
	lines := sanitize.SplitLines(sanitize.ForHTML(message))

	budget := f.colorizeBudget
	if budget < time.Millisecond {
		budget = time.Millisecond
	}

	rendered := make([]string, 0, len(lines))

	for idx, raw := range lines {
		line := raw
		if sanitize.RuneLen(line) > f.maxLineLength {
			line = sanitize.ClipRunes(line, f.maxLineLength) + consoleClipMarker
		}

		var b strings.Builder

		if idx > 0 {
			b.WriteString("\t")
		}

		b.WriteString(f.renderLine(line, time.Now().Add(budget)))
		rendered = append(rendered, b.String())
	}

	return strings.Join(rendered, "\n")
}

func (f *HTMLFile) renderLine(line string, deadline time.Time) string {
	scan, err := syntax.ScanLine(line, deadline)
	if err != nil {
		return html.EscapeString(line)
	}

	var b strings.Builder

	for i, r := range scan.Runes() {
		if !time.Now().Before(deadline) {
			return html.EscapeString(line)
		}

		fmt.Fprintf(&b, `<span class="%s">%s</span>`,
			f.classAttr(scan.ClassAt(i)), html.EscapeString(string(r)))
	}

	return b.String()
}

func defaultClassAttr(class syntax.Class) string {
	return "syn-" + string(class)
}

// ensureDocument writes the document shell when the target is missing or
// empty. The shell is deliberately unterminated so rows append at the end.
func (f *HTMLFile) ensureDocument() error {
	if fileSize(f.path) > 0 {
		return nil
	}

	err := pathguard.AssertSafe(f.path)
	if err != nil {
		return err
	}

	themeClass := "theme-dark"
	if f.theme == record.ThemeLight {
		themeClass = "theme-light"
	}

	refreshMeta := ""
	if f.autoRefresh {
		refreshMeta = fmt.Sprintf(`<meta http-equiv="refresh" content="%d" />`, f.refreshSeconds)
	}

	var buf bytes.Buffer

	err = docTmpl.Execute(&buf, struct {
		Title        string
		Stylesheet   string
		ThemeClass   string
		RefreshMeta  string
		StreamMarker string
	}{
		Title:        sanitize.EscapeHTML(f.title),
		Stylesheet:   documentStylesheet,
		ThemeClass:   themeClass,
		RefreshMeta:  refreshMeta,
		StreamMarker: StreamMarker,
	})
	if err != nil {
		return fmt.Errorf("rendering document template: %w", err)
	}

	err = os.WriteFile(f.path, buf.Bytes(), logFileMode)
	if err != nil {
		return fmt.Errorf("writing document %q: %w", f.path, err)
	}

	return nil
}

// countExistingRows recovers the running row counter from an existing
// document.
func (f *HTMLFile) countExistingRows() (int, error) {
	if !fileExists(f.path) {
		return 0, nil
	}

	content, err := os.ReadFile(f.path)
	if err != nil {
		return 0, fmt.Errorf("reading document %q: %w", f.path, err)
	}

	return bytes.Count(content, []byte(rowMarker)), nil
}

func htmlBadgeIcon(rec record.Record) string {
	if rec.Nature == record.NatureError {
		return "⛔"
	}

	if rec.Nature == record.NatureWarning {
		return "⚠️"
	}

	if rec.Level == record.LevelDebug {
		return "🐞"
	}

	return "ℹ️"
}

func htmlBadgeClass(rec record.Record) string {
	if rec.Nature == record.NatureError {
		return "badge-error"
	}

	if rec.Level == record.LevelDebug {
		return "badge-debug"
	}

	if rec.Nature == record.NatureWarning {
		return "badge-warning"
	}

	return "badge-info"
}
