package facility

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"go.jacobcolvin.com/logrouter/record"
	"go.jacobcolvin.com/logrouter/sanitize"
	"go.jacobcolvin.com/logrouter/syntax"
)

// Raw SGR escapes; the console facility writes the same bytes whether or not
// output is a terminal, so persisted output stays deterministic.
const (
	ansiReset       = "\x1b[0m"
	ansiWhite       = "\x1b[97m"
	ansiLightGray   = "\x1b[37m"
	ansiGreen       = "\x1b[92m"
	ansiYellow      = "\x1b[93m"
	ansiCyan        = "\x1b[96m"
	ansiPink        = "\x1b[95m"
	ansiRed         = "\x1b[91m"
	ansiTimeContent = "\x1b[94m"
)

const consoleClipMarker = " …[line clipped]"

// Console writes records to standard out, or standard error for ERROR
// nature, with optional per-rune ANSI syntax coloring under a wall-clock
// budget.
//
// Create instances with [NewConsole].
type Console struct {
	out            io.Writer
	errOut         io.Writer
	maxLineLength  int
	colorizeBudget time.Duration
	color          bool
}

var _ Facility = (*Console)(nil)

// ConsoleOption configures a [Console].
type ConsoleOption func(*Console)

// WithStreams redirects console output away from os.Stdout and os.Stderr.
func WithStreams(out, errOut io.Writer) ConsoleOption {
	return func(c *Console) {
		c.out = out
		c.errOut = errOut
	}
}

// NewConsole creates a console facility writing to os.Stdout and os.Stderr.
func NewConsole(color bool, maxLineLength int, colorizeBudget time.Duration, opts ...ConsoleOption) *Console {
	c := &Console{
		out:            os.Stdout,
		errOut:         os.Stderr,
		color:          color,
		maxLineLength:  maxLineLength,
		colorizeBudget: colorizeBudget,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Handle returns the reserved console handle.
func (c *Console) Handle() string {
	return HandleConsole
}

// Describe returns a summary of the console sink.
func (c *Console) Describe() string {
	return HandleConsole + ": stdout/stderr"
}

// SetColor toggles ANSI coloring.
func (c *Console) SetColor(enabled bool) {
	c.color = enabled
}

// SetLimits updates the per-line clip length and the colorize budget.
func (c *Console) SetLimits(maxLineLength int, colorizeBudget time.Duration) {
	c.maxLineLength = maxLineLength
	c.colorizeBudget = colorizeBudget
}

// SetStreams redirects console output.
func (c *Console) SetStreams(out, errOut io.Writer) {
	c.out = out
	c.errOut = errOut
}

// Write renders rec as "[HH:MM:SS] <icon> <first line>" followed by
// tab-indented continuation lines. ERROR-nature records go to the error
// stream.
func (c *Console) Write(rec record.Record) error {
	timeText := rec.Timestamp.Format("15:04:05")
	icon := badgeIcon(rec)

	lines := sanitize.SplitLines(sanitize.ForTerminal(rec.Message))
	for i, line := range lines {
		if sanitize.RuneLen(line) > c.maxLineLength {
			lines[i] = sanitize.ClipRunes(line, c.maxLineLength) + consoleClipMarker
		}
	}

	var out []string

	if !c.color {
		out = append(out, fmt.Sprintf("[%s] %s %s", timeText, icon, lines[0]))
		for _, line := range lines[1:] {
			out = append(out, "\t"+line)
		}
	} else {
		coloredTime := ansiGreen + "[" + ansiTimeContent + timeText + ansiGreen + "]"
		coloredIcon := badgeColor(rec) + icon + ansiReset

		out = append(out, fmt.Sprintf("%s %s %s", coloredTime, coloredIcon, c.colorizeLine(lines[0], rec)))
		for _, line := range lines[1:] {
			out = append(out, "\t"+c.colorizeLine(line, rec))
		}
	}

	w := c.out
	if rec.Nature == record.NatureError {
		w = c.errOut
	}

	_, err := fmt.Fprintln(w, strings.Join(out, "\n"))
	if err != nil {
		return fmt.Errorf("writing console output: %w", err)
	}

	return nil
}

func badgeIcon(rec record.Record) string {
	if rec.Nature == record.NatureError {
		return "×"
	}

	if rec.Level == record.LevelDebug || rec.Nature == record.NatureWarning {
		return "›"
	}

	return "»"
}

func badgeColor(rec record.Record) string {
	if rec.Nature == record.NatureError {
		return ansiRed
	}

	if rec.Level == record.LevelDebug {
		return ansiLightGray
	}

	return ansiGreen
}

func baseColor(rec record.Record) string {
	if rec.Level == record.LevelDebug {
		return ansiLightGray
	}

	return ansiWhite
}

func classColor(class syntax.Class, rec record.Record) string {
	switch class {
	case syntax.ClassQuoteMark:
		return ansiGreen
	case syntax.ClassQuoteContent:
		return ansiYellow
	case syntax.ClassLHS:
		return ansiPink
	case syntax.ClassNumber:
		return ansiCyan
	case syntax.ClassPunct:
		return ansiGreen
	}

	return baseColor(rec)
}

// colorizeLine renders one line with per-rune SGR colors, coalescing runs of
// the same color and always terminating with a reset. When the colorize
// budget expires the whole line is rendered in the base color instead.
func (c *Console) colorizeLine(line string, rec record.Record) string {
	budget := c.colorizeBudget
	if budget < time.Millisecond {
		budget = time.Millisecond
	}

	deadline := time.Now().Add(budget)

	scan, err := syntax.ScanLine(line, deadline)
	if err != nil {
		return baseColor(rec) + line + ansiReset
	}

	var b strings.Builder

	current := ""

	for i, r := range scan.Runes() {
		if !time.Now().Before(deadline) {
			return baseColor(rec) + line + ansiReset
		}

		color := classColor(scan.ClassAt(i), rec)
		if color != current {
			b.WriteString(color)

			current = color
		}

		b.WriteRune(r)
	}

	b.WriteString(ansiReset)

	return b.String()
}
