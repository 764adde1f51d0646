package sanitize

import (
	"html"
	"regexp"
	"strings"
)

const replacement = '�'

var newlineReplacer = strings.NewReplacer("\r\n", "\n", "\r", "\n")

var flattenRE = regexp.MustCompile(`\s*\n\s*`)

// Bidirectional control codepoints that can reorder surrounding text when
// rendered. Never allowed through to HTML output.
var bidiControls = map[rune]struct{}{
	0x061C: {}, // ALM
	0x200E: {}, // LRM
	0x200F: {}, // RLM
	0x202A: {}, // LRE
	0x202B: {}, // RLE
	0x202C: {}, // PDF
	0x202D: {}, // LRO
	0x202E: {}, // RLO
	0x2066: {}, // LRI
	0x2067: {}, // RLI
	0x2068: {}, // FSI
	0x2069: {}, // PDI
}

// NormalizeNewlines converts \r\n and bare \r line endings to \n.
func NormalizeNewlines(text string) string {
	return newlineReplacer.Replace(text)
}

// SplitLines normalizes line endings and splits on \n. The result always has
// at least one element.
func SplitLines(text string) []string {
	return strings.Split(NormalizeNewlines(text), "\n")
}

// Flatten collapses every whitespace run containing a newline into a single
// space and trims the ends, producing a one-line rendition of text.
func Flatten(text string) string {
	return strings.TrimSpace(flattenRE.ReplaceAllString(NormalizeNewlines(text), " "))
}

func isControl(r rune) bool {
	return (r >= 0x00 && r <= 0x1F) || (r >= 0x7F && r <= 0x9F)
}

// ForTerminal normalizes line endings and replaces C0/C1 control codepoints
// other than newline and tab with U+FFFD, neutralizing escape-sequence
// injection (including ESC itself).
func ForTerminal(text string) string {
	var b strings.Builder

	for _, r := range NormalizeNewlines(text) {
		if r != '\n' && r != '\t' && isControl(r) {
			b.WriteRune(replacement)
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// ForHTML is [ForTerminal] plus replacement of bidirectional control
// codepoints with U+FFFD.
func ForHTML(text string) string {
	var b strings.Builder

	for _, r := range NormalizeNewlines(text) {
		_, bidi := bidiControls[r]

		if (r != '\n' && r != '\t' && isControl(r)) || bidi {
			b.WriteRune(replacement)
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// EscapeHTML applies [ForHTML] and then entity-escapes &, <, >, single and
// double quotes.
func EscapeHTML(text string) string {
	return html.EscapeString(ForHTML(text))
}

// ClipRunes returns the first max runes of s. It never splits a rune.
func ClipRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}

	return string(runes[:max])
}

// RuneLen returns the number of runes in s.
func RuneLen(s string) int {
	return len([]rune(s))
}
