package syntax

import (
	"errors"
	"time"
	"unicode"
)

// ErrBudgetExceeded indicates a scan ran past its wall-clock deadline.
var ErrBudgetExceeded = errors.New("colorize budget exceeded")

// Class is the semantic token class of a single rune.
type Class string

const (
	// ClassBase is the default class for unclassified runes.
	ClassBase Class = "base"
	// ClassQuoteMark marks an opening or closing quote of a closed pair.
	ClassQuoteMark Class = "quote-mark"
	// ClassQuoteContent marks runes between a closed pair of quotes.
	ClassQuoteContent Class = "quote-content"
	// ClassNumber marks decimal digits.
	ClassNumber Class = "number"
	// ClassPunct marks members of the punctuation set.
	ClassPunct Class = "punct"
	// ClassLHS marks identifier runs immediately followed by "=".
	ClassLHS Class = "lhs"
)

// Span is a half-open rune-index interval [Start, End).
type Span struct {
	Start int
	End   int
}

// Contains reports whether rune index i falls inside the span.
func (s Span) Contains(i int) bool {
	return s.Start <= i && i < s.End
}

const punctuation = ".,+-=<>:;[]{}"

func isPunct(r rune) bool {
	for _, p := range punctuation {
		if r == p {
			return true
		}
	}

	return false
}

func isQuote(r rune) bool {
	return r == '\'' || r == '"'
}

func checkDeadline(deadline time.Time) error {
	if !deadline.IsZero() && !time.Now().Before(deadline) {
		return ErrBudgetExceeded
	}

	return nil
}

// QuotedContentSpans returns the spans of content between matched quote
// pairs. A quote closes at the next occurrence of the same quote rune that is
// not preceded by a backslash; an unterminated quote produces no span. A zero
// deadline disables the budget.
func QuotedContentSpans(runes []rune, deadline time.Time) ([]Span, error) {
	var spans []Span

	idx := 0
	for idx < len(runes) {
		err := checkDeadline(deadline)
		if err != nil {
			return nil, err
		}

		quote := runes[idx]
		if !isQuote(quote) {
			idx++
			continue
		}

		start := idx + 1
		closed := false

		for cursor := start; cursor < len(runes); cursor++ {
			err = checkDeadline(deadline)
			if err != nil {
				return nil, err
			}

			if runes[cursor] == quote && (cursor == start || runes[cursor-1] != '\\') {
				spans = append(spans, Span{Start: start, End: cursor})
				idx = cursor + 1
				closed = true

				break
			}
		}

		if !closed {
			idx++
		}
	}

	return spans, nil
}

// QuoteMarkPositions returns the rune indices of the opening and closing
// quotes of every matched pair. A zero deadline disables the budget.
func QuoteMarkPositions(runes []rune, deadline time.Time) (map[int]struct{}, error) {
	positions := make(map[int]struct{})

	idx := 0
	for idx < len(runes) {
		err := checkDeadline(deadline)
		if err != nil {
			return nil, err
		}

		quote := runes[idx]
		if !isQuote(quote) {
			idx++
			continue
		}

		start := idx
		closed := false

		for cursor := idx + 1; cursor < len(runes); cursor++ {
			err = checkDeadline(deadline)
			if err != nil {
				return nil, err
			}

			if runes[cursor] == quote && runes[cursor-1] != '\\' {
				positions[start] = struct{}{}
				positions[cursor] = struct{}{}
				idx = cursor + 1
				closed = true

				break
			}
		}

		if !closed {
			idx++
		}
	}

	return positions, nil
}

// LHSSpans returns the spans of maximal identifier runs that are followed,
// after optional whitespace, by "=". A zero deadline disables the budget.
func LHSSpans(runes []rune, deadline time.Time) ([]Span, error) {
	var spans []Span

	length := len(runes)

	idx := 0
	for idx < length {
		err := checkDeadline(deadline)
		if err != nil {
			return nil, err
		}

		r := runes[idx]
		if !unicode.IsLetter(r) && r != '_' {
			idx++
			continue
		}

		start := idx
		idx++

		for idx < length && (unicode.IsLetter(runes[idx]) || unicode.IsDigit(runes[idx]) || runes[idx] == '_') {
			err = checkDeadline(deadline)
			if err != nil {
				return nil, err
			}

			idx++
		}

		end := idx

		lookahead := idx
		for lookahead < length && unicode.IsSpace(runes[lookahead]) {
			lookahead++
		}

		if lookahead < length && runes[lookahead] == '=' {
			spans = append(spans, Span{Start: start, End: end})
		}
	}

	return spans, nil
}

// TokenClass returns the class of the rune r at index i, applying the
// priority quote-mark > quote-content > lhs > number > punct > base.
func TokenClass(i int, r rune, quoteSpans []Span, quoteMarks map[int]struct{}, lhsSpans []Span) Class {
	if _, ok := quoteMarks[i]; ok {
		return ClassQuoteMark
	}

	if indexInSpans(i, quoteSpans) {
		return ClassQuoteContent
	}

	if indexInSpans(i, lhsSpans) {
		return ClassLHS
	}

	if unicode.IsDigit(r) {
		return ClassNumber
	}

	if isPunct(r) {
		return ClassPunct
	}

	return ClassBase
}

func indexInSpans(i int, spans []Span) bool {
	for _, s := range spans {
		if s.Contains(i) {
			return true
		}
	}

	return false
}

// Line bundles the three scans of one line so facilities can classify each
// rune in a single pass.
type Line struct {
	quoteMarks map[int]struct{}
	runes      []rune
	quoteSpans []Span
	lhsSpans   []Span
}

// ScanLine runs all three scans over line under the given deadline.
func ScanLine(line string, deadline time.Time) (*Line, error) {
	runes := []rune(line)

	quoteSpans, err := QuotedContentSpans(runes, deadline)
	if err != nil {
		return nil, err
	}

	quoteMarks, err := QuoteMarkPositions(runes, deadline)
	if err != nil {
		return nil, err
	}

	lhsSpans, err := LHSSpans(runes, deadline)
	if err != nil {
		return nil, err
	}

	return &Line{
		runes:      runes,
		quoteSpans: quoteSpans,
		quoteMarks: quoteMarks,
		lhsSpans:   lhsSpans,
	}, nil
}

// Runes returns the scanned line as runes.
func (l *Line) Runes() []rune {
	return l.runes
}

// ClassAt returns the class of the rune at index i.
func (l *Line) ClassAt(i int) Class {
	return TokenClass(i, l.runes[i], l.quoteSpans, l.quoteMarks, l.lhsSpans)
}
