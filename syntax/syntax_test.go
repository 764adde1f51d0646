package syntax_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.jacobcolvin.com/logrouter/syntax"
)

func TestQuotedContentSpans(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected []syntax.Span
	}{
		"single pair": {
			input:    `key='value'`,
			expected: []syntax.Span{{Start: 5, End: 10}},
		},
		"double quotes": {
			input:    `say "hi" now`,
			expected: []syntax.Span{{Start: 5, End: 7}},
		},
		"two pairs": {
			input:    `'a' "b"`,
			expected: []syntax.Span{{Start: 1, End: 2}, {Start: 5, End: 6}},
		},
		"escaped quote stays open": {
			input:    `'a\'b'`,
			expected: []syntax.Span{{Start: 1, End: 5}},
		},
		"unterminated quote": {
			input:    `'never closed`,
			expected: nil,
		},
		"empty pair": {
			input:    `''`,
			expected: []syntax.Span{{Start: 1, End: 1}},
		},
		"no quotes": {
			input:    `plain text`,
			expected: nil,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			spans, err := syntax.QuotedContentSpans([]rune(tc.input), time.Time{})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, spans)
		})
	}
}

func TestQuoteMarkPositions(t *testing.T) {
	t.Parallel()

	positions, err := syntax.QuoteMarkPositions([]rune(`key='value'`), time.Time{})
	require.NoError(t, err)
	assert.Contains(t, positions, 4)
	assert.Contains(t, positions, 10)
	assert.Len(t, positions, 2)

	positions, err = syntax.QuoteMarkPositions([]rune(`'unterminated`), time.Time{})
	require.NoError(t, err)
	assert.Empty(t, positions)
}

func TestLHSSpans(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		input    string
		expected []syntax.Span
	}{
		"simple assignment": {
			input:    `count=3`,
			expected: []syntax.Span{{Start: 0, End: 5}},
		},
		"space before equals": {
			input:    `count = 3`,
			expected: []syntax.Span{{Start: 0, End: 5}},
		},
		"underscore identifier": {
			input:    `_retry_ms=1200`,
			expected: []syntax.Span{{Start: 0, End: 9}},
		},
		"two assignments": {
			input:    `a=1 b=2`,
			expected: []syntax.Span{{Start: 0, End: 1}, {Start: 4, End: 5}},
		},
		"identifier without equals": {
			input:    `plain words`,
			expected: nil,
		},
		"digit-led run is not an identifier": {
			input:    `9lives=1`,
			expected: []syntax.Span{{Start: 1, End: 6}},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			spans, err := syntax.LHSSpans([]rune(tc.input), time.Time{})
			require.NoError(t, err)
			assert.Equal(t, tc.expected, spans)
		})
	}
}

func TestTokenClassPriority(t *testing.T) {
	t.Parallel()

	line := `count='12'`
	scan, err := syntax.ScanLine(line, time.Time{})
	require.NoError(t, err)

	classes := make([]syntax.Class, 0, len(line))
	for i := range scan.Runes() {
		classes = append(classes, scan.ClassAt(i))
	}

	assert.Equal(t, []syntax.Class{
		syntax.ClassLHS, syntax.ClassLHS, syntax.ClassLHS, syntax.ClassLHS, syntax.ClassLHS,
		syntax.ClassPunct,
		syntax.ClassQuoteMark,
		syntax.ClassQuoteContent, syntax.ClassQuoteContent,
		syntax.ClassQuoteMark,
	}, classes)
}

func TestTokenClassNumberAndPunct(t *testing.T) {
	t.Parallel()

	scan, err := syntax.ScanLine(`x 42;`, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, syntax.ClassBase, scan.ClassAt(0))
	assert.Equal(t, syntax.ClassBase, scan.ClassAt(1))
	assert.Equal(t, syntax.ClassNumber, scan.ClassAt(2))
	assert.Equal(t, syntax.ClassNumber, scan.ClassAt(3))
	assert.Equal(t, syntax.ClassPunct, scan.ClassAt(4))
}

func TestExpiredDeadline(t *testing.T) {
	t.Parallel()

	expired := time.Now().Add(-time.Second)
	runes := []rune("key='value' count=3")

	_, err := syntax.QuotedContentSpans(runes, expired)
	require.ErrorIs(t, err, syntax.ErrBudgetExceeded)

	_, err = syntax.QuoteMarkPositions(runes, expired)
	require.ErrorIs(t, err, syntax.ErrBudgetExceeded)

	_, err = syntax.LHSSpans(runes, expired)
	require.ErrorIs(t, err, syntax.ErrBudgetExceeded)

	_, err = syntax.ScanLine(string(runes), expired)
	require.ErrorIs(t, err, syntax.ErrBudgetExceeded)
}
