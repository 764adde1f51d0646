// Package syntax is a stateless, bounded-time tokenizer for one log line.
//
// It classifies each rune of a line into a semantic [Class] so that the
// console and HTML facilities can color quoted strings, numbers, punctuation,
// and the left-hand side of key=value pairs. Because log lines are untrusted
// input, every scan loop checks a caller-supplied wall-clock deadline; when
// the budget runs out the scan aborts with [ErrBudgetExceeded] and the caller
// falls back to a single uncolored rendering of the line. A pathological line
// can therefore cost at most the budget, never an unbounded stall.
//
//	scan, err := syntax.ScanLine(line, time.Now().Add(15*time.Millisecond))
//	if err != nil {
//		// Render the line without color.
//	}
package syntax
