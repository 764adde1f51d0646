package sanitize

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ErrUnsafeHTML indicates a rendered HTML fragment violated the strict
// allow-list schema, or that committing it would exceed a document limit.
var ErrUnsafeHTML = errors.New("unsafe HTML")

var allowedRowTags = map[string]struct{}{
	"div":  {},
	"pre":  {},
	"span": {},
}

var allowedRowClasses = map[string]struct{}{
	"log-row":           {},
	"log-line-no":       {},
	"log-time":          {},
	"log-date":          {},
	"log-clock":         {},
	"badge-info":        {},
	"badge-debug":       {},
	"badge-warning":     {},
	"badge-error":       {},
	"syn-base":          {},
	"syn-quote-mark":    {},
	"syn-quote-content": {},
	"syn-number":        {},
	"syn-punct":         {},
	"syn-lhs":           {},
}

// ValidateFragment checks one rendered log row against the strict allow-list
// schema and returns an error wrapping [ErrUnsafeHTML] on the first
// violation.
//
// The rules: only div, pre, and span tags; the first tag must be a div; the
// only permitted attribute is class, whose tokens must all be in the closed
// allow-list; no attribute name may start with "on"; no self-closing tags,
// comments, or doctypes; the tag stack must balance exactly.
//
// Every row is validated before it is appended, including rows produced by
// this module's own renderer.
func ValidateFragment(fragment string) error {
	z := html.NewTokenizer(strings.NewReader(fragment))

	var stack []string

	sawRoot := false

	for {
		switch z.Next() {
		case html.ErrorToken:
			err := z.Err()
			if !errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: tokenizing fragment: %w", ErrUnsafeHTML, err)
			}

			if !sawRoot {
				return fmt.Errorf("%w: fragment has no root tag", ErrUnsafeHTML)
			}

			if len(stack) != 0 {
				return fmt.Errorf("%w: fragment has unclosed tags", ErrUnsafeHTML)
			}

			return nil

		case html.StartTagToken:
			tok := z.Token()

			if _, ok := allowedRowTags[tok.Data]; !ok {
				return fmt.Errorf("%w: disallowed tag <%s>", ErrUnsafeHTML, tok.Data)
			}

			if !sawRoot {
				if tok.Data != "div" {
					return fmt.Errorf("%w: row must start with a <div> root", ErrUnsafeHTML)
				}

				sawRoot = true
			}

			err := validateAttributes(tok)
			if err != nil {
				return err
			}

			stack = append(stack, tok.Data)

		case html.EndTagToken:
			tok := z.Token()

			if _, ok := allowedRowTags[tok.Data]; !ok {
				return fmt.Errorf("%w: disallowed closing tag </%s>", ErrUnsafeHTML, tok.Data)
			}

			if len(stack) == 0 {
				return fmt.Errorf("%w: unexpected closing tag </%s>", ErrUnsafeHTML, tok.Data)
			}

			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if top != tok.Data {
				return fmt.Errorf("%w: unbalanced tags, expected </%s> but got </%s>",
					ErrUnsafeHTML, top, tok.Data)
			}

		case html.SelfClosingTagToken:
			tok := z.Token()

			return fmt.Errorf("%w: self-closing tag <%s/> is not allowed", ErrUnsafeHTML, tok.Data)

		case html.CommentToken:
			return fmt.Errorf("%w: comments are not allowed", ErrUnsafeHTML)

		case html.DoctypeToken:
			return fmt.Errorf("%w: doctypes are not allowed", ErrUnsafeHTML)

		case html.TextToken:
			// Escaped text content is fine.
		}
	}
}

func validateAttributes(tok html.Token) error {
	for _, attr := range tok.Attr {
		name := strings.ToLower(attr.Key)

		if strings.HasPrefix(name, "on") {
			return fmt.Errorf("%w: event handler attribute %q is not allowed", ErrUnsafeHTML, attr.Key)
		}

		if name != "class" {
			return fmt.Errorf("%w: attribute %q is not allowed on <%s>", ErrUnsafeHTML, attr.Key, tok.Data)
		}

		classes := strings.Fields(attr.Val)
		if len(classes) == 0 {
			return fmt.Errorf("%w: class attribute must not be empty", ErrUnsafeHTML)
		}

		for _, class := range classes {
			if _, ok := allowedRowClasses[class]; !ok {
				return fmt.Errorf("%w: disallowed CSS class %q", ErrUnsafeHTML, class)
			}
		}
	}

	return nil
}
