// Package changelog locates and rewrites the Unreleased section of a
// "Keep a Changelog" style markdown document. The engine tokenizes the
// document into heading-depth annotated spans, extracts the section bounded
// by the Unreleased heading and the next heading of equal or shallower
// depth, and can rewrite the heading and comparison link for a release.
//
// The engine is pure text-in/text-out: it performs no I/O and holds no
// mutable state, so a Parser may be shared across goroutines.
package changelog

import (
	"fmt"
	"strings"

	"github.com/nichtsfrei/pontos/internal/logger"
)

// NoUnreleasedError is returned when a document contains no Unreleased
// heading matching the requested constraint.
type NoUnreleasedError struct {
	// ContainingVersion is the substring filter that was applied, empty if
	// any Unreleased heading would have matched.
	ContainingVersion string
}

func (e *NoUnreleasedError) Error() string {
	return "no unreleased information found"
}

// Parser reads one markdown document. The document is immutable; every
// call tokenizes it afresh.
type Parser struct {
	doc string
}

// NewParser returns a parser over the given markdown document.
func NewParser(markdown string) *Parser {
	return &Parser{doc: markdown}
}

// FindUnreleased locates the Unreleased section and returns its 0-based
// start and end line offsets together with the section body. The end offset
// names the line of the heading that terminates the section, or the last
// line of the document when the section runs to the end.
//
// When containingVersion is non-empty, only an Unreleased heading whose
// text contains it (case-sensitive substring match) starts the section.
// Returns a *NoUnreleasedError when nothing matches.
func (p *Parser) FindUnreleased(containingVersion string) (int, int, string, error) {
	tokens := p.tokenize(false)

	start := 0
	depth := 0
	found := false
	lastLine := 0
	var body []string

	for _, tok := range tokens {
		lastLine = tok.Line
		if tok.Kind == KindUnreleased {
			if containingVersion == "" || strings.Contains(tok.Text, containingVersion) {
				start = tok.Line
				depth = tok.Depth
				found = true
			}
		} else if tok.IsHeading() && depth > 0 && tok.Depth <= depth {
			return start, tok.Line, strings.Join(body, "\n"), nil
		}
		if depth > 0 {
			body = append(body, tok.Text)
		}
	}

	if found {
		return start, lastLine, strings.Join(body, "\n"), nil
	}

	return 0, 0, "", &NoUnreleasedError{ContainingVersion: containingVersion}
}

// tokenize scans the document and surfaces any unmatched remainder as a
// warning. The remainder is discarded; scanning continues to be lossless
// for everything that did match.
func (p *Parser) tokenize(rewrite bool) []Token {
	tokens, remainder := newScanner(rewrite).Scan(p.doc)
	if remainder != "" {
		logger.Warn("unrecognized tokens: %s", truncate(remainder, 120))
	}
	return tokens
}

// truncate shortens s for log output.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return fmt.Sprintf("%s... (%d bytes)", s[:n], len(s))
}
