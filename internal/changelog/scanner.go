package changelog

import (
	"regexp"
	"strings"
)

// TokenKind classifies a scanned span of a changelog document.
type TokenKind string

const (
	KindAdded          TokenKind = "added"
	KindChanged        TokenKind = "changed"
	KindDeprecated     TokenKind = "deprecated"
	KindRemoved        TokenKind = "removed"
	KindFixed          TokenKind = "fixed"
	KindSecurity       TokenKind = "security"
	KindUnreleased     TokenKind = "unreleased"
	KindUnreleasedLink TokenKind = "unreleased_link"
	KindHeading        TokenKind = "heading"
	KindNewline        TokenKind = "newline"
	KindAny            TokenKind = "any"
)

// Token is a single span of the document. Line is the cumulative newline
// count up to and including the token's text, so heading tokens report the
// 0-based line they start on. Depth is the number of leading '#' characters
// for heading tokens and 0 for everything else.
type Token struct {
	Line  int
	Kind  TokenKind
	Depth int
	Text  string
}

// IsHeading returns true for tokens that open or close a section.
func (t Token) IsHeading() bool {
	return t.Depth > 0
}

type rule struct {
	re   *regexp.Regexp
	kind TokenKind
}

// Rule order matters: the category rules must be tried before the generic
// unreleased rule so that "### Added (Unreleased)" scans as an Added heading,
// and the heading catch-all must come after both. The link rule only exists
// in rewrite mode because extraction has no use for reference-link lines.
var categoryRules = []rule{
	{regexp.MustCompile(`^#+ Added`), KindAdded},
	{regexp.MustCompile(`^#+ Changed`), KindChanged},
	{regexp.MustCompile(`^#+ Deprecated`), KindDeprecated},
	{regexp.MustCompile(`^#+ Removed`), KindRemoved},
	{regexp.MustCompile(`^#+ Fixed`), KindFixed},
	{regexp.MustCompile(`^#+ Security`), KindSecurity},
	{regexp.MustCompile(`^#+[^\n]*(?i:unreleased)[^\n]*`), KindUnreleased},
}

var (
	linkRule    = rule{regexp.MustCompile(`^\[Unreleased\][^\n]*`), KindUnreleasedLink}
	headingRule = rule{regexp.MustCompile(`^#+[^\n]*`), KindHeading}
	newlineRule = rule{regexp.MustCompile(`^\n`), KindNewline}
	anyRule     = rule{regexp.MustCompile(`^[^\n]+`), KindAny}
)

// scanner tokenizes a markdown document with an ordered, greedy
// first-match rule list. The zero value is not usable; construct with
// newScanner. Scanners are immutable and safe for concurrent use.
type scanner struct {
	rules []rule
	trim  bool
}

// newScanner builds a scanner for one of the two engine modes.
// In rewrite mode the raw matched text is preserved so that concatenating
// all tokens reconstructs the document exactly, and [Unreleased] reference
// link lines are recognized. In read mode token text is trimmed for section
// extraction and link lines scan as plain text.
func newScanner(rewrite bool) *scanner {
	rules := make([]rule, 0, len(categoryRules)+4)
	rules = append(rules, categoryRules...)
	if rewrite {
		rules = append(rules, linkRule)
	}
	rules = append(rules, headingRule, newlineRule, anyRule)
	return &scanner{rules: rules, trim: !rewrite}
}

// Scan tokenizes the document. It returns the ordered token stream and any
// trailing text no rule matched. A non-empty remainder indicates a grammar
// gap; callers surface it as a warning rather than failing.
func (s *scanner) Scan(doc string) ([]Token, string) {
	var tokens []Token
	line := 0
	pos := 0

	for pos < len(doc) {
		matched := false
		rest := doc[pos:]
		for _, r := range s.rules {
			m := r.re.FindString(rest)
			if m == "" {
				continue
			}
			line += strings.Count(m, "\n")
			text := m
			if s.trim {
				text = strings.TrimSpace(m)
			}
			tokens = append(tokens, Token{
				Line:  line,
				Kind:  r.kind,
				Depth: headingDepth(r.kind, m),
				Text:  text,
			})
			pos += len(m)
			matched = true
			break
		}
		if !matched {
			return tokens, doc[pos:]
		}
	}

	return tokens, ""
}

// headingDepth counts the leading '#' characters of a heading match.
// Non-heading kinds always report depth 0.
func headingDepth(kind TokenKind, match string) int {
	switch kind {
	case KindUnreleasedLink, KindNewline, KindAny:
		return 0
	}
	n := 0
	for n < len(match) && match[n] == '#' {
		n++
	}
	return n
}
