package changelog

import (
	"regexp"
	"strings"
	"time"
)

// unreleasedWord matches the word "unreleased" in any casing inside a
// heading or reference link line.
var unreleasedWord = regexp.MustCompile(`(?i)unreleased`)

// UpdateOptions controls how Update rewrites the document.
type UpdateOptions struct {
	// NewVersion is the release version the Unreleased heading is renamed
	// to. When empty the section is extracted without rewriting.
	NewVersion string

	// ContainingVersion restricts the match to an Unreleased heading whose
	// text contains this substring. Empty matches any Unreleased heading.
	ContainingVersion string

	// TagPrefix is prepended to NewVersion when rewriting the comparison
	// link target (e.g. "v" turns "...master" into "...v1.2.3").
	TagPrefix string

	// InsertSkeleton re-inserts an empty Unreleased section ahead of the
	// renamed one, so the changelog is immediately ready for new entries.
	InsertSkeleton bool

	// CompareBase is the repository URL used for the skeleton's comparison
	// link, e.g. "https://github.com/greenbone/pontos".
	CompareBase string

	// Today reports the release date. Defaults to time.Now; overridable
	// in tests.
	Today func() time.Time
}

// UpdateResult carries the three artifacts of an update pass. When no
// Unreleased section matched, Updated and ChangelogBody are both empty and
// Original still holds the verbatim input.
type UpdateResult struct {
	// Original is the input document, unchanged, for diffing and audit.
	Original string

	// Updated is the full rewritten document.
	Updated string

	// ChangelogBody is the extracted (possibly renamed) section text.
	ChangelogBody string
}

// Released reports whether an Unreleased section was found and extracted.
// Callers must treat false as "nothing to release", not as a failure.
func (r UpdateResult) Released() bool {
	return r.ChangelogBody != ""
}

// Update rewrites the Unreleased section for a release in a single pass
// over the rewrite-mode token stream. The heading gains the new version and
// an ISO-8601 date suffix, the [Unreleased] comparison link is re-pointed
// at the release tag, and everything outside the rewritten spans is
// reproduced byte for byte.
func (p *Parser) Update(opts UpdateOptions) UpdateResult {
	today := opts.Today
	if today == nil {
		today = time.Now
	}

	tokens := p.tokenize(true)

	var updated strings.Builder
	var body []string
	depth := 0
	collecting := true

	for _, tok := range tokens {
		text := tok.Text
		switch {
		case tok.Kind == KindUnreleased &&
			(opts.ContainingVersion == "" || strings.Contains(text, opts.ContainingVersion)):
			depth = tok.Depth
			if opts.NewVersion != "" {
				if opts.InsertSkeleton {
					updated.WriteString(skeleton(opts.CompareBase, opts.TagPrefix, opts.NewVersion))
				}
				text = unreleasedWord.ReplaceAllLiteralString(text, opts.NewVersion)
				text += " - " + today().Format("2006-01-02")
			}
		case tok.Kind == KindUnreleasedLink:
			if opts.NewVersion != "" {
				text = unreleasedWord.ReplaceAllLiteralString(text, opts.NewVersion)
				text = strings.ReplaceAll(text, "master", opts.TagPrefix+opts.NewVersion)
			}
		case tok.IsHeading() && tok.Kind != KindUnreleased && depth > 0 && tok.Depth <= depth:
			collecting = false
		}

		updated.WriteString(text)

		if collecting && depth > 0 {
			if line := strings.TrimSpace(text); line != "" {
				body = append(body, line)
			}
		}
	}

	if len(body) == 0 {
		return UpdateResult{Original: p.doc}
	}

	return UpdateResult{
		Original:      p.doc,
		Updated:       updated.String(),
		ChangelogBody: strings.Join(body, "\n"),
	}
}
