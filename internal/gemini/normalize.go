package gemini

import (
	"regexp"
	"strings"
)

// Models ignore formatting instructions often enough that generated
// bodies arrive littered with markdown and escaped line breaks. The
// cleanup runs as an ordered list of passes, each a plain string rewrite,
// and the whole pipeline is idempotent: normalizing already-normalized
// text changes nothing.
var normalizationPasses = []struct {
	name  string
	apply func(string) string
}{
	{"unescape-literals", unescapeLiterals},
	{"strip-markers", stripMarkers},
	{"strip-bracketed", stripBracketed},
	{"normalize-bullets", normalizeBullets},
	{"normalize-colons", normalizeColons},
	{"collapse-whitespace", collapseWhitespace},
}

func NormalizeContent(content string) string {
	for _, pass := range normalizationPasses {
		content = pass.apply(content)
	}
	return content
}

// unescapeLiterals turns literally escaped sequences, which show up when
// a model double-encodes its JSON, into the characters they stand for.
func unescapeLiterals(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\"`, `"`)
	return s
}

var (
	headingRe    = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]*`)
	blockquoteRe = regexp.MustCompile(`(?m)^[ \t]*>[ \t]*`)
	horizRuleRe  = regexp.MustCompile(`(?m)^[ \t]*(-{3,}|={3,})[ \t]*$`)
)

// stripMarkers removes markdown emphasis and structure markers while
// leaving the text they wrap in place.
func stripMarkers(s string) string {
	s = headingRe.ReplaceAllString(s, "")
	s = blockquoteRe.ReplaceAllString(s, "")
	s = horizRuleRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "*", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, "~", "")
	return s
}

var (
	bracketedRe = regexp.MustCompile(`\[[^\]\n]*\]`)
	parenRe     = regexp.MustCompile(`\([^)\n]*\)`)
	tableCellRe = regexp.MustCompile(`[ \t]*\|[^\n]*?\|`)
)

// stripBracketed drops link labels, checkboxes, footnote references,
// parenthesized link targets and pipe-delimited table cells, whether
// the cells make up a whole row or sit in the middle of a line.
func stripBracketed(s string) string {
	s = bracketedRe.ReplaceAllString(s, "")
	s = parenRe.ReplaceAllString(s, "")
	s = tableCellRe.ReplaceAllString(s, "")
	return s
}

var bulletRe = regexp.MustCompile(`(?m)^[ \t]*[-•→+][ \t]*`)

// normalizeBullets rewrites every list marker at the start of a line to
// a plain "- ". Only line-start markers are touched, so hyphenated words
// inside prose survive.
func normalizeBullets(s string) string {
	return bulletRe.ReplaceAllString(s, "- ")
}

var colonRe = regexp.MustCompile(`[ \t]*:[ \t]+`)

func normalizeColons(s string) string {
	return colonRe.ReplaceAllString(s, ": ")
}

var (
	spaceRunRe     = regexp.MustCompile(`[ \t]+`)
	lineEdgeRe     = regexp.MustCompile(`[ \t]*\n[ \t]*`)
	blankLineRunRe = regexp.MustCompile(`\n{3,}`)
)

// collapseWhitespace squashes runs of spaces and surplus blank lines but
// keeps single newlines and paragraph breaks intact.
func collapseWhitespace(s string) string {
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = lineEdgeRe.ReplaceAllString(s, "\n")
	s = blankLineRunRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
