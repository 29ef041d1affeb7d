package content

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/starford/folio/internal/models"
)

var (
	headingRe    = regexp.MustCompile(`(?m)^(#{2,4})\s+(.+)$`)
	anchorDropRe = regexp.MustCompile(`[^\w\s-]`)
	anchorWSRe   = regexp.MustCompile(`\s+`)
)

// AnchorFunc derives a heading anchor id from heading text.
type AnchorFunc func(text string) string

// ExtractHeadings returns the level 2-4 headings of body in document order.
// Duplicate headings produce duplicate anchor ids.
func ExtractHeadings(body string) []models.Heading {
	return ExtractHeadingsWith(body, AnchorID)
}

// ExtractHeadingsWith is ExtractHeadings with a custom id derivation. A nil
// anchor means AnchorID.
func ExtractHeadingsWith(body string, anchor AnchorFunc) []models.Heading {
	if anchor == nil {
		anchor = AnchorID
	}
	matches := headingRe.FindAllStringSubmatch(body, -1)
	out := make([]models.Heading, 0, len(matches))
	for _, m := range matches {
		text := strings.TrimSpace(m[2])
		out = append(out, models.Heading{
			ID:    anchor(text),
			Text:  text,
			Level: len(m[1]),
		})
	}
	return out
}

// AnchorID lowercases text, drops everything but ASCII word characters,
// spaces and hyphens, and turns whitespace runs into single hyphens.
// Accented letters are dropped ("Café" gives "caf").
func AnchorID(text string) string {
	id := strings.ToLower(text)
	id = anchorDropRe.ReplaceAllString(id, "")
	return anchorWSRe.ReplaceAllString(id, "-")
}

// FoldedAnchorID is AnchorID after folding accented letters to their base
// letter ("Café" gives "cafe").
func FoldedAnchorID(text string) string {
	return AnchorID(foldDiacritics(text))
}

// foldDiacritics strips combining marks (é -> e). Chained transformers carry
// state, so one is built per call.
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
