package mdx

import "regexp"

var (
	versionedPathRe = regexp.MustCompile(`^/v\d+(/.*)?$`)
	versionedURLRe  = regexp.MustCompile(`^(https?://[^/]+)/v\d+(/.*)?$`)
)

// NormalizeDocsHref strips a leading /vN version segment from a docs link,
// either site-relative or absolute. Other hrefs are returned unchanged.
func NormalizeDocsHref(href string) string {
	if m := versionedPathRe.FindStringSubmatch(href); m != nil {
		if m[1] == "" {
			return "/"
		}
		return m[1]
	}
	if m := versionedURLRe.FindStringSubmatch(href); m != nil {
		return m[1] + m[2]
	}
	return href
}
