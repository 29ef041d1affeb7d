package index

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/starford/folio/internal/models"
)

// DefaultSearchLimit caps results when Query.Limit is not positive.
const DefaultSearchLimit = 20

const snippetRadius = 80

// Query is a substring search over page titles and bodies.
type Query struct {
	Text    string
	Version string // optional filter
	Locale  string // optional filter
	Limit   int
}

// SearchResult is one matching page.
type SearchResult struct {
	Version string `json:"version"`
	Locale  string `json:"locale"`
	Slug    string `json:"slug"`
	Href    string `json:"href"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// Search returns pages whose title or body contains q.Text, case-insensitive.
// Title matches sort first, then by page order and slug.
func (db *DB) Search(q Query) ([]SearchResult, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return []SearchResult{}, nil
	}
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	pattern := "%" + escapeLike(strings.ToLower(text)) + "%"

	where := []string{`(lower(title) LIKE ? ESCAPE '\' OR lower(body) LIKE ? ESCAPE '\')`}
	args := []any{pattern, pattern}
	if q.Version != "" {
		where = append(where, "version = ?")
		args = append(args, q.Version)
	}
	if q.Locale != "" {
		where = append(where, "locale = ?")
		args = append(args, q.Locale)
	}
	args = append(args, pattern, limit)

	rows, err := db.conn.Query(`
		SELECT version, locale, slug, title, body
		FROM pages
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY (lower(title) LIKE ? ESCAPE '\') DESC, sort_order, slug
		LIMIT ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		var body string
		if err := rows.Scan(&r.Version, &r.Locale, &r.Slug, &r.Title, &body); err != nil {
			return nil, err
		}
		r.Href = slugHref(r.Slug)
		r.Snippet = snippet(body, text)
		out = append(out, r)
	}
	return out, rows.Err()
}

func slugHref(slug string) string {
	if slug == "" {
		return "/"
	}
	return models.SlugHref(strings.Split(slug, "/"))
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// snippet returns a single-line excerpt of body around the first
// case-insensitive occurrence of term, or the body's start when the match
// is only in the title.
func snippet(body, term string) string {
	lower := strings.ToLower(body)
	i := strings.Index(lower, strings.ToLower(term))
	// ToLower can change byte lengths for some scripts.
	if len(lower) != len(body) {
		i = -1
	}
	start, end := 0, min(len(body), 2*snippetRadius)
	if i >= 0 {
		start = max(0, i-snippetRadius)
		end = min(len(body), i+len(term)+snippetRadius)
	}
	for start > 0 && !utf8.RuneStart(body[start]) {
		start--
	}
	for end < len(body) && !utf8.RuneStart(body[end]) {
		end++
	}
	s := strings.Join(strings.Fields(body[start:end]), " ")
	if start > 0 {
		s = "…" + s
	}
	if end < len(body) {
		s += "…"
	}
	return s
}
