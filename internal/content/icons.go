package content

import (
	"regexp"
	"strings"

	"github.com/starford/folio/internal/models"
)

// DefaultManualIcons pins well-known sections to fixed icon names.
var DefaultManualIcons = map[string]string{
	"introduction":                 "compass",
	"getting-started":              "rocket",
	"concepts":                     "lightbulb",
	"core-mechanics":               "cog",
	"advanced-features":            "sparkles",
	"guides":                       "map",
	"user-guides":                  "school",
	"governance":                   "landmark",
	"security":                     "shield-check",
	"integration":                  "plug-zap",
	"technical-reference":          "circuit-board",
	"api":                          "braces",
	"resources":                    "library",
	"resources/audits":             "file-check-2",
	"resources/risks":              "alert-triangle",
	"resources/contract-addresses": "network",
	"resources/parameters":         "sliders",
	"resources/access-controls":    "key-round",
	"resources/licensing":          "scroll-text",
	"resources/brand-kit":          "palette",
	"resources/glossary":           "book-text",
	"faq":                          "help-circle",
	"appendices":                   "notebook-pen",
	"reference":                    "book-open",
}

// DefaultIconPool is drawn from, in order, for keys without a manual icon.
// The last entry doubles as the fallback once the pool is exhausted.
var DefaultIconPool = []string{
	"a-large-small", "alarm-clock-off", "align-center-vertical", "anchor",
	"aperture", "archive", "atom", "award", "badge-check", "banknote",
	"bar-chart-3", "blocks", "bookmark", "box", "brain", "briefcase",
	"calculator", "calendar", "clipboard-list", "cloud", "code", "coins",
	"component", "cpu", "database", "diamond", "file-text", "flag",
	"gauge", "gem", "git-branch", "globe", "hammer", "layers", "layout",
	"link", "list-checks", "lock", "milestone", "package", "percent",
	"pie-chart", "puzzle", "scale", "server", "settings", "shapes",
	"star", "target", "timer", "trending-up", "wallet", "wrench",
	"circle",
}

// IconTable maps normalised navigation keys to icon names. It is built once
// per navigation tree and passed alongside it.
type IconTable map[string]string

// IconFor returns the icon of a node.
func (t IconTable) IconFor(n *models.NavNode) string {
	return t[NavKey(n.Title, n.Href)]
}

// AssignIcons walks nodes in display order and assigns each one an icon:
// the manual icon when its key has one, otherwise the next pool icon not
// already in use. Once the pool is exhausted the last pool entry is reused.
func AssignIcons(nodes []*models.NavNode, manual map[string]string, pool []string) IconTable {
	table := IconTable{}
	used := make(map[string]bool, len(manual))
	for _, icon := range manual {
		used[icon] = true
	}
	fallback := ""
	if len(pool) > 0 {
		fallback = pool[len(pool)-1]
	}
	cursor := 0
	next := func() string {
		for cursor < len(pool) {
			candidate := pool[cursor]
			cursor++
			if !used[candidate] {
				return candidate
			}
		}
		return fallback
	}

	Walk(nodes, func(n *models.NavNode, _ int) {
		key := NavKey(n.Title, n.Href)
		if _, ok := table[key]; ok {
			return
		}
		if icon, ok := manual[key]; ok {
			table[key] = icon
			return
		}
		icon := next()
		table[key] = icon
		used[icon] = true
	})
	return table
}

var (
	versionSegRe = regexp.MustCompile(`(?i)^v\d+`)
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
)

// NavKey derives the icon lookup key from a node's href, ignoring a
// leading version segment, or from its title when the href is empty.
func NavKey(title, href string) string {
	raw := strings.TrimSpace(title)
	if raw == "" {
		raw = "untitled"
		if segs := splitPath(href); len(segs) > 0 {
			raw = segs[len(segs)-1]
		}
	}
	fallback := nonAlnumRe.ReplaceAllString(strings.ToLower(raw), "-")
	if href == "" {
		return fallback
	}

	segs := splitPath(href)
	if len(segs) > 0 && versionSegRe.MatchString(segs[0]) {
		segs = segs[1:]
	}
	for i := range segs {
		segs[i] = strings.ToLower(segs[i])
	}
	if key := strings.Join(segs, "/"); key != "" {
		return key
	}
	return fallback
}

func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
