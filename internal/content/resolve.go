package content

import (
	"sort"

	"github.com/starford/folio/internal/models"
)

// Version is one entry of the configured version catalog.
type Version struct {
	Path        string `json:"path" yaml:"path"`
	Label       string `json:"label" yaml:"label"`
	Latest      bool   `json:"latest,omitempty" yaml:"latest"`
	Description string `json:"description,omitempty" yaml:"description"`
}

// Catalog is the ordered list of known documentation versions.
type Catalog []Version

// Default returns the entry marked latest, else the first entry.
func (c Catalog) Default() (Version, bool) {
	for _, v := range c {
		if v.Latest {
			return v, true
		}
	}
	if len(c) > 0 {
		return c[0], true
	}
	return Version{}, false
}

// Lookup returns the catalog entry for path.
func (c Catalog) Lookup(path string) (Version, bool) {
	for _, v := range c {
		if v.Path == path {
			return v, true
		}
	}
	return Version{}, false
}

// IsLatest reports whether path is the catalog's latest version.
func (c Catalog) IsLatest(path string) bool {
	v, ok := c.Lookup(path)
	return ok && v.Latest
}

// DefaultSlugCandidates are tried, in order, when a request names no page.
var DefaultSlugCandidates = [][]string{
	{"getting-started"},
	{"introduction", "protocol-overview"},
}

// Resolver maps request paths onto (version, slug) pairs.
type Resolver struct {
	loader     *Loader
	catalog    Catalog
	candidates [][]string
}

// NewResolver creates a Resolver. A nil candidates list uses
// DefaultSlugCandidates.
func NewResolver(loader *Loader, catalog Catalog, candidates [][]string) *Resolver {
	if candidates == nil {
		candidates = DefaultSlugCandidates
	}
	return &Resolver{loader: loader, catalog: catalog, candidates: candidates}
}

// Catalog returns the configured catalog.
func (r *Resolver) Catalog() Catalog {
	return r.catalog
}

// SplitVersion peels a leading version segment off a request path when it
// names an existing version. Empty segments are ignored.
func (r *Resolver) SplitVersion(segments []string) (version string, slug []string) {
	var clean []string
	for _, s := range segments {
		if s != "" {
			clean = append(clean, s)
		}
	}
	if len(clean) > 0 {
		for _, v := range r.loader.ListVersions() {
			if v == clean[0] {
				return v, clean[1:]
			}
		}
	}
	return "", clean
}

// ResolveVersion picks the version to serve. An explicit param must exist.
// Without one, the catalog default is used when present on disk, then the
// first discovered version, then the catalog default path regardless.
func (r *Resolver) ResolveVersion(param string) (string, bool) {
	available := r.loader.ListVersions()
	has := func(v string) bool {
		for _, a := range available {
			if a == v {
				return true
			}
		}
		return false
	}

	if param != "" {
		return param, has(param)
	}

	def, hasDefault := r.catalog.Default()
	if hasDefault && has(def.Path) {
		return def.Path, true
	}
	if len(available) > 0 {
		return available[0], true
	}
	if hasDefault {
		return def.Path, true
	}
	return "", false
}

// ResolveSlug returns param when non-empty, else the first default
// candidate present in pages, else the page sorted first by order and slug.
func (r *Resolver) ResolveSlug(param []string, pages []*models.Page) []string {
	if len(param) > 0 {
		return param
	}
	for _, c := range r.candidates {
		if _, ok := FindBySlug(pages, c); ok {
			return c
		}
	}
	if len(pages) == 0 {
		return []string{}
	}
	sorted := append([]*models.Page(nil), pages...)
	sort.SliceStable(sorted, func(i, j int) bool {
		oi, oj := sorted[i].Metadata.EffectiveOrder(), sorted[j].Metadata.EffectiveOrder()
		if oi != oj {
			return oi < oj
		}
		return sorted[i].SlugKey() < sorted[j].SlugKey()
	})
	return sorted[0].Slug
}

// Breadcrumbs returns Home followed by one crumb per slug prefix. The last
// crumb is labelled with the page title and carries no link.
func Breadcrumbs(p *models.Page) []models.Breadcrumb {
	out := []models.Breadcrumb{{Label: "Home", Href: "/"}}
	if len(p.Slug) == 0 {
		return append(out, models.Breadcrumb{Label: p.Metadata.Title})
	}
	for i, part := range p.Slug {
		if i == len(p.Slug)-1 {
			out = append(out, models.Breadcrumb{Label: p.Metadata.Title})
			break
		}
		out = append(out, models.Breadcrumb{Label: part, Href: models.SlugHref(p.Slug[:i+1])})
	}
	return out
}
