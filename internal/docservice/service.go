// Package docservice assembles everything a docs page needs (content,
// navigation, neighbours, headings and transformed segments) from the
// loader, transformer, renderer and search index.
package docservice

import (
	"context"
	"fmt"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/checksum"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/mdx"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/render"
)

// VersionInfo is a catalog entry plus whether it exists on disk. Versions
// found on disk but missing from the catalog are listed with their path as
// label.
type VersionInfo struct {
	content.Version
	Available bool `json:"available"`
}

// PageSummary is a lightweight item in a page list.
type PageSummary struct {
	Slug        []string `json:"slug"`
	Href        string   `json:"href"`
	Path        string   `json:"path"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Order       int      `json:"order"`
	Tags        []string `json:"tags"`
}

// NavView is the sidebar tree plus its icon table.
type NavView struct {
	Items []*models.NavNode `json:"items"`
	Icons content.IconTable `json:"icons"`
}

// PageView is the full representation of one docs page.
type PageView struct {
	Version     string              `json:"version"`
	Locale      string              `json:"locale"`
	Page        *models.Page        `json:"page"`
	Nav         NavView             `json:"nav"`
	PrevNext    *models.PrevNext    `json:"prevNext,omitempty"`
	Headings    []models.Heading    `json:"headings"`
	Segments    []render.Rendered   `json:"segments"`
	Breadcrumbs []models.Breadcrumb `json:"breadcrumbs"`
	Failures    []mdx.Failure       `json:"failures,omitempty"`
	// ETag changes whenever any part of the view would.
	ETag string `json:"-"`
}

// ViewOptions tunes Page.
type ViewOptions struct {
	// HTML renders prose, callout and raw-block segments to HTML.
	HTML bool
}

// Service coordinates content reads, transformation and search.
type Service struct {
	loader        *content.Loader
	resolver      *content.Resolver
	transformer   *mdx.Transformer
	renderer      *render.Renderer
	search        index.PageIndex
	defaultLocale string
	manualIcons   map[string]string
	iconPool      []string
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultLocale sets the locale used when a request names none.
func WithDefaultLocale(locale string) Option {
	return func(s *Service) { s.defaultLocale = locale }
}

// WithIcons replaces the manual icon map and icon pool.
func WithIcons(manual map[string]string, pool []string) Option {
	return func(s *Service) {
		s.manualIcons = manual
		s.iconPool = pool
	}
}

// NewService creates a docs service. search may be nil, in which case
// Search returns apperr.ErrNotFound.
func NewService(loader *content.Loader, resolver *content.Resolver, tr *mdx.Transformer, rd *render.Renderer, search index.PageIndex, opts ...Option) *Service {
	s := &Service{
		loader:        loader,
		resolver:      resolver,
		transformer:   tr,
		renderer:      rd,
		search:        search,
		defaultLocale: content.FallbackLocale,
		manualIcons:   content.DefaultManualIcons,
		iconPool:      content.DefaultIconPool,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Versions lists catalog versions followed by any uncatalogued versions
// discovered on disk.
func (s *Service) Versions(_ context.Context) []VersionInfo {
	onDisk := s.loader.ListVersions()
	present := make(map[string]bool, len(onDisk))
	for _, v := range onDisk {
		present[v] = true
	}

	out := []VersionInfo{}
	seen := map[string]bool{}
	for _, v := range s.resolver.Catalog() {
		out = append(out, VersionInfo{Version: v, Available: present[v.Path]})
		seen[v.Path] = true
	}
	for _, v := range onDisk {
		if !seen[v] {
			out = append(out, VersionInfo{Version: content.Version{Path: v, Label: v}, Available: true})
		}
	}
	return out
}

// Locales lists the locales of a version. An empty version resolves to the
// default one.
func (s *Service) Locales(_ context.Context, version string) (string, []string, error) {
	v, err := s.ResolveVersion(version)
	if err != nil {
		return "", nil, err
	}
	return v, s.loader.ListLocales(v), nil
}

// Pages lists every non-draft page of a scope, sorted by order then slug.
func (s *Service) Pages(_ context.Context, version, locale string) ([]PageSummary, error) {
	v, err := s.ResolveVersion(version)
	if err != nil {
		return nil, err
	}
	pages := s.loader.LoadPages(v, s.locale(locale))
	sortPages(pages)

	out := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, summarize(p))
	}
	return out, nil
}

// Navigation returns the sidebar tree and icon table of a scope.
func (s *Service) Navigation(_ context.Context, version, locale string) (*NavView, error) {
	v, err := s.ResolveVersion(version)
	if err != nil {
		return nil, err
	}
	nav := s.nav(s.loader.LoadPages(v, s.locale(locale)))
	return &nav, nil
}

// Page resolves (version, locale, slug) and assembles its view. An empty
// slug resolves to the scope's default page.
func (s *Service) Page(_ context.Context, version, locale string, slug []string, opts ViewOptions) (*PageView, error) {
	v, err := s.ResolveVersion(version)
	if err != nil {
		return nil, err
	}
	loc := s.locale(locale)
	pages := s.loader.LoadPages(v, loc)
	target := s.resolver.ResolveSlug(slug, pages)
	p, ok := content.FindBySlug(pages, target)
	if !ok {
		return nil, fmt.Errorf("docservice: page %s/%s/%s: %w", v, loc, models.JoinSlug(target), apperr.ErrNotFound)
	}

	view := &PageView{
		Version:     v,
		Locale:      loc,
		Page:        p,
		Nav:         s.nav(pages),
		Headings:    []models.Heading{},
		Breadcrumbs: content.Breadcrumbs(p),
	}
	if p.Metadata.ShowTOC() {
		view.Headings = content.ExtractHeadingsWith(p.Body, s.renderer.Anchors())
	}
	if !content.HasCustomNextSteps(p.Body) {
		pn := content.DerivePrevNext(pages, p.Slug)
		view.PrevNext = &pn
	}

	res := s.transformer.Transform(p.Body)
	view.Failures = res.Failures
	if opts.HTML {
		view.Segments, err = s.renderer.Segments(res.Segments)
		if err != nil {
			return nil, err
		}
	} else {
		view.Segments = make([]render.Rendered, 0, len(res.Segments))
		for _, seg := range res.Segments {
			view.Segments = append(view.Segments, render.Rendered{Segment: seg})
		}
	}

	html := "md"
	if opts.HTML {
		html = "html"
	}
	view.ETag = checksum.ETag(v, loc, html, p.SlugKey(), pagesFingerprint(pages))
	return view, nil
}

// RawPage returns the untransformed page record.
func (s *Service) RawPage(_ context.Context, version, locale string, slug []string) (*models.Page, error) {
	v, err := s.ResolveVersion(version)
	if err != nil {
		return nil, err
	}
	loc := s.locale(locale)
	pages := s.loader.LoadPages(v, loc)
	p, ok := content.FindBySlug(pages, s.resolver.ResolveSlug(slug, pages))
	if !ok {
		return nil, fmt.Errorf("docservice: page %s/%s/%s: %w", v, loc, models.JoinSlug(slug), apperr.ErrNotFound)
	}
	return p, nil
}

// Markdown returns a page body with every widget flattened to plain
// Markdown, headed by the page title.
func (s *Service) Markdown(ctx context.Context, version, locale string, slug []string) (string, *models.Page, error) {
	p, err := s.RawPage(ctx, version, locale, slug)
	if err != nil {
		return "", nil, err
	}
	body, err := render.Markdown(s.transformer.Transform(p.Body).Segments)
	if err != nil {
		return "", nil, err
	}
	return "# " + p.Metadata.Title + "\n\n" + body, p, nil
}

// Search delegates substring search to the index.
func (s *Service) Search(_ context.Context, q index.Query) ([]index.SearchResult, error) {
	if s.search == nil {
		return nil, fmt.Errorf("docservice: search: %w", apperr.ErrNotFound)
	}
	return s.search.Search(q)
}

// ResolveVersion maps a requested version onto an existing one. An empty
// param selects the default version.
func (s *Service) ResolveVersion(param string) (string, error) {
	v, ok := s.resolver.ResolveVersion(param)
	if !ok {
		return "", fmt.Errorf("docservice: version %q: %w", param, apperr.ErrUnknownVersion)
	}
	return v, nil
}

func (s *Service) locale(param string) string {
	if param == "" {
		return s.defaultLocale
	}
	return param
}

func (s *Service) nav(pages []*models.Page) NavView {
	items := content.BuildNavigationTree(pages)
	return NavView{Items: items, Icons: content.AssignIcons(items, s.manualIcons, s.iconPool)}
}
