package docservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/mdx"
	"github.com/starford/folio/internal/models"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/storage"
)

func doc(fm, body string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte("---\n" + fm + "\n---\n" + body)}
}

const (
	startBody = "## Install\n\n<Callout type=\"warning\">Careful.</Callout>\n\nSee [guide](/v2/guides/setup).\n"
	setupBody = "## Hidden TOC\n\n## Next Steps\n\nGo on.\n\n<StepByStep steps={[oops]} />\n"
)

var testTree = fstest.MapFS{
	"v1/en/getting-started.md": doc("title: Old Start\norder: 1", "Legacy."),
	"v2/en/getting-started.md": doc("title: Getting Started\norder: 1", startBody),
	"v2/en/guides/index.md":    doc("title: Guides\norder: 2", "All guides."),
	"v2/en/guides/setup.mdx":   doc("title: Setup\norder: 3\ntoc: false", setupBody),
	"v2/en/draft.md":           doc("title: Draft\ndraft: true", ""),
	"v2/es/introduccion.md":    doc("title: Introducción", ""),
	"v3-beta/en/index.md":      doc("title: Beta", ""),
}

type stubIndex struct {
	index.PageIndex
	got index.Query
}

func (s *stubIndex) Search(q index.Query) ([]index.SearchResult, error) {
	s.got = q
	return []index.SearchResult{{Slug: "guides/setup", Title: "Setup"}}, nil
}

func testService(t *testing.T, search index.PageIndex) *Service {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	loader := content.NewLoader(storage.NewFromFS(testTree), content.WithLogger(logger))
	catalog := content.Catalog{
		{Path: "v1", Label: "v1 (legacy)"},
		{Path: "v2", Label: "v2", Latest: true},
		{Path: "v0", Label: "v0 (archived)"},
	}
	resolver := content.NewResolver(loader, catalog, nil)
	return NewService(loader, resolver, mdx.New(mdx.WithLogger(logger)), render.New(), search)
}

func TestVersions(t *testing.T) {
	got := testService(t, nil).Versions(context.Background())
	require.Len(t, got, 4)
	assert.Equal(t, "v1", got[0].Path)
	assert.True(t, got[1].Latest)
	assert.Equal(t, "v0", got[2].Path)
	assert.False(t, got[2].Available)
	assert.Equal(t, VersionInfo{Version: content.Version{Path: "v3-beta", Label: "v3-beta"}, Available: true}, got[3])
}

func TestLocales(t *testing.T) {
	s := testService(t, nil)
	v, locales, err := s.Locales(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
	assert.Equal(t, []string{"en", "es"}, locales)

	_, _, err = s.Locales(context.Background(), "v9")
	assert.ErrorIs(t, err, apperr.ErrUnknownVersion)
}

func TestPages(t *testing.T) {
	pages, err := testService(t, nil).Pages(context.Background(), "v2", "en")
	require.NoError(t, err)
	var hrefs []string
	for _, p := range pages {
		hrefs = append(hrefs, p.Href)
	}
	assert.Equal(t, []string{"/getting-started", "/guides", "/guides/setup"}, hrefs)
	assert.NotNil(t, pages[0].Tags)
}

func TestNavigation(t *testing.T) {
	nav, err := testService(t, nil).Navigation(context.Background(), "v2", "")
	require.NoError(t, err)
	require.Len(t, nav.Items, 2)
	assert.Equal(t, "Guides", nav.Items[1].Title)
	require.Len(t, nav.Items[1].Children, 1)
	assert.Equal(t, "rocket", nav.Icons.IconFor(nav.Items[0]))
	assert.Equal(t, "map", nav.Icons.IconFor(nav.Items[1]))
}

func TestPage_DefaultSlug(t *testing.T) {
	view, err := testService(t, nil).Page(context.Background(), "", "", nil, ViewOptions{})
	require.NoError(t, err)

	assert.Equal(t, "v2", view.Version)
	assert.Equal(t, "en", view.Locale)
	assert.Equal(t, "Getting Started", view.Page.Metadata.Title)
	assert.Equal(t, "Install", view.Headings[0].Text)
	require.NotNil(t, view.PrevNext)
	assert.Nil(t, view.PrevNext.Previous)
	assert.Equal(t, "Guides", view.PrevNext.Next.Metadata.Title)
	assert.Equal(t, "Home", view.Breadcrumbs[0].Label)
	assert.NotEmpty(t, view.ETag)

	var kinds []string
	for _, seg := range view.Segments {
		assert.Empty(t, seg.HTML)
		if seg.IsWidget() {
			kinds = append(kinds, string(seg.Kind))
		}
	}
	assert.Equal(t, []string{"callout"}, kinds)
}

func TestPage_HTML(t *testing.T) {
	s := testService(t, nil)
	plain, err := s.Page(context.Background(), "v2", "en", []string{"getting-started"}, ViewOptions{})
	require.NoError(t, err)
	view, err := s.Page(context.Background(), "v2", "en", []string{"getting-started"}, ViewOptions{HTML: true})
	require.NoError(t, err)

	assert.Contains(t, view.Segments[0].HTML, `<h2 id="install">Install</h2>`)
	assert.Contains(t, view.Segments[1].HTML, "Careful.")
	last := view.Segments[len(view.Segments)-1]
	assert.Contains(t, last.HTML, `href="/guides/setup"`)
	assert.NotEqual(t, plain.ETag, view.ETag)
}

func TestPage_ETagPerPage(t *testing.T) {
	s := testService(t, nil)
	ctx := context.Background()
	start, err := s.Page(ctx, "v2", "en", []string{"getting-started"}, ViewOptions{})
	require.NoError(t, err)
	guides, err := s.Page(ctx, "v2", "en", []string{"guides"}, ViewOptions{})
	require.NoError(t, err)
	again, err := s.Page(ctx, "v2", "en", nil, ViewOptions{})
	require.NoError(t, err)

	assert.NotEqual(t, start.ETag, guides.ETag)
	assert.Equal(t, start.ETag, again.ETag)
}

func TestPage_TOCAndNextStepsSuppressed(t *testing.T) {
	view, err := testService(t, nil).Page(context.Background(), "v2", "en", []string{"guides", "setup"}, ViewOptions{})
	require.NoError(t, err)

	assert.Empty(t, view.Headings)
	assert.NotNil(t, view.Headings)
	assert.Nil(t, view.PrevNext)
	require.Len(t, view.Failures, 1)
	assert.Equal(t, mdx.KindSteps, view.Failures[0].Kind)
	assert.Equal(t, []models.Breadcrumb{
		{Label: "Home", Href: "/"},
		{Label: "guides", Href: "/guides"},
		{Label: "Setup"},
	}, view.Breadcrumbs)
}

func TestPage_NotFound(t *testing.T) {
	s := testService(t, nil)
	_, err := s.Page(context.Background(), "v2", "en", []string{"draft"}, ViewOptions{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.Page(context.Background(), "v2", "fr", nil, ViewOptions{})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.Page(context.Background(), "v7", "en", nil, ViewOptions{})
	assert.ErrorIs(t, err, apperr.ErrUnknownVersion)
}

func TestMarkdown(t *testing.T) {
	md, p, err := testService(t, nil).Markdown(context.Background(), "v2", "en", []string{"getting-started"})
	require.NoError(t, err)
	assert.Equal(t, "getting-started.md", p.Path)
	assert.True(t, strings.HasPrefix(md, "# Getting Started\n\n## Install\n"))
	assert.Contains(t, md, "> **Warning:** Careful.")
	assert.NotContains(t, md, "<Callout")
}

func TestSearch(t *testing.T) {
	_, err := testService(t, nil).Search(context.Background(), index.Query{Text: "x"})
	assert.True(t, errors.Is(err, apperr.ErrNotFound))

	stub := &stubIndex{}
	res, err := testService(t, stub).Search(context.Background(), index.Query{Text: "setup", Version: "v2"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	assert.Equal(t, "v2", stub.got.Version)
}
