package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/docservice"
	"github.com/starford/folio/internal/index"
	"github.com/starford/folio/internal/mdx"
	"github.com/starford/folio/internal/render"
	"github.com/starford/folio/internal/testutil"
)

var testFiles = map[string]string{
	"v1/en/getting-started.md": "---\ntitle: Old Start\norder: 1\n---\nLegacy install.",
	"v2/en/getting-started.md": "---\ntitle: Getting Started\norder: 1\n---\n## Install\n\n<Callout type=\"warning\">Back up first.</Callout>\n",
	"v2/en/guides/setup.md":    "---\ntitle: Setup\norder: 2\n---\nConfigure the staking pool.",
	"v2/en/draft.md":           "---\ntitle: Draft\ndraft: true\n---\nstaking draft",
}

func testServer(t *testing.T) *Server {
	t.Helper()
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	_, store := testutil.TestContent(t, testFiles)
	db := testutil.TestDB(t)
	loader := content.NewLoader(store, content.WithLogger(logger))
	if _, err := index.NewSyncer(db, store, loader, logger, nil).Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	catalog := content.Catalog{{Path: "v1", Label: "v1"}, {Path: "v2", Label: "v2", Latest: true}}
	svc := docservice.NewService(loader, content.NewResolver(loader, catalog, nil),
		mdx.New(mdx.WithLogger(logger)), render.New(), db)
	return New(svc, "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no in-process call helper, so handlers are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_versions":
		result, err = srv.listVersions(ctx, req)
	case "list_pages":
		result, err = srv.listPages(ctx, req)
	case "read_page":
		result, err = srv.readPage(ctx, req)
	case "get_page_markdown":
		result, err = srv.getPageMarkdown(ctx, req)
	case "search_docs":
		result, err = srv.searchDocs(ctx, req)
	case "get_navigation":
		result, err = srv.getNavigation(ctx, req)
	case "get_content_format":
		result, err = srv.getContentFormat(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListVersions(t *testing.T) {
	srv := testServer(t)
	var versions []docservice.VersionInfo
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "list_versions", nil))), &versions); err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 || versions[1].Path != "v2" || !versions[1].Latest {
		t.Errorf("versions = %+v", versions)
	}
}

func TestListPages(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "list_pages", map[string]interface{}{}))
	want := "/getting-started\tGetting Started\n/guides/setup\tSetup"
	if text != want {
		t.Errorf("list_pages = %q, want %q", text, want)
	}

	r := callTool(t, srv, "list_pages", map[string]interface{}{"version": "v9"})
	if !r.IsError || resultText(r) != "unknown version" {
		t.Errorf("unknown version result = %q", resultText(r))
	}
}

func TestReadPage(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "read_page", map[string]interface{}{"slug": "getting-started"}))
	if !strings.Contains(text, `<Callout type="warning">`) {
		t.Errorf("read_page should keep markup, got %q", text)
	}
	if strings.Contains(text, "title:") {
		t.Error("read_page should not include frontmatter")
	}

	r := callTool(t, srv, "read_page", map[string]interface{}{"slug": "draft"})
	if !r.IsError {
		t.Error("expected error for draft page")
	}
}

func TestGetPageMarkdown(t *testing.T) {
	srv := testServer(t)
	text := resultText(callTool(t, srv, "get_page_markdown", map[string]interface{}{}))
	if !strings.HasPrefix(text, "# Getting Started\n") {
		t.Errorf("markdown = %q", text)
	}
	if strings.Contains(text, "<Callout") || !strings.Contains(text, "Back up first.") {
		t.Errorf("callout not flattened: %q", text)
	}

	text = resultText(callTool(t, srv, "get_page_markdown", map[string]interface{}{"version": "v1", "slug": "/getting-started/"}))
	if !strings.HasPrefix(text, "# Old Start") {
		t.Errorf("v1 markdown = %q", text)
	}
}

func TestSearchDocs(t *testing.T) {
	srv := testServer(t)
	var results []index.SearchResult
	text := resultText(callTool(t, srv, "search_docs", map[string]interface{}{"query": "staking", "version": "v2"}))
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		t.Fatalf("decode %q: %v", text, err)
	}
	if len(results) != 1 || results[0].Href != "/guides/setup" {
		t.Errorf("results = %+v", results)
	}

	r := callTool(t, srv, "search_docs", map[string]interface{}{})
	if !r.IsError {
		t.Error("expected error without query")
	}
}

func TestGetNavigation(t *testing.T) {
	srv := testServer(t)
	var nav docservice.NavView
	if err := json.Unmarshal([]byte(resultText(callTool(t, srv, "get_navigation", nil))), &nav); err != nil {
		t.Fatal(err)
	}
	if len(nav.Items) != 1 || nav.Items[0].Title != "Getting Started" {
		t.Errorf("nav = %+v", nav.Items)
	}
}

func TestContentFormat(t *testing.T) {
	srv := testServer(t)
	if text := resultText(callTool(t, srv, "get_content_format", nil)); text != ContentFormatContract {
		t.Error("tool should return the contract")
	}
	contents, err := srv.readContentFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok || tc.URI != ContentFormatURI || tc.Text != ContentFormatContract {
		t.Errorf("resource = %+v", contents[0])
	}
}
