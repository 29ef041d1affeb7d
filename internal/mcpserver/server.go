// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the docs tree to LLM tools via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/docservice"
	"github.com/starford/folio/internal/index"
)

// ContentFormatURI is the resource describing the content format.
const ContentFormatURI = "folio://content-format"

// Server wraps the MCP server with docs tools.
type Server struct {
	mcp *server.MCPServer
	svc *docservice.Service
}

// New creates a new MCP server with all docs tools registered.
func New(svc *docservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"folio",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	scope := []mcp.ToolOption{
		mcp.WithString("version", mcp.Description("Docs version (e.g. v2); empty for the latest")),
		mcp.WithString("locale", mcp.Description("Locale (e.g. en); empty for the default locale")),
	}
	withScope := func(opts ...mcp.ToolOption) []mcp.ToolOption {
		return append(append([]mcp.ToolOption{}, opts...), scope...)
	}

	s.mcp.AddTool(mcp.NewTool("list_versions",
		mcp.WithDescription("List documentation versions and whether each exists on disk."),
	), s.listVersions)

	s.mcp.AddTool(mcp.NewTool("list_pages", withScope(
		mcp.WithDescription("List the pages of a version and locale, in reading order."),
	)...), s.listPages)

	s.mcp.AddTool(mcp.NewTool("read_page", withScope(
		mcp.WithDescription("Read the raw MDX body of a page, including component markers. "+
			"Prefer get_page_markdown for reading; use this to inspect markup."),
		mcp.WithString("slug", mcp.Description("Page slug (e.g. guides/setup); empty for the default page")),
	)...), s.readPage)

	s.mcp.AddTool(mcp.NewTool("get_page_markdown", withScope(
		mcp.WithDescription("Read a page as plain Markdown. Interactive components are flattened "+
			"to their closest Markdown form."),
		mcp.WithString("slug", mcp.Description("Page slug (e.g. guides/setup); empty for the default page")),
	)...), s.getPageMarkdown)

	s.mcp.AddTool(mcp.NewTool("search_docs", withScope(
		mcp.WithDescription("Case-insensitive substring search over page titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 20)")),
	)...), s.searchDocs)

	s.mcp.AddTool(mcp.NewTool("get_navigation", withScope(
		mcp.WithDescription("Get the sidebar tree of a version and locale with icon names."),
	)...), s.getNavigation)

	s.mcp.AddTool(mcp.NewTool("get_content_format",
		mcp.WithDescription("Returns the docs content format: frontmatter keys and component markers."),
	), s.getContentFormat)

	// Resource: content format contract.
	s.mcp.AddResource(
		mcp.NewResource(ContentFormatURI, "Content Format",
			mcp.WithResourceDescription("Frontmatter keys and component markers used by docs pages."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContentFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func splitSlug(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, "/") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func errorResult(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, apperr.ErrUnknownVersion):
		return mcp.NewToolResultError("unknown version"), nil
	case errors.Is(err, apperr.ErrNotFound):
		return mcp.NewToolResultError("not found"), nil
	}
	return mcp.NewToolResultError(err.Error()), nil
}

func (s *Server) listVersions(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.svc.Versions(ctx))
}

func (s *Server) listPages(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pages, err := s.svc.Pages(ctx, req.GetString("version", ""), req.GetString("locale", ""))
	if err != nil {
		return errorResult(err)
	}
	if len(pages) == 0 {
		return mcp.NewToolResultText("no pages found"), nil
	}
	lines := make([]string, 0, len(pages))
	for _, p := range pages {
		lines = append(lines, p.Href+"\t"+p.Title)
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) readPage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p, err := s.svc.RawPage(ctx, req.GetString("version", ""), req.GetString("locale", ""),
		splitSlug(req.GetString("slug", "")))
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(p.Body), nil
}

func (s *Server) getPageMarkdown(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	md, _, err := s.svc.Markdown(ctx, req.GetString("version", ""), req.GetString("locale", ""),
		splitSlug(req.GetString("slug", "")))
	if err != nil {
		return errorResult(err)
	}
	return mcp.NewToolResultText(md), nil
}

func (s *Server) searchDocs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, index.Query{
		Text:    query,
		Version: req.GetString("version", ""),
		Locale:  req.GetString("locale", ""),
		Limit:   req.GetInt("limit", 0),
	})
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(results)
}

func (s *Server) getNavigation(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nav, err := s.svc.Navigation(ctx, req.GetString("version", ""), req.GetString("locale", ""))
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(nav)
}

func (s *Server) getContentFormat(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(ContentFormatContract), nil
}

func (s *Server) readContentFormatResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ContentFormatURI,
			MIMEType: "text/markdown",
			Text:     ContentFormatContract,
		},
	}, nil
}
