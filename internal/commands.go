package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/starford/folio/internal/docservice"
	"github.com/starford/folio/internal/mcpserver"
)

// RunMCP serves the docs over MCP on stdin/stdout until the client
// disconnects. Logs go to stderr unless WithLogOutput says otherwise.
func RunMCP(ctx context.Context, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(os.Stderr)}, opts...))
	if err != nil {
		return err
	}
	logger := newLogger(app.logOutput, app.config.App.LogLevel)

	rt, err := newRuntime(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	logger.Info("mcp: serving on stdio")
	return mcpserver.New(rt.svc, app.version).ServeStdio()
}

// InspectRequest selects the page printed by Inspect.
type InspectRequest struct {
	Version string
	Locale  string
	Slug    string
	HTML    bool
	// Markdown prints the flattened Markdown instead of the JSON view.
	Markdown bool
}

// Inspect resolves one page and writes its view to out. Logs are discarded
// unless WithLogOutput is given.
func Inspect(ctx context.Context, out io.Writer, req InspectRequest, opts ...Option) error {
	app, err := newApplication(append([]Option{WithLogOutput(io.Discard)}, opts...))
	if err != nil {
		return err
	}
	logger := newLogger(app.logOutput, app.config.App.LogLevel)

	rt, err := newRuntime(ctx, app.config, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	slug := splitSlug(req.Slug)
	if req.Markdown {
		md, _, err := rt.svc.Markdown(ctx, req.Version, req.Locale, slug)
		if err != nil {
			return err
		}
		_, err = io.WriteString(out, md)
		return err
	}

	view, err := rt.svc.Page(ctx, req.Version, req.Locale, slug, docservice.ViewOptions{HTML: req.HTML})
	if err != nil {
		return err
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(view); err != nil {
		return fmt.Errorf("inspect: encode view: %w", err)
	}
	return nil
}

func splitSlug(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, "/") {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
