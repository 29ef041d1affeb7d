// Package render turns transformed page segments into HTML for the API and
// into plain Markdown for LLM-facing tools.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/starford/folio/internal/content"
	"github.com/starford/folio/internal/mdx"
)

// Rendered is a segment plus its HTML. Widgets other than callouts and raw
// blocks have no HTML; the client renders them from Args.
type Rendered struct {
	mdx.Segment
	HTML string `json:"html,omitempty"`
}

// Renderer converts Markdown prose to HTML. It is safe for concurrent use.
type Renderer struct {
	md     goldmark.Markdown
	anchor content.AnchorFunc
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithAnchors sets the heading id derivation. It should match the one used
// to extract page headings.
func WithAnchors(fn content.AnchorFunc) Option {
	return func(r *Renderer) {
		if fn != nil {
			r.anchor = fn
		}
	}
}

// New creates a Renderer with GFM enabled and raw HTML passed through.
func New(opts ...Option) *Renderer {
	r := &Renderer{anchor: content.AnchorID}
	for _, opt := range opts {
		opt(r)
	}
	r.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
			parser.WithASTTransformers(util.Prioritized(docsLinks{}, 100)),
		),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	return r
}

// Anchors returns the heading id derivation in use.
func (r *Renderer) Anchors() content.AnchorFunc {
	return r.anchor
}

// ProseHTML renders one Markdown fragment. Level 2-4 headings get the same
// anchor ids content.ExtractHeadingsWith reports for r.Anchors().
func (r *Renderer) ProseHTML(src string) (string, error) {
	var buf bytes.Buffer
	ctx := parser.NewContext(parser.WithIDs(anchorIDs{fn: r.anchor}))
	if err := r.md.Convert([]byte(src), &buf, parser.WithContext(ctx)); err != nil {
		return "", fmt.Errorf("render: markdown: %w", err)
	}
	return buf.String(), nil
}

// Segments renders prose, callout content and raw blocks to HTML.
func (r *Renderer) Segments(segs []mdx.Segment) ([]Rendered, error) {
	out := make([]Rendered, 0, len(segs))
	for _, s := range segs {
		item := Rendered{Segment: s}
		var err error
		switch {
		case !s.IsWidget():
			item.HTML, err = r.ProseHTML(s.Text)
		case s.Kind == mdx.KindCallout:
			item.HTML, err = r.ProseHTML(argString(s.Args, "content"))
		case s.Kind == mdx.KindRawHTML:
			item.HTML, err = RawHTML(argString(s.Args, "html"))
		}
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

// RawHTML re-serialises a raw block through the HTML parser. className
// attributes become class, docs links lose their version prefix, and
// script elements and on* handler attributes are dropped.
func RawHTML(fragment string) (string, error) {
	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", fmt.Errorf("render: parse raw block: %w", err)
	}
	var b strings.Builder
	for _, n := range nodes {
		if isScript(n) {
			continue
		}
		cleanNode(n)
		if err := html.Render(&b, n); err != nil {
			return "", fmt.Errorf("render: raw block: %w", err)
		}
	}
	return b.String(), nil
}

func isScript(n *html.Node) bool {
	return n.Type == html.ElementNode && n.DataAtom == atom.Script
}

func cleanNode(n *html.Node) {
	if n.Type == html.ElementNode {
		attrs := n.Attr[:0]
		for _, a := range n.Attr {
			switch {
			case strings.HasPrefix(a.Key, "on"):
				continue
			case a.Key == "classname":
				a.Key = "class"
			case a.Key == "href":
				a.Val = mdx.NormalizeDocsHref(a.Val)
			}
			attrs = append(attrs, a)
		}
		n.Attr = attrs
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if isScript(c) {
			n.RemoveChild(c)
		} else {
			cleanNode(c)
		}
		c = next
	}
}

// anchorIDs generates heading ids with fn. Duplicates are not suffixed.
type anchorIDs struct {
	fn content.AnchorFunc
}

func (a anchorIDs) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(a.fn(strings.TrimSpace(string(value))))
}

func (anchorIDs) Put([]byte) {}

// docsLinks strips version prefixes from link destinations.
type docsLinks struct{}

func (docsLinks) Transform(doc *ast.Document, _ text.Reader, _ parser.Context) {
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if link, ok := n.(*ast.Link); ok {
			link.Destination = []byte(mdx.NormalizeDocsHref(string(link.Destination)))
		}
		return ast.WalkContinue, nil
	})
}
