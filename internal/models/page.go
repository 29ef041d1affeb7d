// Package models defines the domain types for folio.
package models

import "strings"

// DefaultOrder is the order assigned to pages that do not declare one.
// It sorts after every explicitly ordered page.
const DefaultOrder = 999

// Metadata is the decoded frontmatter block of a content document.
type Metadata struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Order        *int     `json:"order,omitempty"`
	SidebarTitle string   `json:"sidebar,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	TOC          *bool    `json:"toc,omitempty"`
	Draft        bool     `json:"draft,omitempty"`
	Slug         []string `json:"slug,omitempty"`
}

// EffectiveOrder returns the declared order or DefaultOrder.
func (m Metadata) EffectiveOrder() int {
	if m.Order == nil {
		return DefaultOrder
	}
	return *m.Order
}

// ShowTOC reports whether a table of contents should be shown (default true).
func (m Metadata) ShowTOC() bool {
	return m.TOC == nil || *m.TOC
}

// NavTitle returns the sidebar title, falling back to the page title.
func (m Metadata) NavTitle() string {
	if m.SidebarTitle != "" {
		return m.SidebarTitle
	}
	return m.Title
}

// Page is one parsed content document plus its resolved identity.
type Page struct {
	Slug     []string `json:"slug"`
	Metadata Metadata `json:"metadata"`
	Body     string   `json:"body"`
	Version  string   `json:"version"`
	Locale   string   `json:"locale"`
	// Path is the document path relative to its (version, locale) scope.
	Path string `json:"path"`
}

// SlugKey returns the joined form of the slug used for equality.
func (p *Page) SlugKey() string {
	return JoinSlug(p.Slug)
}

// Href returns the derived page URL.
func (p *Page) Href() string {
	return SlugHref(p.Slug)
}

// JoinSlug joins slug segments with "/".
func JoinSlug(slug []string) string {
	return strings.Join(slug, "/")
}

// SlugHref maps a slug to its URL; the empty slug maps to "/".
func SlugHref(slug []string) string {
	joined := JoinSlug(slug)
	if joined == "" {
		return "/"
	}
	return "/" + joined
}

// NavNode is one entry of the derived sidebar tree.
type NavNode struct {
	Title    string     `json:"title"`
	Href     string     `json:"href"`
	Order    int        `json:"order"`
	Children []*NavNode `json:"children,omitempty"`
}

// Heading is one table-of-contents entry extracted from a page body.
type Heading struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Level int    `json:"level"`
}

// PrevNext holds the neighbours of a page in explicit-order sequence.
// Either side is nil at a boundary.
type PrevNext struct {
	Previous *Page `json:"previous"`
	Next     *Page `json:"next"`
}

// Breadcrumb is one element of the path shown above a page.
type Breadcrumb struct {
	Label string `json:"label"`
	Href  string `json:"href,omitempty"`
}
