// Package parser splits content documents into typed frontmatter metadata
// and a Markdown/MDX body.
package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

// Result holds the output of parsing a content document.
type Result struct {
	Metadata models.Metadata
	Body     string
	// HasFrontmatter is false when the document had no leading metadata block.
	HasFrontmatter bool
}

// Parse extracts the frontmatter block and body from raw document bytes.
// A document without frontmatter yields zero metadata and the whole input as
// body. A malformed metadata block yields an error wrapping
// apperr.ErrMalformedMetadata.
func Parse(data []byte) (*Result, error) {
	var env envelope
	body, err := frontmatter.Parse(bytes.NewReader(data), &env)
	if err != nil {
		return nil, fmt.Errorf("parser: %w: %w", apperr.ErrMalformedMetadata, err)
	}

	meta := env.toMetadata()
	if meta.Title == "" {
		meta.Title = firstH1(string(body))
	}

	return &Result{
		Metadata:       meta,
		Body:           string(body),
		HasFrontmatter: len(body) != len(data),
	}, nil
}

// firstH1 returns the text of the first level-1 heading, or "".
func firstH1(body string) string {
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}

// envelope mirrors the recognised frontmatter keys.
type envelope struct {
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Order       *int      `yaml:"order"`
	Sidebar     string    `yaml:"sidebar"`
	Tags        []string  `yaml:"tags"`
	TOC         *bool     `yaml:"toc"`
	Draft       bool      `yaml:"draft"`
	Slug        slugField `yaml:"slug"`
}

func (e envelope) toMetadata() models.Metadata {
	return models.Metadata{
		Title:        e.Title,
		Description:  e.Description,
		Order:        e.Order,
		SidebarTitle: strings.TrimSpace(e.Sidebar),
		Tags:         nonEmpty(e.Tags),
		TOC:          e.TOC,
		Draft:        e.Draft,
		Slug:         []string(e.Slug),
	}
}

// slugField accepts either "a/b" or [a, b] and normalises to trimmed,
// non-empty segments.
type slugField []string

// UnmarshalYAML implements the callback-style unmarshaler understood by both
// yaml.v2 and yaml.v3.
func (s *slugField) UnmarshalYAML(unmarshal func(any) error) error {
	var list []any
	if err := unmarshal(&list); err == nil {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			parts = append(parts, fmt.Sprint(item))
		}
		*s = NormalizeSlug(parts)
		return nil
	}
	var str string
	if err := unmarshal(&str); err != nil {
		return fmt.Errorf("slug must be a string or a list: %w", err)
	}
	*s = NormalizeSlug(strings.Split(str, "/"))
	return nil
}

// NormalizeSlug trims every segment and drops empty ones. It returns nil when
// nothing remains.
func NormalizeSlug(parts []string) []string {
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func nonEmpty(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
