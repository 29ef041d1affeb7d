package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/folio/internal/apperr"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: Hello\norder: 3\nsidebar: Hi\ntags:\n  - go\n  - docs\ntoc: false\n---\n# Heading\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := r.Metadata
	if m.Title != "Hello" {
		t.Errorf("title = %q, want %q", m.Title, "Hello")
	}
	if m.EffectiveOrder() != 3 {
		t.Errorf("order = %d, want 3", m.EffectiveOrder())
	}
	if m.NavTitle() != "Hi" {
		t.Errorf("nav title = %q, want Hi", m.NavTitle())
	}
	if !reflect.DeepEqual(m.Tags, []string{"go", "docs"}) {
		t.Errorf("tags = %v, want [go docs]", m.Tags)
	}
	if m.ShowTOC() {
		t.Error("toc: false should disable the table of contents")
	}
	if !r.HasFrontmatter {
		t.Error("expected HasFrontmatter")
	}
	if !strings.Contains(r.Body, "# Heading\nBody text.") || strings.Contains(r.Body, "title:") {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_Defaults(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: Plain\n---\ntext\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	m := r.Metadata
	if m.EffectiveOrder() != 999 {
		t.Errorf("default order = %d, want 999", m.EffectiveOrder())
	}
	if !m.ShowTOC() {
		t.Error("toc should default to true")
	}
	if m.Draft {
		t.Error("draft should default to false")
	}
	if m.Slug != nil {
		t.Errorf("slug = %v, want nil", m.Slug)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	input := []byte("# Just a heading\nSome text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.HasFrontmatter {
		t.Error("expected no frontmatter")
	}
	if r.Metadata.Title != "Just a heading" {
		t.Errorf("title = %q, want %q", r.Metadata.Title, "Just a heading")
	}
}

func TestParse_SlugString(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: T\nslug: \" x / y /\"\n---\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(r.Metadata.Slug, []string{"x", "y"}) {
		t.Errorf("slug = %#v, want [x y]", r.Metadata.Slug)
	}
}

func TestParse_SlugList(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: T\nslug:\n  - x\n  - \"\"\n  - y\n---\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(r.Metadata.Slug, []string{"x", "y"}) {
		t.Errorf("slug = %#v, want [x y]", r.Metadata.Slug)
	}
}

func TestParse_Draft(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: WIP\ndraft: true\n---\nbody\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !r.Metadata.Draft {
		t.Error("expected draft")
	}
}

func TestParse_MalformedMetadata(t *testing.T) {
	cases := []string{
		"---\ntitle: [unclosed\n---\nBody\n",
		"---\ntitle: T\norder: first\n---\nBody\n",
	}
	for _, in := range cases {
		_, err := Parse([]byte(in))
		if !errors.Is(err, apperr.ErrMalformedMetadata) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformedMetadata", in, err)
		}
	}
}

func TestNormalizeSlug(t *testing.T) {
	if got := NormalizeSlug([]string{" ", ""}); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if got := NormalizeSlug([]string{" a", "b "}); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("got %v", got)
	}
}
