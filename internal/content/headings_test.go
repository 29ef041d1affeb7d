package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/folio/internal/models"
)

func TestExtractHeadings(t *testing.T) {
	body := "# Title\n\n## Getting Started!\ntext\n### Step 1: Install\n#### Deep  Dive\n##### Too deep\n##NoSpace\n## Getting Started!\n"
	got := ExtractHeadings(body)

	require.Equal(t, []models.Heading{
		{ID: "getting-started", Text: "Getting Started!", Level: 2},
		{ID: "step-1-install", Text: "Step 1: Install", Level: 3},
		{ID: "deep-dive", Text: "Deep  Dive", Level: 4},
		{ID: "getting-started", Text: "Getting Started!", Level: 2},
	}, got)
}

func TestExtractHeadings_Empty(t *testing.T) {
	got := ExtractHeadings("plain text only")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestAnchorID(t *testing.T) {
	cases := map[string]string{
		"Hello World":          "hello-world",
		"What's new in v2.0?":  "whats-new-in-v20",
		"snake_case and-dash":  "snake_case-and-dash",
		"Tabs\tand   spaces":   "tabs-and-spaces",
		"(Parenthesised) Note": "parenthesised-note",
		"Café":                 "caf",
		"Introducción rápida":  "introduccin-rpida",
	}
	for in, want := range cases {
		assert.Equal(t, want, AnchorID(in), in)
	}
}

func TestFoldedAnchorID(t *testing.T) {
	cases := map[string]string{
		"Hello World":         "hello-world",
		"Café":                "cafe",
		"Introducción rápida": "introduccion-rapida",
		"Über uns":            "uber-uns",
	}
	for in, want := range cases {
		assert.Equal(t, want, FoldedAnchorID(in), in)
	}
}

func TestExtractHeadingsWith(t *testing.T) {
	body := "## Café\n### Über uns\n"
	assert.Equal(t, []models.Heading{
		{ID: "caf", Text: "Café", Level: 2},
		{ID: "ber-uns", Text: "Über uns", Level: 3},
	}, ExtractHeadings(body))
	assert.Equal(t, []models.Heading{
		{ID: "cafe", Text: "Café", Level: 2},
		{ID: "uber-uns", Text: "Über uns", Level: 3},
	}, ExtractHeadingsWith(body, FoldedAnchorID))
}
