package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFAQPairs(t *testing.T) {
	src := "**Q: First?**\nA: One.\n\n**Q: Second?**\n  A: Two lines\nstill two.\n**Q: Third?**\nA: Three."
	assert.Equal(t, []FAQ{
		{Question: "First?", Answer: "One."},
		{Question: "Second?", Answer: "Two lines\nstill two."},
		{Question: "Third?", Answer: "Three."},
	}, ParseFAQPairs(src))
}

func TestParseFAQPairs_None(t *testing.T) {
	got := ParseFAQPairs("Just a paragraph.\n\n**Bold** text.")
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestFindFAQSection(t *testing.T) {
	src := "# T\n\n## Frequently Asked Questions\n\n**Q: X**\nA: Y\n\n### Sub\n\n## Next"
	sec, ok := findFAQSection(src)
	require.True(t, ok)
	assert.Equal(t, "## Next", src[sec.span.end:])
	assert.Equal(t, "# T\n\n", src[:sec.span.start])
	assert.Equal(t, []FAQ{{Question: "X", Answer: "Y"}}, sec.faqs)
}

func TestFindFAQSection_Absent(t *testing.T) {
	_, ok := findFAQSection("## frequently asked questions\n**Q: a**\nA: b")
	assert.False(t, ok, "heading match is case-sensitive")

	_, ok = findFAQSection("## Frequently Asked Questions\n\nNothing here.")
	assert.False(t, ok, "a section without pairs is not hoisted")
}

func TestFindFAQSection_SkipsFences(t *testing.T) {
	sample := "```md\n## Frequently Asked Questions\n\n**Q: Fake**\nA: No\n```\n\n"
	src := sample + "## Frequently Asked Questions\n\n**Q: X**\nA: Y\n\n```md\n## Not a section\n```\n\n## Next"
	sec, ok := findFAQSection(src)
	require.True(t, ok)
	assert.Equal(t, sample, src[:sec.span.start])
	assert.Equal(t, "## Next", src[sec.span.end:])
	assert.Equal(t, []FAQ{{Question: "X", Answer: "Y"}}, sec.faqs)

	_, ok = findFAQSection(sample)
	assert.False(t, ok)
}
