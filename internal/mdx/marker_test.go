package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_Attributes(t *testing.T) {
	src := `intro <ThemedImage lightSrc="/l.png" darkSrc='/d.png' alt="Alt" className="w-full" /> outro`
	ms := Tokenize(src)
	require.Len(t, ms, 1)
	m := ms[0]
	assert.Equal(t, KindThemedImage, m.Kind)
	assert.Equal(t, "ThemedImage", m.Tag)
	assert.Equal(t, src[m.Start:m.End], m.Raw)
	assert.Equal(t, "intro ", src[:m.Start])
	assert.Equal(t, " outro", src[m.End:])

	a, ok := m.Attr("darkSrc")
	require.True(t, ok)
	assert.Equal(t, "/d.png", a.Value)
	assert.False(t, a.Expr)
}

func TestTokenize_ExpressionAttribute(t *testing.T) {
	src := "<FAQAccordion faqs={[\n  { question: \"a } ]\", answer: 'b' },\n]} />"
	ms := Tokenize(src)
	require.Len(t, ms, 1)
	a, ok := ms[0].Attr("faqs")
	require.True(t, ok)
	assert.True(t, a.Expr)
	assert.Equal(t, "[\n  { question: \"a } ]\", answer: 'b' },\n]", a.Value)
	assert.Equal(t, len(src), ms[0].End)
}

func TestTokenize_PairedCallout(t *testing.T) {
	src := "<Callout type=\"warning\" emoji=\"!\">\nBe **careful**.\n</Callout>"
	ms := Tokenize(src)
	require.Len(t, ms, 1)
	assert.Equal(t, KindCallout, ms[0].Kind)
	assert.Equal(t, "\nBe **careful**.\n", ms[0].Body)
}

func TestTokenize_SkipsUnparsable(t *testing.T) {
	cases := []string{
		"<Callout type=\"info\">never closed",
		"<FAQAccordion faqs={[1, 2] />",
		"<StepByStep steps={[]}>",
		"<Unknown thing=\"x\" />",
		"<ThemedImagery />",
		"a < b and <PoolParameters",
	}
	for _, src := range cases {
		assert.Empty(t, Tokenize(src), src)
	}
}

func TestScan_ReportsRejectedTags(t *testing.T) {
	src := "<Callout type=\"info\">never closed\n<PoolParameters />\n<StepByStep steps={[]}>\n<FAQAccordion faqs={[1] />"
	ms, rejected := Scan(src)
	require.Len(t, ms, 1)
	assert.Equal(t, KindPoolParameters, ms[0].Kind)

	require.Len(t, rejected, 3)
	assert.Equal(t, KindCallout, rejected[0].Kind)
	assert.Equal(t, 0, rejected[0].Offset)
	assert.ErrorIs(t, rejected[0].Err, errMissingClose)
	assert.Equal(t, KindSteps, rejected[1].Kind)
	assert.ErrorIs(t, rejected[1].Err, errNotSelfClosing)
	assert.Equal(t, KindFAQ, rejected[2].Kind)
	assert.ErrorIs(t, rejected[2].Err, errUnterminatedTag)
}

func TestScan_IgnoresUnknownTags(t *testing.T) {
	_, rejected := Scan("<Unknown thing=\"x\" /> <ThemedImagery /> a < b")
	assert.Empty(t, rejected)
}

func TestTokenize_SkipsFencesAndComments(t *testing.T) {
	src := "```mdx\n<ContractAddresses />\n```\n<!-- <PoolParameters /> -->\n" +
		Sentinel(KindCallout, 0) + "\n<PoolParameters />\n"
	ms := Tokenize(src)
	require.Len(t, ms, 1)
	assert.Equal(t, KindPoolParameters, ms[0].Kind)
}

func TestTokenize_RawDiv(t *testing.T) {
	src := "text\n<div className=\"grid\">\n  <div className=\"card\">A</div>\n</div>\nafter <div className=\"x\">\n</div>"
	ms := Tokenize(src)
	require.Len(t, ms, 1, "only line-start divs qualify")
	assert.Equal(t, KindRawHTML, ms[0].Kind)
	assert.Equal(t, "<div className=\"grid\">\n  <div className=\"card\">A</div>\n</div>", ms[0].Raw)
}

func TestTokenize_Order(t *testing.T) {
	src := "<PoolParameters />\n<ContractAddresses />\n<RiskPointsCalculator maxBudget={5} />"
	ms := Tokenize(src)
	require.Len(t, ms, 3)
	assert.Equal(t, []Kind{KindPoolParameters, KindContractAddresses, KindRiskCalculator},
		[]Kind{ms[0].Kind, ms[1].Kind, ms[2].Kind})
}
