// Package mdx turns a page body that mixes Markdown prose with embedded
// component markup into an ordered list of typed segments.
package mdx

import (
	"fmt"
	"strings"
)

// Kind names a recognised widget.
type Kind string

const (
	KindCallout           Kind = "callout"
	KindFAQ               Kind = "faq"
	KindSteps             Kind = "steps"
	KindPremiumCalculator Kind = "premium_calculator"
	KindRiskCalculator    Kind = "risk_calculator"
	KindCodeSandbox       Kind = "code_sandbox"
	KindIframe            Kind = "iframe"
	KindThemedImage       Kind = "themed_image"
	KindExternalLinks     Kind = "external_links"
	KindRawHTML           Kind = "raw_html"
	KindContractAddresses Kind = "contract_addresses"
	KindPoolParameters    Kind = "pool_parameters"
)

// Kinds lists every recognised widget kind.
var Kinds = []Kind{
	KindCallout, KindFAQ, KindSteps, KindPremiumCalculator, KindRiskCalculator,
	KindCodeSandbox, KindIframe, KindThemedImage, KindExternalLinks, KindRawHTML,
	KindContractAddresses, KindPoolParameters,
}

// SegmentType distinguishes prose from widgets.
type SegmentType string

const (
	SegmentProse  SegmentType = "prose"
	SegmentWidget SegmentType = "widget"
)

// Segment is one ordered unit of a transformed body. Prose segments carry
// Text; widget segments carry Kind and Args.
type Segment struct {
	Type SegmentType    `json:"type"`
	Text string         `json:"text,omitempty"`
	Kind Kind           `json:"kind,omitempty"`
	Args map[string]any `json:"args,omitempty"`
}

// Prose builds a prose segment.
func Prose(text string) Segment {
	return Segment{Type: SegmentProse, Text: text}
}

// Widget builds a widget segment.
func Widget(kind Kind, args map[string]any) Segment {
	if args == nil {
		args = map[string]any{}
	}
	return Segment{Type: SegmentWidget, Kind: kind, Args: args}
}

// IsWidget reports whether s is a widget segment.
func (s Segment) IsWidget() bool { return s.Type == SegmentWidget }

// Failure records one marker that could not be fully extracted. The
// marker was either emitted with an empty payload or left as prose.
type Failure struct {
	Kind    Kind   `json:"kind"`
	Ordinal int    `json:"ordinal"`
	Offset  int    `json:"offset"`
	Err     error  `json:"-"`
	Message string `json:"error"`
}

func (f Failure) Error() string {
	return fmt.Sprintf("mdx: %s marker #%d at offset %d: %v", f.Kind, f.Ordinal, f.Offset, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the output of a transformation.
type Result struct {
	Segments []Segment `json:"segments"`
	Failures []Failure `json:"failures,omitempty"`
}

// Widgets returns the widget segments in order.
func (r Result) Widgets() []Segment {
	var out []Segment
	for _, s := range r.Segments {
		if s.IsWidget() {
			out = append(out, s)
		}
	}
	return out
}

// ProseText concatenates every prose segment.
func (r Result) ProseText() string {
	var b strings.Builder
	for _, s := range r.Segments {
		if !s.IsWidget() {
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// FAQ is one question/answer pair.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Step is one entry of a step-by-step widget.
type Step struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Tip         string `json:"tip,omitempty"`
}

// Link is one entry of an external-links section.
type Link struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

// LinkSection groups external links under a title.
type LinkSection struct {
	Title string `json:"title"`
	Links []Link `json:"links"`
}
