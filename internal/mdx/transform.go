package mdx

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/starford/folio/internal/metrics"
)

// GlossaryHref is the target of rewritten glossary links.
const GlossaryHref = "/resources/glossary"

const glossaryClass = "text-primary underline decoration-dotted underline-offset-2 hover:decoration-solid"

var (
	componentImportRe = regexp.MustCompile(`(?m)^import\s+\{[^}\n]*\}\s+from\s+['"]@/components/[^'"\n]+['"];?[ \t]*(?:\r?\n)?`)
	glossarySelfRe    = regexp.MustCompile(`<GlossaryLink\s+term="([^"]+)"\s*/>`)
	glossaryPairRe    = regexp.MustCompile(`(?s)<GlossaryLink\s+term="([^"]+)"\s*>(.*?)</GlossaryLink>`)
	sentinelRe        = regexp.MustCompile(`<!-- folio:([a-z_]+):(\d+) -->`)
)

// Sentinel returns the placeholder token for the n-th widget of a body.
func Sentinel(kind Kind, n int) string {
	return "<!-- folio:" + string(kind) + ":" + strconv.Itoa(n) + " -->"
}

// Transformer converts page bodies into segments. It holds no per-call
// state and is safe for concurrent use.
type Transformer struct {
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Option configures a Transformer.
type Option func(*Transformer)

// WithLogger sets the logger used to report marker failures.
func WithLogger(l *slog.Logger) Option {
	return func(t *Transformer) { t.logger = l }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(t *Transformer) { t.recorder = r }
}

// New creates a Transformer.
func New(opts ...Option) *Transformer {
	t := &Transformer{
		logger:   slog.Default(),
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Transform splits body into prose and widget segments.
//
// Component imports are dropped and glossary links are rewritten to
// anchors first. Recognised markers are then replaced by placeholders,
// named link-section exports they reference are removed, and the FAQ
// section (if any) is hoisted into a faq widget. A marker that cannot be
// extracted is reported in Result.Failures and either emitted with an empty
// payload or left as prose; it never affects other segments.
func (t *Transformer) Transform(body string) Result {
	start := time.Now()
	defer func() { t.recorder.ObserveTransformDuration(time.Since(start)) }()

	src := outsideFences(body, func(s string) string {
		s = componentImportRe.ReplaceAllString(s, "")
		return rewriteGlossaryLinks(s)
	})

	st := &state{widgets: map[int]Segment{}, next: nextOrdinal(src)}
	markers, rejected := Scan(src)
	exports, blocks, unresolved := resolveExports(src, markers)

	var edits []edit
	for _, b := range blocks {
		edits = append(edits, edit{span: b.span})
	}

	for i, m := range markers {
		ms := span{m.Start, m.End}
		if overlapsAny(ms, blocks) {
			continue
		}
		args, err := buildArgs(m, exports)
		if m.Kind == KindExternalLinks && err != nil {
			if a, ok := m.Attr("sections"); ok {
				if uerr, ok := unresolved[a.Value]; ok {
					err = uerr
				}
			}
		}
		if err != nil {
			t.fail(&st.failures, m.Kind, i, m.Start, err)
		}
		if args == nil {
			continue
		}
		edits = append(edits, edit{span: ms, text: st.add(Widget(m.Kind, args))})
	}

	for _, r := range rejected {
		if overlapsAny(span{r.Offset, r.Offset + 1}, blocks) {
			continue
		}
		ordinal := sort.Search(len(markers), func(i int) bool { return markers[i].Start > r.Offset })
		t.fail(&st.failures, r.Kind, ordinal, r.Offset, r.Err)
	}
	sort.SliceStable(st.failures, func(i, j int) bool { return st.failures[i].Offset < st.failures[j].Offset })

	src = applyEdits(src, edits)
	src = st.hoistFAQ(src)

	return Result{Segments: st.split(src), Failures: st.failures}
}

// Transform runs a default Transformer.
func Transform(body string) Result {
	return New().Transform(body)
}

func (t *Transformer) fail(dst *[]Failure, kind Kind, ordinal, offset int, err error) {
	f := Failure{Kind: kind, Ordinal: ordinal, Offset: offset, Err: err, Message: err.Error()}
	*dst = append(*dst, f)
	t.recorder.IncMarkerFailure(string(kind))
	t.logger.Warn("mdx: marker degraded",
		slog.String("kind", string(kind)),
		slog.Int("offset", offset),
		slog.String("error", err.Error()),
	)
}

func rewriteGlossaryLinks(s string) string {
	if !strings.Contains(s, "<GlossaryLink") {
		return s
	}
	s = glossarySelfRe.ReplaceAllString(s, glossaryAnchor("$1", "$1"))
	return glossaryPairRe.ReplaceAllString(s, glossaryAnchor("$1", "$2"))
}

func glossaryAnchor(term, text string) string {
	return fmt.Sprintf(`<a href="%s" class="%s" title="See glossary: %s">%s</a>`, GlossaryHref, glossaryClass, term, text)
}

// state accumulates the widgets of one transformation.
type state struct {
	widgets  map[int]Segment
	heading  map[int]bool
	next     int
	failures []Failure
}

// nextOrdinal returns the first ordinal above any placeholder already in
// src, so placeholders written by an earlier pass never bind to widgets of
// this one.
func nextOrdinal(src string) int {
	next := 0
	for _, m := range sentinelRe.FindAllStringSubmatch(src, -1) {
		if n, err := strconv.Atoi(m[2]); err == nil && n >= next {
			next = n + 1
		}
	}
	return next
}

func (st *state) add(seg Segment) string {
	n := st.next
	st.next++
	st.widgets[n] = seg
	return Sentinel(seg.Kind, n)
}

// hoistFAQ replaces the FAQ section with a faq placeholder. Placeholders
// that sat inside the section are kept, directly after it.
func (st *state) hoistFAQ(src string) string {
	sec, ok := findFAQSection(src)
	if !ok {
		return src
	}
	token := st.add(Widget(KindFAQ, map[string]any{"faqs": sec.faqs}))
	if st.heading == nil {
		st.heading = map[int]bool{}
	}
	st.heading[st.next-1] = true

	var b strings.Builder
	b.WriteString(src[:sec.span.start])
	b.WriteString(token)
	for _, inner := range sentinelRe.FindAllString(sec.body, -1) {
		b.WriteString(inner)
	}
	b.WriteString(src[sec.span.end:])
	return b.String()
}

// split cuts src at the placeholders this pass issued. Foreign or stale
// placeholders stay in the prose.
func (st *state) split(src string) []Segment {
	out := []Segment{}
	prev := 0
	for _, loc := range sentinelRe.FindAllStringSubmatchIndex(src, -1) {
		n, err := strconv.Atoi(src[loc[4]:loc[5]])
		if err != nil {
			continue
		}
		seg, ok := st.widgets[n]
		if !ok || string(seg.Kind) != src[loc[2]:loc[3]] {
			continue
		}
		delete(st.widgets, n)
		if prev < loc[0] {
			out = append(out, Prose(src[prev:loc[0]]))
		}
		if st.heading[n] {
			out = append(out, Prose(FAQHeading))
		}
		out = append(out, seg)
		prev = loc[1]
	}
	if prev < len(src) {
		out = append(out, Prose(src[prev:]))
	}
	return out
}

type edit struct {
	span span
	text string
}

func overlapsAny(s span, blocks []exportBlock) bool {
	for _, b := range blocks {
		if s.overlaps(b.span) {
			return true
		}
	}
	return false
}

// applyEdits replaces each edit's span with its text. Edits must not
// overlap.
func applyEdits(src string, edits []edit) string {
	if len(edits) == 0 {
		return src
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].span.start < edits[j].span.start })
	var b strings.Builder
	b.Grow(len(src))
	prev := 0
	for _, e := range edits {
		if e.span.start < prev {
			continue
		}
		b.WriteString(src[prev:e.span.start])
		b.WriteString(e.text)
		prev = e.span.end
	}
	b.WriteString(src[prev:])
	return b.String()
}
