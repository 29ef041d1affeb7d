package mdx

import (
	"errors"
	"regexp"
	"strings"
)

var (
	errUnterminatedTag = errors.New("unterminated tag")
	errMissingClose    = errors.New("missing closing tag")
	errNotSelfClosing  = errors.New("tag must self-close")
)

// Attr is one attribute of a marker tag. Expr is set when the value was
// written as a {...} expression; Value then holds the trimmed expression
// text without the braces.
type Attr struct {
	Name  string
	Value string
	Expr  bool
}

// Marker is one recognised component occurrence in a body.
type Marker struct {
	Kind  Kind
	Tag   string
	Start int
	End   int
	Attrs []Attr
	// Body is the content between an opening and closing tag.
	Body string
	Raw  string
}

// Attr returns the attribute named name.
func (m Marker) Attr(name string) (Attr, bool) {
	for _, a := range m.Attrs {
		if a.Name == name {
			return a, true
		}
	}
	return Attr{}, false
}

var tagKinds = map[string]Kind{
	"Callout":              KindCallout,
	"FAQAccordion":         KindFAQ,
	"StepByStep":           KindSteps,
	"PremiumCalculator":    KindPremiumCalculator,
	"RiskPointsCalculator": KindRiskCalculator,
	"CodeSandboxEmbed":     KindCodeSandbox,
	"ResponsiveIframe":     KindIframe,
	"ThemedImage":          KindThemedImage,
	"ExternalLinks":        KindExternalLinks,
	"ContractAddresses":    KindContractAddresses,
	"PoolParameters":       KindPoolParameters,
}

// pairedTags may wrap content; all other tags must self-close.
var pairedTags = map[string]bool{"Callout": true}

var rawDivOpenRe = regexp.MustCompile(`^<div\s+className="[^"]*"[^>]*>`)

// Rejected is a recognised component tag that could not be tokenized. It
// stays part of the prose.
type Rejected struct {
	Kind   Kind
	Tag    string
	Offset int
	Err    error
}

// Tokenize scans src once and returns every recognised marker in order.
// Fenced code blocks and HTML comments (including placeholders left by an
// earlier pass) are skipped. Tags that do not parse are not returned and
// stay part of the prose.
func Tokenize(src string) []Marker {
	out, _ := Scan(src)
	return out
}

// Scan is Tokenize that also returns the recognised tags that failed to
// parse, in order.
func Scan(src string) (out []Marker, rejected []Rejected) {
	fences := fenceSpans(src)
	fi := 0

	for i := 0; i < len(src); {
		for fi < len(fences) && fences[fi].end <= i {
			fi++
		}
		if fi < len(fences) && fences[fi].contains(i) {
			i = fences[fi].end
			continue
		}
		if src[i] != '<' {
			i++
			continue
		}
		if strings.HasPrefix(src[i:], "<!--") {
			end := strings.Index(src[i+4:], "-->")
			if end < 0 {
				break
			}
			i += 4 + end + 3
			continue
		}
		m, ok, err := readMarker(src, i)
		switch {
		case ok:
			out = append(out, m)
			i = m.End
			continue
		case err != nil:
			rejected = append(rejected, Rejected{Kind: m.Kind, Tag: m.Tag, Offset: i, Err: err})
		}
		i++
	}
	return out, rejected
}

// readMarker reads the tag at start. ok is false for anything that is not a
// recognised tag; err is set when the tag name is recognised but the tag
// itself does not parse, and the returned Marker then carries only its Kind
// and Tag.
func readMarker(src string, start int) (m Marker, ok bool, err error) {
	if (start == 0 || src[start-1] == '\n') && strings.HasPrefix(src[start:], "<div") {
		m, ok = readRawDiv(src, start)
		return m, ok, nil
	}

	nameEnd := start + 1
	for nameEnd < len(src) && isNameByte(src[nameEnd]) {
		nameEnd++
	}
	name := src[start+1 : nameEnd]
	kind, known := tagKinds[name]
	if !known {
		return Marker{}, false, nil
	}
	bad := Marker{Kind: kind, Tag: name}
	if nameEnd >= len(src) {
		return bad, false, errUnterminatedTag
	}
	if c := src[nameEnd]; c != '/' && c != '>' && !isSpace(c) {
		return Marker{}, false, nil
	}

	attrs, tagEnd, selfClosing, ok := readAttrs(src, nameEnd)
	if !ok {
		return bad, false, errUnterminatedTag
	}

	m = Marker{Kind: kind, Tag: name, Start: start, Attrs: attrs}
	switch {
	case selfClosing:
		m.End = tagEnd
	case pairedTags[name]:
		closing := "</" + name + ">"
		idx := strings.Index(src[tagEnd:], closing)
		if idx < 0 {
			return bad, false, errMissingClose
		}
		m.Body = src[tagEnd : tagEnd+idx]
		m.End = tagEnd + idx + len(closing)
	default:
		return bad, false, errNotSelfClosing
	}
	m.Raw = src[m.Start:m.End]
	return m, true, nil
}

// readRawDiv matches a line-start <div className="..."> through the next
// line-start </div>. Nesting is not tracked.
func readRawDiv(src string, start int) (Marker, bool) {
	open := rawDivOpenRe.FindString(src[start:])
	if open == "" {
		return Marker{}, false
	}
	bodyStart := start + len(open)
	idx := strings.Index(src[bodyStart:], "\n</div>")
	if idx < 0 {
		return Marker{}, false
	}
	end := bodyStart + idx + len("\n</div>")
	return Marker{
		Kind:  KindRawHTML,
		Tag:   "div",
		Start: start,
		End:   end,
		Raw:   src[start:end],
	}, true
}

// readAttrs parses attributes from pos up to and including the closing
// "/>" or ">" of a tag.
func readAttrs(src string, pos int) (attrs []Attr, end int, selfClosing bool, ok bool) {
	for {
		for pos < len(src) && isSpace(src[pos]) {
			pos++
		}
		if pos >= len(src) {
			return nil, 0, false, false
		}
		switch {
		case strings.HasPrefix(src[pos:], "/>"):
			return attrs, pos + 2, true, true
		case src[pos] == '>':
			return attrs, pos + 1, false, true
		}

		nameStart := pos
		for pos < len(src) && (isNameByte(src[pos]) || src[pos] == '-') {
			pos++
		}
		if pos == nameStart {
			return nil, 0, false, false
		}
		attr := Attr{Name: src[nameStart:pos]}

		for pos < len(src) && isSpace(src[pos]) {
			pos++
		}
		if pos >= len(src) || src[pos] != '=' {
			attrs = append(attrs, attr)
			continue
		}
		pos++
		for pos < len(src) && isSpace(src[pos]) {
			pos++
		}
		if pos >= len(src) {
			return nil, 0, false, false
		}

		switch c := src[pos]; c {
		case '"', '\'':
			idx := strings.IndexByte(src[pos+1:], c)
			if idx < 0 {
				return nil, 0, false, false
			}
			attr.Value = src[pos+1 : pos+1+idx]
			pos += idx + 2
		case '{':
			closeIdx := MatchBracket(src, pos)
			if closeIdx < 0 {
				return nil, 0, false, false
			}
			attr.Value = strings.TrimSpace(src[pos+1 : closeIdx])
			attr.Expr = true
			pos = closeIdx + 1
		default:
			return nil, 0, false, false
		}
		attrs = append(attrs, attr)
	}
}

func isNameByte(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
