package mdx

import (
	"regexp"
	"strings"
)

// FAQHeading is the heading whose section is hoisted into a faq widget.
const FAQHeading = "## Frequently Asked Questions"

var (
	faqHeadingRe     = regexp.MustCompile(`(?m)^## Frequently Asked Questions[ \t]*\r?$`)
	faqNextSectionRe = regexp.MustCompile(`\n## [^#]`)
	faqQuestionRe    = regexp.MustCompile(`(?s)\*\*Q: (.+?)\*\*\s*\n\s*A: `)
	faqAnswerEndRe   = regexp.MustCompile(`\n\s*\n|\n\s*\*\*Q:`)
)

// ParseFAQPairs extracts question/answer pairs written as
//
//	**Q: question**
//	A: answer
//
// An answer runs until a blank line, the next question or the end of s.
func ParseFAQPairs(s string) []FAQ {
	out := []FAQ{}
	for pos := 0; pos < len(s); {
		loc := faqQuestionRe.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		question := strings.TrimSpace(s[pos+loc[2] : pos+loc[3]])
		answerStart := pos + loc[1]
		answerEnd := len(s)
		if end := faqAnswerEndRe.FindStringIndex(s[answerStart:]); end != nil {
			answerEnd = answerStart + end[0]
		}
		answer := strings.TrimSpace(s[answerStart:answerEnd])
		if question != "" && answer != "" {
			out = append(out, FAQ{Question: question, Answer: answer})
		}
		pos = answerEnd
	}
	return out
}

// faqSection is the located FAQ heading and the text it owns.
type faqSection struct {
	span span
	// body is the text between the heading line and the next level-2
	// heading.
	body string
	faqs []FAQ
}

// findFAQSection locates the first FAQ heading outside fenced code. The
// section ends before the next level-2 heading outside fenced code or at
// the end of src. ok is false when the heading is absent or the section
// holds no pairs.
func findFAQSection(src string) (faqSection, bool) {
	fences := fenceSpans(src)
	loc := firstOutside(fences, faqHeadingRe.FindAllStringIndex(src, -1), 0)
	if loc == nil {
		return faqSection{}, false
	}
	rest := src[loc[1]:]
	end := len(src)
	if next := firstOutside(fences, faqNextSectionRe.FindAllStringIndex(rest, -1), loc[1]+1); next != nil {
		// Keep the next heading, drop the newline in front of it.
		end = loc[1] + next[0] + 1
	}
	body := src[loc[1]:end]
	faqs := ParseFAQPairs(body)
	if len(faqs) == 0 {
		return faqSection{}, false
	}
	return faqSection{span: span{loc[0], end}, body: body, faqs: faqs}, true
}
