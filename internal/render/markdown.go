package render

import (
	"fmt"
	"sort"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/starford/folio/internal/mdx"
)

var calloutLabels = map[string]string{
	"info":    "Note",
	"warning": "Warning",
	"success": "Success",
	"error":   "Error",
}

// Markdown flattens segments into plain Markdown. Widgets become their
// closest Markdown equivalent; interactive widgets become a short note.
func Markdown(segs []mdx.Segment) (string, error) {
	var b strings.Builder
	for _, s := range segs {
		if !s.IsWidget() {
			b.WriteString(s.Text)
			continue
		}
		md, err := widgetMarkdown(s)
		if err != nil {
			return "", fmt.Errorf("render: %s widget: %w", s.Kind, err)
		}
		ensureBlankLine(&b)
		b.WriteString(md)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String()) + "\n", nil
}

func ensureBlankLine(b *strings.Builder) {
	s := b.String()
	switch {
	case s == "" || strings.HasSuffix(s, "\n\n"):
	case strings.HasSuffix(s, "\n"):
		b.WriteString("\n")
	default:
		b.WriteString("\n\n")
	}
}

func widgetMarkdown(s mdx.Segment) (string, error) {
	a := s.Args
	switch s.Kind {
	case mdx.KindCallout:
		label := calloutLabels[argString(a, "type")]
		if label == "" {
			label = calloutLabels["info"]
		}
		if emoji := argString(a, "emoji"); emoji != "" {
			label = emoji + " " + label
		}
		return quote("**" + label + ":** " + argString(a, "content")), nil

	case mdx.KindFAQ:
		faqs, _ := a["faqs"].([]mdx.FAQ)
		parts := make([]string, 0, len(faqs))
		for _, f := range faqs {
			parts = append(parts, fmt.Sprintf("**Q: %s**\nA: %s", f.Question, f.Answer))
		}
		return strings.Join(parts, "\n\n"), nil

	case mdx.KindSteps:
		steps, _ := a["steps"].([]mdx.Step)
		var b strings.Builder
		for i, st := range steps {
			fmt.Fprintf(&b, "%d. **%s**: %s\n", i+1, st.Title, st.Description)
			if st.Tip != "" {
				fmt.Fprintf(&b, "   > Tip: %s\n", st.Tip)
			}
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case mdx.KindExternalLinks:
		sections, _ := a["sections"].([]mdx.LinkSection)
		var b strings.Builder
		for i, sec := range sections {
			if i > 0 {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "### %s\n\n", sec.Title)
			for _, l := range sec.Links {
				fmt.Fprintf(&b, "- [%s](%s)", l.Title, mdx.NormalizeDocsHref(l.URL))
				if l.Description != "" {
					b.WriteString(": " + l.Description)
				}
				b.WriteString("\n")
			}
		}
		return strings.TrimRight(b.String(), "\n"), nil

	case mdx.KindRawHTML:
		cleaned, err := RawHTML(argString(a, "html"))
		if err != nil {
			return "", err
		}
		md, err := htmltomarkdown.ConvertString(cleaned)
		if err != nil {
			return "", fmt.Errorf("html to markdown: %w", err)
		}
		return strings.TrimSpace(md), nil

	case mdx.KindThemedImage:
		return fmt.Sprintf("![%s](%s)", argString(a, "alt"), argString(a, "lightSrc")), nil

	case mdx.KindIframe:
		return fmt.Sprintf("[%s](%s)", argString(a, "title"), argString(a, "src")), nil

	case mdx.KindCodeSandbox:
		title := argString(a, "title")
		if title == "" {
			title = "Open in CodeSandbox"
		}
		return fmt.Sprintf("[%s](%s)", title, argString(a, "url")), nil

	case mdx.KindPremiumCalculator:
		return note("Interactive premium calculator", a), nil
	case mdx.KindRiskCalculator:
		return note("Interactive risk points calculator", a), nil
	case mdx.KindContractAddresses:
		return note("Contract address table", nil), nil
	case mdx.KindPoolParameters:
		return note("Live pool parameter table", nil), nil
	}
	return "", fmt.Errorf("unknown widget kind %q", s.Kind)
}

func quote(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
		} else {
			lines[i] = "> " + l
		}
	}
	return strings.Join(lines, "\n")
}

// note renders "_label (k=v, ...)_" with keys sorted.
func note(label string, args map[string]any) string {
	if len(args) == 0 {
		return "_" + label + "_"
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return "_" + label + " (" + strings.Join(parts, ", ") + ")_"
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
