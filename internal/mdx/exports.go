package mdx

import (
	"fmt"
	"regexp"
)

// exportBlock is a top-level `export const NAME = [...]` declaration.
type exportBlock struct {
	name    string
	span    span
	literal string
}

// findExport locates the array declaration bound to name, ignoring
// declarations inside fenced code blocks. The removal span covers the
// declaration and a directly following semicolon.
func findExport(src, name string) (exportBlock, bool) {
	re, err := regexp.Compile(`export const ` + regexp.QuoteMeta(name) + `\s*=\s*\[`)
	if err != nil {
		return exportBlock{}, false
	}
	loc := firstOutside(fenceSpans(src), re.FindAllStringIndex(src, -1), 0)
	if loc == nil {
		return exportBlock{}, false
	}
	open := loc[1] - 1
	closeIdx := MatchBracket(src, open)
	if closeIdx < 0 {
		return exportBlock{}, false
	}
	end := closeIdx + 1
	if end < len(src) && src[end] == ';' {
		end++
	}
	return exportBlock{
		name:    name,
		span:    span{loc[0], end},
		literal: src[open : closeIdx+1],
	}, true
}

// resolveExports parses the link-section arrays referenced by name from
// ExternalLinks markers. Names whose declaration is missing or unparsable
// are reported and left unbound.
func resolveExports(src string, markers []Marker) (map[string][]LinkSection, []exportBlock, map[string]error) {
	bound := map[string][]LinkSection{}
	var blocks []exportBlock
	failed := map[string]error{}

	for _, m := range markers {
		if m.Kind != KindExternalLinks {
			continue
		}
		a, ok := m.Attr("sections")
		if !ok || !a.Expr || !identRe.MatchString(a.Value) {
			continue
		}
		name := a.Value
		if _, done := bound[name]; done {
			continue
		}
		if _, done := failed[name]; done {
			continue
		}

		block, ok := findExport(src, name)
		if !ok {
			failed[name] = fmt.Errorf("export %s: %w", name, errUnresolved)
			continue
		}
		v, err := ParseLiteral(block.literal)
		if err != nil {
			failed[name] = fmt.Errorf("export %s: %w", name, err)
			continue
		}
		sections, err := decodeLinkSections(v)
		if err != nil {
			failed[name] = fmt.Errorf("export %s: %w", name, err)
			continue
		}
		bound[name] = sections
		blocks = append(blocks, block)
	}
	return bound, blocks, failed
}
