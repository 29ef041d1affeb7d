package mdx

import "strings"

// MatchBracket returns the index of the bracket that closes the one at
// src[open], or -1 when it is never closed. open must point at '[', '{' or
// '('. Only brackets of that same pair are counted. Characters inside
// single, double or backtick quoted strings are ignored, and a backslash
// inside a string escapes the following character. Line and block comments
// outside strings are skipped; an unclosed block comment yields -1.
func MatchBracket(src string, open int) int {
	if open < 0 || open >= len(src) {
		return -1
	}
	openCh := src[open]
	var closeCh byte
	switch openCh {
	case '[':
		closeCh = ']'
	case '{':
		closeCh = '}'
	case '(':
		closeCh = ')'
	default:
		return -1
	}

	depth := 0
	var quote byte
	escaped := false
	for i := open; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		if c == '/' && i+1 < len(src) {
			switch src[i+1] {
			case '/':
				nl := strings.IndexByte(src[i:], '\n')
				if nl < 0 {
					return -1
				}
				i += nl
				continue
			case '*':
				end := strings.Index(src[i+2:], "*/")
				if end < 0 {
					return -1
				}
				i += 2 + end + 1
				continue
			}
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case openCh:
			depth++
		case closeCh:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

type span struct {
	start, end int
}

func (s span) contains(i int) bool { return i >= s.start && i < s.end }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// firstOutside returns the first of locs (regexp match indexes, in order)
// whose start is outside every span. off is added to each start first.
func firstOutside(spans []span, locs [][]int, off int) []int {
	for _, loc := range locs {
		inside := false
		for _, s := range spans {
			if s.contains(off + loc[0]) {
				inside = true
				break
			}
		}
		if !inside {
			return loc
		}
	}
	return nil
}

// fenceSpans returns the byte ranges of fenced code blocks (``` or ~~~
// opening a line, up to three spaces of indent). An unclosed fence runs to
// the end of src.
func fenceSpans(src string) []span {
	var out []span
	pos := 0
	for pos < len(src) {
		lineEnd := strings.IndexByte(src[pos:], '\n')
		next := len(src)
		if lineEnd >= 0 {
			next = pos + lineEnd + 1
		}
		fence, ok := fenceOpener(src[pos:next])
		if !ok {
			pos = next
			continue
		}

		start := pos
		pos = next
		closed := false
		for pos < len(src) {
			lineEnd = strings.IndexByte(src[pos:], '\n')
			next = len(src)
			if lineEnd >= 0 {
				next = pos + lineEnd + 1
			}
			line := strings.TrimRight(strings.TrimLeft(src[pos:next], " "), " \t\r\n")
			pos = next
			if strings.HasPrefix(line, fence) && strings.Trim(line, fence[:1]) == "" {
				closed = true
				break
			}
		}
		if !closed {
			pos = len(src)
		}
		out = append(out, span{start, pos})
	}
	return out
}

func fenceOpener(line string) (string, bool) {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 || len(trimmed) < 3 {
		return "", false
	}
	ch := trimmed[0]
	if ch != '`' && ch != '~' {
		return "", false
	}
	n := 0
	for n < len(trimmed) && trimmed[n] == ch {
		n++
	}
	if n < 3 {
		return "", false
	}
	return trimmed[:n], true
}

// outsideFences applies fn to every stretch of src that is not inside a
// fenced code block and leaves fenced blocks untouched.
func outsideFences(src string, fn func(string) string) string {
	fences := fenceSpans(src)
	if len(fences) == 0 {
		return fn(src)
	}
	var b strings.Builder
	b.Grow(len(src))
	prev := 0
	for _, f := range fences {
		b.WriteString(fn(src[prev:f.start]))
		b.WriteString(src[f.start:f.end])
		prev = f.end
	}
	b.WriteString(fn(src[prev:]))
	return b.String()
}
