package tex2html

import (
	"regexp"
	"sort"
	"strings"

	"tex2html/internal/texscan"
)

// currencyRe matches all-digit inline content like "100" or "1,299.99",
// which is treated as currency rather than math.
var currencyRe = regexp.MustCompile(`^\d+(?:[.,]\d+)*$`)

// Extract scans source for math expressions: display ($$…$$, \[…\]),
// inline ($…$, \(…\)), and math environments (\begin{align}… etc.).
// Expressions are assigned monotonically increasing indexes in discovery
// order with accurate byte positions. Extraction is best-effort: malformed
// input never aborts the scan, unclosed delimiters are skipped.
func Extract(source string) []MathExpression {
	var exprs []MathExpression

	add := func(latex string, typ MathType, pattern string, pos int) {
		exprs = append(exprs, MathExpression{
			LaTeX:    strings.TrimSpace(latex),
			Type:     typ,
			Pattern:  pattern,
			Position: pos,
			Index:    len(exprs),
		})
	}

	i := 0
	for i < len(source) {
		switch source[i] {
		case '%':
			// Comment tail: skip to end of line.
			nl := strings.IndexByte(source[i:], '\n')
			if nl == -1 {
				return exprs
			}
			i += nl + 1

		case '\\':
			rest := source[i:]
			switch {
			case strings.HasPrefix(rest, `\begin{`):
				name, argEnd, ok := texscan.BraceArgument(source, i+len(`\begin`))
				if ok && isMathEnvironment(name) {
					if contentEnd, tagEnd, found := findEnvEnd(source, name, argEnd); found {
						add(source[argEnd:contentEnd], MathEnvironment, name, i)
						i = tagEnd
						continue
					}
				}
				if ok {
					i = argEnd
					continue
				}
				i += len(`\begin{`)

			case strings.HasPrefix(rest, `\[`):
				if end := strings.Index(source[i+2:], `\]`); end != -1 {
					add(source[i+2:i+2+end], MathDisplay, PatternBracket, i)
					i += 2 + end + 2
					continue
				}
				i += 2

			case strings.HasPrefix(rest, `\(`):
				if end := strings.Index(source[i+2:], `\)`); end != -1 {
					add(source[i+2:i+2+end], MathInline, PatternParen, i)
					i += 2 + end + 2
					continue
				}
				i += 2

			default:
				// Skip the escaped character so \$ and \% are not misread.
				i += 2
			}

		case '$':
			if strings.HasPrefix(source[i:], "$$") {
				if end := strings.Index(source[i+2:], "$$"); end != -1 {
					add(source[i+2:i+2+end], MathDisplay, PatternDoubleDollar, i)
					i += 2 + end + 2
					continue
				}
				i += 2
				continue
			}
			if end := findSingleDollar(source, i+1); end != -1 {
				content := source[i+1 : end]
				if !currencyRe.MatchString(strings.TrimSpace(content)) {
					add(content, MathInline, PatternSingleDollar, i)
				}
				i = end + 1
				continue
			}
			i++

		default:
			i++
		}
	}

	return exprs
}

// findEnvEnd locates the matching \end{name} for an environment opened just
// before from, honoring nesting of the same name. Returns the offset of the
// closing tag and the offset just past it.
func findEnvEnd(source, name string, from int) (contentEnd, tagEnd int, ok bool) {
	begin := `\begin{` + name + `}`
	end := `\end{` + name + `}`

	depth := 1
	i := from
	for i < len(source) {
		nextBegin := strings.Index(source[i:], begin)
		nextEnd := strings.Index(source[i:], end)
		if nextEnd == -1 {
			return 0, 0, false
		}
		if nextBegin != -1 && nextBegin < nextEnd {
			depth++
			i += nextBegin + len(begin)
			continue
		}
		depth--
		if depth == 0 {
			return i + nextEnd, i + nextEnd + len(end), true
		}
		i += nextEnd + len(end)
	}
	return 0, 0, false
}

// findSingleDollar finds the closing single $ starting at from.
// Returns -1 when the delimiter never closes or only a $$ follows.
func findSingleDollar(source string, from int) int {
	for i := from; i < len(source); i++ {
		switch source[i] {
		case '\\':
			i++
		case '\n':
			// A blank line ends the candidate: inline math does not span
			// paragraphs.
			if i+1 < len(source) && source[i+1] == '\n' {
				return -1
			}
		case '$':
			if i+1 < len(source) && source[i+1] == '$' {
				return -1
			}
			return i
		}
	}
	return -1
}

// OrderByPosition returns a copy of exprs stably sorted ascending by Position.
func OrderByPosition(exprs []MathExpression) []MathExpression {
	ordered := make([]MathExpression, len(exprs))
	copy(ordered, exprs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}

// FilterByType returns the subset of m whose expressions have the given type.
// Returns an empty map when nothing matches.
func FilterByType(m map[int]MathExpression, typ MathType) map[int]MathExpression {
	out := make(map[int]MathExpression)
	for k, e := range m {
		if e.Type == typ {
			out[k] = e
		}
	}
	return out
}

// FilterByPattern returns the subset of m whose expressions use the given
// delimiter pattern or environment name.
func FilterByPattern(m map[int]MathExpression, pattern string) map[int]MathExpression {
	out := make(map[int]MathExpression)
	for k, e := range m {
		if e.Pattern == pattern {
			out[k] = e
		}
	}
	return out
}

// Registry holds the expressions of one document-processing run: a map keyed
// by discovery index and a position-ordered view consumed by reinjection and
// cross-reference repair. It is populated once before chunk processing begins
// and read-only afterwards; construct a new Registry per document.
type Registry struct {
	byIndex map[int]MathExpression
	ordered []MathExpression
}

// NewRegistry builds a Registry from extracted expressions.
func NewRegistry(exprs []MathExpression) *Registry {
	r := &Registry{
		byIndex: make(map[int]MathExpression, len(exprs)),
		ordered: OrderByPosition(exprs),
	}
	for _, e := range exprs {
		r.byIndex[e.Index] = e
	}
	return r
}

// Len returns the number of registered expressions.
func (r *Registry) Len() int {
	return len(r.ordered)
}

// Expression returns the expression with the given discovery index.
func (r *Registry) Expression(index int) (MathExpression, bool) {
	e, ok := r.byIndex[index]
	return e, ok
}

// ByIndex returns a copy of the index→expression map, safe to filter.
func (r *Registry) ByIndex() map[int]MathExpression {
	out := make(map[int]MathExpression, len(r.byIndex))
	for k, v := range r.byIndex {
		out[k] = v
	}
	return out
}

// LaTeXByPosition returns the raw LaTeX of every expression in position order.
func (r *Registry) LaTeXByPosition() []string {
	out := make([]string, len(r.ordered))
	for i, e := range r.ordered {
		out[i] = e.LaTeX
	}
	return out
}

// Range maps a half-open byte range of the source onto the half-open range of
// position-ordered expression indexes falling inside it.
func (r *Registry) Range(offsetStart, offsetEnd int) (lo, hi int) {
	lo = sort.Search(len(r.ordered), func(i int) bool {
		return r.ordered[i].Position >= offsetStart
	})
	hi = sort.Search(len(r.ordered), func(i int) bool {
		return r.ordered[i].Position >= offsetEnd
	})
	return lo, hi
}
