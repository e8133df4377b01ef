package tex2html

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// anchorIDPrefix marks hypertarget anchors emitted for \label/\hypertarget.
const anchorIDPrefix = "content-"

// Combine merges processed chunk outputs into one coherent HTML document:
// structure-preserving concatenation, sequential section renumbering (when
// --number-sections was requested), anchor deduplication, and cross-reference
// repair against the original LaTeX. Chunk order is never changed; text-math
// pairing depends on document order surviving end to end.
//
// Combine is idempotent: re-running it on already-combined output is a no-op.
func Combine(chunks []*ProcessedChunk, args, originalLatex string) (string, error) {
	return combine(chunks, args, originalLatex, "")
}

func combine(chunks []*ProcessedChunk, args, originalLatex, docTitle string) (string, error) {
	container := newElement("div")

	// Each chunk output gets its own wrapper so malformed fragments cannot
	// leak elements into a neighbor while parsing. Wrappers are stripped
	// afterwards, leaving content in source order.
	var wrappers []*html.Node
	for i, pc := range chunks {
		wrapper := newElement("div",
			html.Attribute{Key: "data-chunk-index", Val: strconv.Itoa(i)},
			html.Attribute{Key: "data-expr-range", Val: fmt.Sprintf("%d-%d", pc.StartExpr, pc.EndExpr)},
		)
		nodes, err := parseBodyNodes(pc.Output)
		if err != nil {
			return "", fmt.Errorf("%w: chunk %d: %v", ErrCombineFailed, i, err)
		}
		for _, n := range nodes {
			wrapper.AppendChild(n)
		}
		container.AppendChild(wrapper)
		wrappers = append(wrappers, wrapper)
	}
	for _, w := range wrappers {
		unwrap(w)
	}

	if hasFlag(args, "--number-sections") {
		renumberHeadings(container, docTitle)
	}

	dedupAnchors(container)

	out, err := renderChildren(container)
	if err != nil {
		return "", err
	}
	return CleanOutput(out, originalLatex), nil
}

// hasFlag reports whether the space-separated args contain the exact flag.
func hasFlag(args, flag string) bool {
	for _, f := range strings.Fields(args) {
		if f == flag {
			return true
		}
	}
	return false
}

// renumberHeadings walks h1–h6 in document order maintaining a 6-slot counter:
// a heading increments the counter at its level and zeroes all deeper levels.
// Per-chunk numbering was disabled before conversion, so whatever numbers the
// converter left behind are stripped first.
func renumberHeadings(container *html.Node, docTitle string) {
	var counters [6]int

	headings := findHeadings(container)
	for i, h := range headings {
		level := headingLevel(h.Data)
		// Judge the title heuristic on the unnumbered text so a rerun over
		// already-numbered output reaches the same decision.
		text := stripLeadingNumber(textOf(h))

		// The very first h1 is usually the document title, not a section.
		if i == 0 && level == 1 && isDocumentTitle(text, docTitle) {
			continue
		}

		counters[level-1]++
		for d := level; d < len(counters); d++ {
			counters[d] = 0
		}

		parts := make([]string, level)
		for d := 0; d < level; d++ {
			parts[d] = strconv.Itoa(counters[d])
		}
		number := strings.Join(parts, ".")

		t := firstText(h)
		t.Data = number + " " + stripLeadingNumber(strings.TrimLeft(t.Data, " \t"))
	}
}

// stripLeadingNumber removes a leading "1.2.3 " style numeral from s.
func stripLeadingNumber(s string) string {
	i := 0
	for i < len(s) {
		j := i
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j == i {
			break // no digits: not a number prefix
		}
		if j < len(s) && s[j] == '.' {
			i = j + 1
			continue
		}
		// Digits followed by whitespace end the numeral.
		if j < len(s) && (s[j] == ' ' || s[j] == '\t') {
			for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
				j++
			}
			return s[j:]
		}
		break
	}
	return s
}

// isDocumentTitle guesses whether an h1 is the document title rather than a
// numbered section. An explicitly configured title wins; otherwise long
// headings and title-ish words are assumed to be the document name. The
// heuristic is observed behavior from the original system, kept so output
// matches; callers wanting determinism should configure the title.
func isDocumentTitle(text, docTitle string) bool {
	if docTitle != "" {
		return strings.EqualFold(strings.TrimSpace(text), strings.TrimSpace(docTitle))
	}
	if len(text) > 30 {
		return true
	}
	lower := strings.ToLower(text)
	for _, word := range []string{"test", "document", "manual", "guide"} {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

// dedupAnchors drops duplicate hypertarget anchors. Chunk-local wrapping can
// reintroduce the same \label in several chunks; only the first empty
// <span id="content-…"> per id survives. Structural elements (headings, divs)
// that share an id with a hypertarget span are semantically different and are
// never removed or merged.
func dedupAnchors(container *html.Node) {
	seen := make(map[string]bool)
	var duplicates []*html.Node

	walk(container, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "span" {
			return
		}
		id := attr(n, "id")
		if !strings.HasPrefix(id, anchorIDPrefix) || !isEmptyElement(n) {
			return
		}
		if seen[id] {
			duplicates = append(duplicates, n)
			return
		}
		seen[id] = true
	})

	for _, n := range duplicates {
		n.Parent.RemoveChild(n)
	}
}
