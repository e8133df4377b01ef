package tex2html

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Patterns for cross-reference repair.
var (
	labelRe       = regexp.MustCompile(`\\label\{([^}]+)\}`)
	hypertargetRe = regexp.MustCompile(`\\hypertarget\{([^}]+)\}`)
	excessBlankRe = regexp.MustCompile(`\n{3,}`)
)

// CleanOutput normalizes converter HTML and, when the original LaTeX source
// is supplied, repairs cross-reference links whose anchors ended up in a
// different chunk than the referencing text. Cleaning is never fatal: on any
// parse problem the input is returned with only whitespace normalization.
func CleanOutput(content, originalLatex string) string {
	content = excessBlankRe.ReplaceAllString(content, "\n\n")
	content = strings.TrimSpace(content)

	if originalLatex == "" {
		return content
	}

	labels := sourceLabels(originalLatex)
	if len(labels) == 0 {
		return content
	}

	nodes, err := parseBodyNodes(content)
	if err != nil {
		return content
	}
	container := newElement("div")
	for _, n := range nodes {
		container.AppendChild(n)
	}

	if !repairCrossReferences(container, labels) {
		return content
	}
	out, err := renderChildren(container)
	if err != nil {
		return content
	}
	return out
}

// sourceLabels collects every \label and \hypertarget name in the source.
func sourceLabels(latex string) map[string]bool {
	labels := make(map[string]bool)
	for _, m := range labelRe.FindAllStringSubmatch(latex, -1) {
		labels[m[1]] = true
	}
	for _, m := range hypertargetRe.FindAllStringSubmatch(latex, -1) {
		labels[m[1]] = true
	}
	return labels
}

// repairCrossReferences rewrites <a href="#label"> links to the hypertarget
// anchor id ("#content-label") when the bare label has no element of its own
// in the combined document. Returns whether any link changed.
func repairCrossReferences(container *html.Node, labels map[string]bool) bool {
	ids := make(map[string]bool)
	walk(container, func(n *html.Node) {
		if n.Type == html.ElementNode && hasAttr(n, "id") {
			ids[attr(n, "id")] = true
		}
	})

	changed := false
	walk(container, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "a" {
			return
		}
		href := attr(n, "href")
		if !strings.HasPrefix(href, "#") {
			return
		}
		target := href[1:]
		if !labels[target] || ids[target] {
			return
		}
		if anchored := anchorIDPrefix + target; ids[anchored] {
			setAttr(n, "href", "#"+anchored)
			changed = true
		}
	})
	return changed
}
