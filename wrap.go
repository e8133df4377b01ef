package tex2html

import (
	"regexp"
	"sort"
	"strings"

	"tex2html/internal/texscan"
)

// mathEnvironments are the environments whose orphaned tags may be removed
// safely: they carry math only, so dropping a stray \begin or \end cannot
// delete prose. Theorem-like environments are deliberately absent.
var mathEnvironments = map[string]bool{
	"equation":    true,
	"align":       true,
	"gather":      true,
	"multline":    true,
	"split":       true,
	"flalign":     true,
	"eqnarray":    true,
	"displaymath": true,
}

// isMathEnvironment reports whether name (or its starred variant) is a math
// environment.
func isMathEnvironment(name string) bool {
	return mathEnvironments[strings.TrimSuffix(name, "*")]
}

// defaultPreamble is synthesized when the source has no usable preamble.
const defaultPreamble = `\documentclass{article}
\usepackage{amsmath}
\usepackage{amssymb}
\usepackage{amsthm}`

// Structure commands stripped from chunk content before wrapping.
var (
	documentClassRe = regexp.MustCompile(`\\documentclass(?:\[[^\]]*\])?\{[^}]*\}`)
	usePackageRe    = regexp.MustCompile(`\\usepackage(?:\[[^\]]*\])?\{[^}]*\}`)
	makeTitleRe     = regexp.MustCompile(`\\maketitle\b`)
)

// Wrap builds a self-contained minimal document around a chunk fragment:
// cleaned preamble, balanced content, \begin{document}…\end{document}.
// Only the first chunk keeps \title/\author/\date metadata; every other
// chunk has it stripped so the converter does not repeat the title block.
func Wrap(preamble, content string, isFirstChunk bool) string {
	// The preamble may still carry the document body; cut at \begin{document}.
	if idx := strings.Index(preamble, `\begin{document}`); idx != -1 {
		preamble = preamble[:idx]
	}

	if !isFirstChunk {
		preamble = stripMetadata(preamble)
		content = stripMetadata(content)
	}

	preamble = strings.TrimSpace(preamble)
	if !strings.Contains(preamble, `\documentclass`) {
		preamble = defaultPreamble + "\n" + preamble
	}
	if !strings.Contains(preamble, "amsmath") {
		preamble += "\n\\usepackage{amsmath}"
	}

	// Structure commands that leaked into the body would nest documents.
	content = documentClassRe.ReplaceAllString(content, "")
	content = usePackageRe.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, `\begin{document}`, "")
	content = strings.ReplaceAll(content, `\end{document}`, "")

	content = BalanceMathEnvironments(content)

	return preamble + "\n\\begin{document}\n" + strings.TrimSpace(content) + "\n\\end{document}"
}

// stripMetadata removes \title{…}, \author{…}, \date{…} (balanced arguments)
// and \maketitle from s.
func stripMetadata(s string) string {
	for _, cmd := range []string{"title", "author", "date"} {
		for {
			start, end, ok := texscan.CommandSpan(s, cmd, 0)
			if !ok {
				break
			}
			s = s[:start] + s[end:]
		}
	}
	return makeTitleRe.ReplaceAllString(s, "")
}

// BalanceMathEnvironments removes orphaned math environment tags left behind
// by splitting. An \end with no preceding unmatched \begin began in an
// earlier chunk; a \begin with no following \end closes in a later chunk.
// Both are removed rather than completed: inserting synthetic empty
// \begin{}\end{} pairs produces invalid empty math, while removal cannot
// corrupt adjacent valid content. Commented-out tags never count.
// Theorem-like environments are left untouched even when unbalanced, because
// their tags delimit prose that must survive.
func BalanceMathEnvironments(content string) string {
	tags := texscan.ActiveTags(content)

	// Orphan spans to delete, collected across every math environment name
	// actually used in the chunk. "document" is never a candidate.
	var orphans []texscan.Tag
	byName := make(map[string][]texscan.Tag)
	for _, t := range tags {
		if t.Name == "document" || !isMathEnvironment(t.Name) {
			continue
		}
		byName[t.Name] = append(byName[t.Name], t)
	}

	for _, seq := range byName {
		var open []texscan.Tag
		for _, t := range seq {
			if t.Begin {
				open = append(open, t)
				continue
			}
			if len(open) > 0 {
				open = open[:len(open)-1]
				continue
			}
			// \end with no unmatched \begin: remnant from a previous chunk.
			orphans = append(orphans, t)
		}
		// Unclosed \begin tags: their \end fell into the next chunk.
		orphans = append(orphans, open...)
	}

	if len(orphans) == 0 {
		return content
	}

	// Remove back to front so earlier offsets stay valid.
	sort.Slice(orphans, func(i, j int) bool { return orphans[i].Start < orphans[j].Start })
	for i := len(orphans) - 1; i >= 0; i-- {
		t := orphans[i]
		content = content[:t.Start] + content[t.End:]
	}
	return content
}
