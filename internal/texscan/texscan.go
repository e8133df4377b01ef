// Package texscan provides position-aware scanning of LaTeX source:
// environment tags, balanced brace arguments, and comment handling.
//
// The scanner returns structured records with byte offsets into the original
// source so callers can remove or rewrite tags without re-scanning. Tags that
// appear after an unescaped % on their line are reported as commented and are
// excluded by the convenience accessors; commented-out tags must never count
// toward begin/end totals.
package texscan

import "strings"

// Tag is a single \begin{name} or \end{name} occurrence.
type Tag struct {
	Name      string
	Begin     bool
	Start     int // byte offset of the backslash
	End       int // byte offset just past the closing brace
	Commented bool
}

// Text returns the literal tag text, e.g. `\begin{align}`.
func (t Tag) Text() string {
	if t.Begin {
		return `\begin{` + t.Name + `}`
	}
	return `\end{` + t.Name + `}`
}

// Tags scans src for environment tags in source order.
// Commented tags are included with Commented set; use ActiveTags to skip them.
func Tags(src string) []Tag {
	var tags []Tag

	lineStart := 0
	for lineStart <= len(src) {
		lineEnd := strings.IndexByte(src[lineStart:], '\n')
		if lineEnd == -1 {
			lineEnd = len(src)
		} else {
			lineEnd += lineStart
		}

		line := src[lineStart:lineEnd]
		commentAt := UnescapedPercent(line)

		for i := 0; i < len(line); {
			idx := strings.IndexByte(line[i:], '\\')
			if idx == -1 {
				break
			}
			pos := i + idx

			var begin bool
			var prefixLen int
			switch {
			case strings.HasPrefix(line[pos:], `\begin{`):
				begin = true
				prefixLen = len(`\begin{`)
			case strings.HasPrefix(line[pos:], `\end{`):
				begin = false
				prefixLen = len(`\end{`)
			default:
				i = pos + 1
				continue
			}

			close := strings.IndexByte(line[pos+prefixLen:], '}')
			if close == -1 {
				i = pos + 1
				continue
			}

			tags = append(tags, Tag{
				Name:      line[pos+prefixLen : pos+prefixLen+close],
				Begin:     begin,
				Start:     lineStart + pos,
				End:       lineStart + pos + prefixLen + close + 1,
				Commented: commentAt != -1 && pos > commentAt,
			})
			i = pos + prefixLen + close + 1
		}

		lineStart = lineEnd + 1
	}

	return tags
}

// ActiveTags returns the tags of src that are not commented out.
func ActiveTags(src string) []Tag {
	all := Tags(src)
	active := all[:0]
	for _, t := range all {
		if !t.Commented {
			active = append(active, t)
		}
	}
	return active
}

// UnescapedPercent returns the offset of the first % in line that is not
// escaped by an odd run of backslashes, or -1 if the line has no comment.
func UnescapedPercent(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != '%' {
			continue
		}
		backslashes := 0
		for j := i - 1; j >= 0 && line[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 0 {
			return i
		}
	}
	return -1
}

// StripComments removes the comment tail of every line of src.
// The % itself and everything after it on the line is dropped.
func StripComments(src string) string {
	lines := strings.Split(src, "\n")
	for i, line := range lines {
		if at := UnescapedPercent(line); at != -1 {
			lines[i] = line[:at]
		}
	}
	return strings.Join(lines, "\n")
}

// BraceArgument reads a balanced {...} group starting at src[from].
// Returns the argument content (without the outer braces) and the offset just
// past the closing brace. ok is false when src[from] is not '{' or the group
// never closes.
func BraceArgument(src string, from int) (arg string, end int, ok bool) {
	if from >= len(src) || src[from] != '{' {
		return "", from, false
	}

	depth := 0
	for i := from; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++ // skip escaped character
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[from+1 : i], i + 1, true
			}
		}
	}
	return "", from, false
}

// CommandSpan locates the next `\name{arg}` occurrence at or after from,
// with a balanced argument. Returns the span [start, end) of the whole
// command including its argument.
func CommandSpan(src, name string, from int) (start, end int, ok bool) {
	marker := `\` + name + `{`
	idx := strings.Index(src[from:], marker)
	if idx == -1 {
		return 0, 0, false
	}
	start = from + idx
	_, end, ok = BraceArgument(src, start+len(marker)-1)
	if !ok {
		return 0, 0, false
	}
	return start, end, true
}

// BraceDelta counts opening minus closing braces in src, ignoring escaped
// braces and comment tails. Zero means the braces are balanced.
func BraceDelta(src string) int {
	delta := 0
	for _, line := range strings.Split(src, "\n") {
		if at := UnescapedPercent(line); at != -1 {
			line = line[:at]
		}
		for i := 0; i < len(line); i++ {
			switch line[i] {
			case '\\':
				i++
			case '{':
				delta++
			case '}':
				delta--
			}
		}
	}
	return delta
}
