package tex2html

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"tex2html/internal/texscan"
)

// documentRe captures preamble and body of a complete LaTeX document.
var documentRe = regexp.MustCompile(`(?s)\A(.*?)\\begin\{document\}(.*)\\end\{document\}`)

// paragraphBoundaryWindow is how far around the size boundary a size-based
// split may move to land on a paragraph break.
const paragraphBoundaryWindow = 200

// segment is one raw slice of the document body before chunk construction.
type segment struct {
	text   string
	offset int // byte offset within the body
}

// Split divides full LaTeX source into ordered chunks. Strategy selection,
// first successful wins: split on \section, then \subsection, then fixed-size
// slices. Every chunk is wrapped into a self-contained document. Any failure
// degrades to a single fallback chunk holding the entire input.
func Split(full string) []*Chunk {
	return split(full, defaultMaxChunkSize)
}

func split(full string, maxSize int) (chunks []*Chunk) {
	defer func() {
		if recover() != nil {
			chunks = fallbackChunks(full)
		}
	}()

	preamble, body, bodyOffset := splitDocument(full)

	typ := ChunkSection
	segs := splitByMarker(body, `\section{`)
	if len(segs) < 2 {
		typ = ChunkSubsection
		segs = splitByMarker(body, `\subsection{`)
	}
	if len(segs) < 2 {
		typ = ChunkFragment
		segs = splitBySize(body, maxSize)
	}

	marker := `\section{`
	if typ == ChunkSubsection {
		marker = `\subsection{`
	}

	sectionNum := 0
	for _, seg := range segs {
		raw := seg.text
		c := &Chunk{
			Type:       typ,
			RawContent: raw,
			Offset:     bodyOffset + seg.offset,
		}

		switch {
		case typ != ChunkFragment && !strings.HasPrefix(raw, marker):
			// Leading text before the first structural marker becomes an
			// introduction chunk carrying the metadata flag.
			if strings.TrimSpace(raw) == "" {
				continue
			}
			c.Type = ChunkPreamble
			c.Title = "Introduction"
		case typ == ChunkFragment:
			sectionNum++
			c.Title = fmt.Sprintf("Part %d", sectionNum)
		default:
			sectionNum++
			c.Title = sectionTitle(raw, marker, sectionNum)
		}

		c.KeepMetadata = len(chunks) == 0
		c.Content = Wrap(preamble, raw, c.KeepMetadata)
		chunks = append(chunks, c)
	}

	if len(chunks) == 0 {
		return fallbackChunks(full)
	}
	return chunks
}

// splitDocument separates preamble from body. Input without a
// \begin{document}…\end{document} shell is treated entirely as body with a
// synthesized preamble.
func splitDocument(full string) (preamble, body string, bodyOffset int) {
	m := documentRe.FindStringSubmatchIndex(full)
	if m == nil {
		return defaultPreamble, full, 0
	}
	return full[m[2]:m[3]], full[m[4]:m[5]], m[4]
}

// splitByMarker slices body at every occurrence of marker. The text before
// the first marker, if any, is returned as the first segment.
func splitByMarker(body, marker string) []segment {
	var positions []int
	from := 0
	for {
		idx := strings.Index(body[from:], marker)
		if idx == -1 {
			break
		}
		positions = append(positions, from+idx)
		from += idx + len(marker)
	}
	if len(positions) == 0 {
		return []segment{{text: body, offset: 0}}
	}

	var segs []segment
	if positions[0] > 0 {
		segs = append(segs, segment{text: body[:positions[0]], offset: 0})
	}
	for i, pos := range positions {
		end := len(body)
		if i+1 < len(positions) {
			end = positions[i+1]
		}
		segs = append(segs, segment{text: body[pos:end], offset: pos})
	}
	return segs
}

// splitBySize slices body into segments of at most maxSize bytes, preferring
// to break at a paragraph boundary within ±paragraphBoundaryWindow bytes of
// the size boundary.
func splitBySize(body string, maxSize int) []segment {
	if maxSize <= 0 {
		maxSize = defaultMaxChunkSize
	}

	var segs []segment
	start := 0
	for start < len(body) {
		end := start + maxSize
		if end >= len(body) {
			segs = append(segs, segment{text: body[start:], offset: start})
			break
		}

		winStart := end - paragraphBoundaryWindow
		if winStart <= start {
			winStart = start + 1
		}
		winEnd := end + paragraphBoundaryWindow
		if winEnd > len(body) {
			winEnd = len(body)
		}
		if brk := strings.LastIndex(body[winStart:winEnd], "\n\n"); brk != -1 {
			end = winStart + brk + 2 // keep the separator with this segment
		} else {
			// No paragraph break nearby: back up so the cut never bisects a
			// multi-byte rune, which would leave both halves invalid UTF-8.
			for end > start+1 && !utf8.RuneStart(body[end]) {
				end--
			}
		}

		segs = append(segs, segment{text: body[start:end], offset: start})
		start = end
	}
	return segs
}

// sectionTitle extracts the first brace argument of the structural marker
// heading raw, falling back to a synthetic "Section N" title.
func sectionTitle(raw, marker string, n int) string {
	if title, _, ok := texscan.BraceArgument(raw, len(marker)-1); ok {
		title = strings.TrimSpace(title)
		if title != "" {
			return truncateTitle(title)
		}
	}
	return fmt.Sprintf("Section %d", n)
}

// fallbackChunks wraps the entire input as a single fallback chunk.
func fallbackChunks(full string) []*Chunk {
	return []*Chunk{{
		Type:         ChunkFallback,
		Title:        "Document",
		RawContent:   full,
		Content:      Wrap("", full, true),
		Offset:       0,
		KeepMetadata: true,
	}}
}
