package tex2html

import (
	"context"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"
)

// Converter is the injected LaTeX→HTML backend: valid args and LaTeX in,
// HTML string out, may fail. Implementations are treated as opaque; the
// Pandoc CLI backend in cmd/tex2html is the default.
type Converter interface {
	Convert(ctx context.Context, args, latex string) (string, error)
}

// ConverterFunc adapts a plain function to the Converter interface.
type ConverterFunc func(ctx context.Context, args, latex string) (string, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, args, latex string) (string, error) {
	return f(ctx, args, latex)
}

// hypertargetSentinelRe matches the \hypertarget{label}{} sentinels injected
// by anchor preprocessing. The converter is known to fail parsing them in
// nested contexts, so they are stripped before conversion and reinjected as
// HTML anchors afterwards.
var hypertargetSentinelRe = regexp.MustCompile(`\\hypertarget\{([^}]+)\}\{\}`)

// ProcessChunk converts one wrapped chunk with a bounded timeout.
// Per-chunk numbering is disabled (numbering is reapplied globally after
// combination) and hypertarget sentinels are stripped, converted content is
// produced, then one anchor span per stripped label is reinjected unless the
// converter already emitted that id itself.
//
// A timeout or converter failure is returned to the caller; it never aborts
// the remaining chunks.
func ProcessChunk(ctx context.Context, conv Converter, chunk *Chunk, args string, timeout time.Duration) (*ProcessedChunk, error) {
	if conv == nil {
		return nil, ErrNoConverter
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = defaultChunkTimeout
	}

	args = removeFlag(args, "--number-sections")
	content, labels := stripHypertargets(chunk.Content)

	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		html string
		err  error
	}
	done := make(chan result, 1)

	// Race the conversion against the timeout; converters that ignore the
	// context are abandoned when the timer wins.
	go func() {
		out, err := conv.Convert(cctx, args, content)
		done <- result{html: out, err: err}
	}()

	var output string
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(timeout):
		return nil, fmt.Errorf("%w: after %s", ErrChunkTimeout, timeout)
	case r := <-done:
		if r.err != nil {
			if errors.Is(r.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: after %s", ErrChunkTimeout, timeout)
			}
			return nil, fmt.Errorf("%w: %v", ErrConversionFailed, r.err)
		}
		output = r.html
	}

	output = reinjectAnchors(output, labels)
	output = CleanOutput(output, "")

	return &ProcessedChunk{
		Chunk:             *chunk,
		Output:            output,
		HasError:          false,
		ProcessedAt:       time.Now(),
		HypertargetLabels: labels,
	}, nil
}

// removeFlag drops the exact flag from space-separated args.
func removeFlag(args, flag string) string {
	fields := strings.Fields(args)
	kept := fields[:0]
	for _, f := range fields {
		if f != flag {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, " ")
}

// stripHypertargets removes \hypertarget{label}{} sentinels from content and
// returns the stripped labels in source order.
func stripHypertargets(content string) (string, []string) {
	var labels []string
	stripped := hypertargetSentinelRe.ReplaceAllStringFunc(content, func(m string) string {
		sub := hypertargetSentinelRe.FindStringSubmatch(m)
		labels = append(labels, sub[1])
		return ""
	})
	return stripped, labels
}

// reinjectAnchors inserts one anchor span per stripped label, in label source
// order. Injection is skipped when the converter already generated the id
// (from a \label it could parse). Anchors go immediately after the opening
// <body> tag, or at the very start of a fragment with no body tag.
func reinjectAnchors(content string, labels []string) string {
	var anchors strings.Builder
	for _, label := range labels {
		id := anchorIDPrefix + label
		if strings.Contains(content, `id="`+id+`"`) {
			continue
		}
		anchors.WriteString(`<span id="` + id + `" class="cross-ref-anchor"></span>`)
	}
	if anchors.Len() == 0 {
		return content
	}

	lower := strings.ToLower(content)
	if idx := strings.Index(lower, "<body"); idx != -1 {
		if close := strings.IndexByte(content[idx:], '>'); close != -1 {
			at := idx + close + 1
			return content[:at] + anchors.String() + content[at:]
		}
	}
	return anchors.String() + content
}

// errorPlaceholder renders a visible in-document placeholder for a chunk that
// failed to convert, so partial documents remain useful.
func errorPlaceholder(chunk *Chunk, err error) string {
	title := chunk.Title
	if title == "" {
		title = string(chunk.Type)
	}
	return fmt.Sprintf(
		`<div class="error-message"><strong>%s</strong>: %s</div>`,
		html.EscapeString(title),
		html.EscapeString(userFacingMessage(err)),
	)
}

// userFacingMessage maps a conversion failure to advice the author can act
// on. Heuristic by design: the converter's own errors are opaque.
func userFacingMessage(err error) string {
	if err == nil {
		return "conversion failed"
	}
	if errors.Is(err, ErrChunkTimeout) {
		return "this section is too complex to convert; try splitting it up"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "memory") || strings.Contains(msg, "stack"):
		return "conversion ran out of resources; simplify expressions in this section"
	case strings.Contains(msg, "syntax") || strings.Contains(msg, "parse"):
		return "conversion failed; check mathematical expressions in this section"
	default:
		return "conversion failed for this section"
	}
}
