package tex2html

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Service orchestrates the chunked LaTeX→HTML pipeline: extract expressions,
// split, balance and wrap, convert chunk by chunk, combine. One Service may
// process documents sequentially; use a ServicePool for batch work.
type Service struct {
	cfg       serviceConfig
	converter Converter
	progress  ProgressReporter
	equations EquationCounter

	// inProgress lets downstream collaborators (equation numbering reset)
	// skip redundant work while chunked processing is active. Always cleared
	// on exit, including error paths.
	inProgress atomic.Bool

	pdfMu sync.Mutex
	pdf   *pdfExporter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g. WithConverter, WithChunkTimeout).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			chunkTimeout: defaultChunkTimeout,
			chunkDelay:   defaultChunkDelay,
			maxChunkSize: defaultMaxChunkSize,
		},
		progress:  noopProgress{},
		equations: noopEquations{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChunkedProcessingActive reports whether a chunked run is in flight.
func (s *Service) ChunkedProcessingActive() bool {
	return s.inProgress.Load()
}

// ProcessDocument runs the full pipeline on one LaTeX document.
//
// Errors are recovered as close to their origin as possible: a chunk that
// times out or fails to convert becomes an inline error placeholder and the
// remaining chunks still run; a combination failure degrades to naive joined
// output. Only a missing converter or empty input yields Success == false
// with no output.
func (s *Service) ProcessDocument(ctx context.Context, input Input) Result {
	if s.converter == nil {
		return Result{Err: ErrNoConverter}
	}
	if strings.TrimSpace(input.LaTeX) == "" {
		return Result{Err: ErrEmptyLaTeX}
	}

	s.inProgress.Store(true)
	defer s.inProgress.Store(false)

	latex := input.LaTeX
	// Skip anchor preprocessing when an upstream preprocessor already ran.
	if !strings.Contains(latex, "[]{#"+anchorIDPrefix) && !strings.Contains(latex, `\hypertarget{`) {
		latex = injectAnchors(latex)
	}

	s.equations.ResetCounter()
	s.equations.RegisterSourceEnvironments(latex)

	registry := NewRegistry(Extract(latex))

	chunks := split(latex, s.cfg.maxChunkSize)
	for _, c := range chunks {
		c.StartExpr, c.EndExpr = registry.Range(c.Offset, c.Offset+len(c.RawContent))
	}

	processed := make([]*ProcessedChunk, 0, len(chunks))
	failed := 0
	for i, c := range chunks {
		s.progress.SetLoading(
			fmt.Sprintf("Converting %s (%d/%d)", c.Title, i+1, len(chunks)),
			(i*100)/len(chunks),
		)

		pc, err := ProcessChunk(ctx, s.converter, c, input.Args, s.cfg.chunkTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return Result{Err: ctx.Err(), ChunksProcessed: len(processed)}
			}
			// One chunk's failure never aborts the document.
			failed++
			pc = &ProcessedChunk{
				Chunk:       *c,
				Output:      errorPlaceholder(c, err),
				HasError:    true,
				Err:         err,
				ProcessedAt: time.Now(),
			}
		}
		processed = append(processed, pc)

		// Fixed delay between chunks keeps the converter engine from being
		// overwhelmed; a throttle, not a correctness requirement.
		if i < len(chunks)-1 && s.cfg.chunkDelay > 0 {
			select {
			case <-ctx.Done():
				return Result{Err: ctx.Err(), ChunksProcessed: len(processed)}
			case <-time.After(s.cfg.chunkDelay):
			}
		}
	}

	// Clear the flag before final cross-reference repair so numbering
	// collaborators resume normal behavior for the combined document.
	s.inProgress.Store(false)

	s.progress.SetLoading("Combining sections", 95)
	combined, err := combine(processed, input.Args, latex, s.cfg.docTitle)
	if err != nil {
		combined = naiveJoin(processed)
	}
	combined = s.equations.RestoreWrappers(combined)

	s.progress.SetLoading("Done", 100)
	return Result{
		Success:         true,
		Output:          combined,
		ChunksProcessed: len(processed),
		ChunksSucceeded: len(processed) - failed,
		ChunksFailed:    failed,
	}
}

// Close releases resources held by optional exporters.
func (s *Service) Close() error {
	s.pdfMu.Lock()
	defer s.pdfMu.Unlock()
	if s.pdf != nil {
		err := s.pdf.Close()
		s.pdf = nil
		return err
	}
	return nil
}

// ExportPDF renders combined HTML to PDF via headless Chrome. The browser is
// launched lazily on first use and released by Close.
func (s *Service) ExportPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	s.pdfMu.Lock()
	if s.pdf == nil {
		s.pdf = newPDFExporter(defaultPDFTimeout)
	}
	exporter := s.pdf
	s.pdfMu.Unlock()

	return exporter.Render(ctx, htmlContent)
}

// injectAnchors inserts a \hypertarget{name}{} sentinel before every \label
// so cross-reference targets survive chunk-local conversion. Callers check
// for prior preprocessing first; labels are never double-anchored.
func injectAnchors(latex string) string {
	return labelRe.ReplaceAllStringFunc(latex, func(m string) string {
		name := labelRe.FindStringSubmatch(m)[1]
		return `\hypertarget{` + name + `}{}` + m
	})
}

// naiveJoin is the combination fallback: newline-joined chunk outputs with
// placeholders substituted where output is missing.
func naiveJoin(processed []*ProcessedChunk) string {
	parts := make([]string, 0, len(processed))
	for _, pc := range processed {
		out := pc.Output
		if out == "" {
			out = errorPlaceholder(&pc.Chunk, pc.Err)
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, "\n")
}
