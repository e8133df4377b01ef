package tex2html

import (
	"time"
	"unicode/utf8"
)

// MathType classifies a math expression by its delimiter family.
type MathType string

// Math expression types.
const (
	MathDisplay     MathType = "display"
	MathInline      MathType = "inline"
	MathEnvironment MathType = "environment"
)

// Delimiter pattern constants for non-environment expressions.
const (
	PatternDoubleDollar = "$$"
	PatternSingleDollar = "$"
	PatternBracket      = `\[\]`
	PatternParen        = `\(\)`
)

// MathExpression is one math fragment discovered in the source document.
// Expressions are created once during extraction, before splitting, and are
// read-only afterwards.
type MathExpression struct {
	LaTeX    string   // raw content, trimmed
	Type     MathType // display, inline, or environment
	Pattern  string   // delimiter family or environment name
	Position int      // byte offset in the original source
	Index    int      // discovery order
}

// Validate checks that Type and Pattern are drawn from a consistent mapping:
// display ⇒ {$$, \[\]}, inline ⇒ {$, \(\)}, environment ⇒ a known math
// environment name. A mismatch is a validation failure, not silently accepted.
func (e MathExpression) Validate() error {
	switch e.Type {
	case MathDisplay:
		if e.Pattern == PatternDoubleDollar || e.Pattern == PatternBracket {
			return nil
		}
	case MathInline:
		if e.Pattern == PatternSingleDollar || e.Pattern == PatternParen {
			return nil
		}
	case MathEnvironment:
		if isMathEnvironment(e.Pattern) {
			return nil
		}
	}
	return errTypePatternMismatch(e)
}

// Valid reports whether the expression passes Validate.
func (e MathExpression) Valid() bool {
	return e.Validate() == nil
}

// ChunkType classifies how a chunk was produced.
type ChunkType string

// Chunk types.
const (
	ChunkPreamble   ChunkType = "preamble"
	ChunkSection    ChunkType = "section"
	ChunkSubsection ChunkType = "subsection"
	ChunkFragment   ChunkType = "fragment"
	ChunkFallback   ChunkType = "fallback"
)

// maxTitleLen caps chunk titles for progress display.
const maxTitleLen = 50

// Chunk is one contiguous slice of the source document, independently
// convertible after wrapping. Chunks partition the document body in source
// order with no overlap; only the first chunk keeps title/author/date
// metadata.
type Chunk struct {
	Type       ChunkType
	Title      string // truncated to maxTitleLen
	RawContent string // original LaTeX slice, unwrapped
	Content    string // RawContent wrapped in a minimal document, balanced

	// Offset is the byte position of RawContent in the original source.
	Offset int

	// StartExpr and EndExpr delimit the half-open range of position-ordered
	// expression indexes falling inside this chunk.
	StartExpr int
	EndExpr   int

	// KeepMetadata marks the chunk that retains \title/\author/\date.
	KeepMetadata bool
}

// ProcessedChunk is a Chunk after conversion.
type ProcessedChunk struct {
	Chunk
	Output            string
	HasError          bool
	Err               error
	ProcessedAt       time.Time
	HypertargetLabels []string
}

// Input contains the parameters for one document-processing run.
type Input struct {
	LaTeX string // full LaTeX source (required)
	Args  string // space-separated converter flags, e.g. "--number-sections"
}

// Result is the outcome of ProcessDocument. When Success is false and Output
// is empty, nothing was produced; otherwise Output holds a complete (possibly
// partial, with inline error placeholders) HTML document.
type Result struct {
	Success         bool
	Output          string
	ChunksProcessed int
	ChunksSucceeded int
	ChunksFailed    int
	Err             error
}

// Option configures a Service.
type Option func(*Service)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	chunkTimeout time.Duration
	chunkDelay   time.Duration
	maxChunkSize int
	docTitle     string
}

// Defaults for chunked processing.
const (
	defaultChunkTimeout = 5 * time.Second
	defaultChunkDelay   = 50 * time.Millisecond
	defaultMaxChunkSize = 3000
)

// WithConverter sets the LaTeX→HTML converter backend.
func WithConverter(c Converter) Option {
	return func(s *Service) {
		s.converter = c
	}
}

// WithChunkTimeout sets the per-chunk conversion timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithChunkTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("tex2html: WithChunkTimeout duration must be positive")
	}
	return func(s *Service) {
		s.cfg.chunkTimeout = d
	}
}

// WithChunkDelay sets the pause inserted between chunk conversions.
// The delay throttles the converter engine; zero disables it.
func WithChunkDelay(d time.Duration) Option {
	return func(s *Service) {
		s.cfg.chunkDelay = d
	}
}

// WithMaxChunkSize sets the size-based split threshold in bytes.
// Panics if n <= 0.
func WithMaxChunkSize(n int) Option {
	if n <= 0 {
		panic("tex2html: WithMaxChunkSize must be positive")
	}
	return func(s *Service) {
		s.cfg.maxChunkSize = n
	}
}

// WithDocumentTitle names the document title heading explicitly so the
// combiner does not have to guess which h1 to skip during renumbering.
func WithDocumentTitle(title string) Option {
	return func(s *Service) {
		s.cfg.docTitle = title
	}
}

// WithProgress sets the progress reporter. nil restores the no-op default.
func WithProgress(p ProgressReporter) Option {
	return func(s *Service) {
		if p == nil {
			p = noopProgress{}
		}
		s.progress = p
	}
}

// WithEquationCounter sets the equation numbering collaborator.
// nil restores the no-op default.
func WithEquationCounter(c EquationCounter) Option {
	return func(s *Service) {
		if c == nil {
			c = noopEquations{}
		}
		s.equations = c
	}
}

// truncateTitle shortens a chunk title to at most maxTitleLen bytes, cutting
// on a rune boundary so non-ASCII titles stay valid UTF-8.
func truncateTitle(title string) string {
	if len(title) <= maxTitleLen {
		return title
	}
	cut := maxTitleLen
	for cut > 0 && !utf8.RuneStart(title[cut]) {
		cut--
	}
	return title[:cut]
}
