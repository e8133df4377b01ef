package tex2html

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyLaTeX       = errors.New("latex content cannot be empty")
	ErrNoConverter      = errors.New("no converter function provided")
	ErrChunkTimeout     = errors.New("chunk conversion timed out")
	ErrConversionFailed = errors.New("chunk conversion failed")
	ErrCombineFailed    = errors.New("combining chunk outputs failed")
	ErrHTMLParse        = errors.New("parsing chunk HTML failed")

	// Expression validation errors.
	ErrTypePatternMismatch = errors.New("expression type does not match delimiter pattern")

	// PDF export errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")
	ErrPDFGeneration  = errors.New("PDF generation failed")

	// Markdown export errors.
	ErrMarkdownConversion = errors.New("markdown conversion failed")
)

// errTypePatternMismatch wraps ErrTypePatternMismatch with the offending pair.
func errTypePatternMismatch(e MathExpression) error {
	return fmt.Errorf("%w: type %q, pattern %q (index %d)", ErrTypePatternMismatch, e.Type, e.Pattern, e.Index)
}
