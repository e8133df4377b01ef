package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"tex2html"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInputs         = errors.New("usage: tex2html [flags] <input.tex|input.md> ...")
	ErrInvalidExtension = errors.New("file must have a .tex, .latex, .md or .markdown extension")
)

// stderrProgress prints progress updates, teeing the library's reporter to
// the terminal.
type stderrProgress struct {
	prefix string
}

func (p *stderrProgress) SetLoading(message string, percent int) {
	fmt.Fprintf(os.Stderr, "[%s] %3d%% %s\n", p.prefix, percent, message)
}

// run converts every input path, distributing documents across the pool.
func run(inputs []string, fl *cliFlags, cfg *tex2html.Config, pool *tex2html.ServicePool) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}

	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for _, path := range inputs {
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			if err := convertFile(path, fl, cfg, pool); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", path, err))
				mu.Unlock()
			}
		}(path)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// convertFile converts one document and writes the HTML (and optional PDF)
// next to the source or into the configured output directory.
func convertFile(path string, fl *cliFlags, cfg *tex2html.Config, pool *tex2html.ServicePool) error {
	data, err := os.ReadFile(path) // #nosec G304 -- input path is user-provided
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	svc := pool.Acquire()
	defer pool.Release(svc)

	ctx := context.Background()

	var htmlContent string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tex", ".latex":
		result := svc.ProcessDocument(ctx, tex2html.Input{
			LaTeX: string(data),
			Args:  converterArgs(fl, cfg),
		})
		if !result.Success {
			return result.Err
		}
		if fl.verbose {
			fmt.Fprintf(os.Stderr, "%s: %d chunks, %d succeeded, %d failed\n",
				path, result.ChunksProcessed, result.ChunksSucceeded, result.ChunksFailed)
		}
		htmlContent = result.Output

	case ".md", ".markdown":
		htmlContent, err = NewMarkdownPath().ToHTML(ctx, string(data))
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: got %q", ErrInvalidExtension, filepath.Ext(path))
	}

	outPath := outputPath(path, fl, cfg, ".html")
	if err := os.WriteFile(outPath, []byte(htmlContent), 0o600); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if !fl.quiet {
		fmt.Printf("Created %s\n", outPath)
	}

	if fl.pdf || cfg.Output.PDF {
		pdfBytes, err := svc.ExportPDF(ctx, htmlContent)
		if err != nil {
			return fmt.Errorf("exporting PDF: %w", err)
		}
		pdfPath := outputPath(path, fl, cfg, ".pdf")
		if err := os.WriteFile(pdfPath, pdfBytes, 0o600); err != nil {
			return fmt.Errorf("writing PDF: %w", err)
		}
		if !fl.quiet {
			fmt.Printf("Created %s\n", pdfPath)
		}
	}
	return nil
}

// markdownPath is shared across goroutines; goldmark converters are safe for
// concurrent use.
var (
	markdownOnce sync.Once
	markdownConv *tex2html.MarkdownConverter
)

// NewMarkdownPath returns the process-wide markdown converter.
func NewMarkdownPath() *tex2html.MarkdownConverter {
	markdownOnce.Do(func() {
		markdownConv = tex2html.NewMarkdownConverter()
	})
	return markdownConv
}

// converterArgs resolves converter flags: CLI over config file.
func converterArgs(fl *cliFlags, cfg *tex2html.Config) string {
	if fl.args != "" {
		return fl.args
	}
	return cfg.Converter.Args
}

// outputPath derives the destination path for an input file.
func outputPath(input string, fl *cliFlags, cfg *tex2html.Config, ext string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ext
	dir := filepath.Dir(input)
	switch {
	case fl.outputDir != "":
		dir = fl.outputDir
	case cfg.Output.DefaultDir != "":
		dir = cfg.Output.DefaultDir
	}
	return filepath.Join(dir, base)
}
