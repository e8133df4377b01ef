// Package tex2html converts large LaTeX documents to HTML by splitting them
// into independently convertible chunks, converting each through an injected
// backend, and recombining the outputs into one coherent document.
//
// # Quick Start
//
// Create a Service with a converter backend and process a document:
//
//	svc := tex2html.New(tex2html.WithConverter(backend))
//	defer svc.Close()
//
//	result := svc.ProcessDocument(ctx, tex2html.Input{
//	    LaTeX: source,
//	    Args:  "--number-sections --mathjax",
//	})
//	if !result.Success {
//	    log.Fatal(result.Err)
//	}
//	os.WriteFile("output.html", []byte(result.Output), 0644)
//
// # Conversion Pipeline
//
// A document-processing run follows these stages:
//
//  1. Math expression extraction into a per-run Registry
//  2. Splitting by section, then subsection, then fixed-size slices
//  3. Wrapping each chunk in a minimal document with balanced environments
//  4. Per-chunk conversion with a bounded timeout (sequential, throttled)
//  5. Combination: structure-preserving concatenation, section renumbering,
//     anchor deduplication, cross-reference repair
//
// A chunk that times out or fails becomes an inline error placeholder; the
// rest of the document still converts. Only a missing converter or empty
// input yields no output at all.
//
// # Configuration
//
// Use functional options to customize a Service:
//
//	svc := tex2html.New(
//	    tex2html.WithConverter(backend),
//	    tex2html.WithChunkTimeout(10*time.Second),
//	    tex2html.WithMaxChunkSize(5000),
//	    tex2html.WithDocumentTitle("User Manual"),
//	)
//
// # Batch Processing
//
// For many documents, ServicePool manages converter backends:
//
//	pool := tex2html.NewServicePool(4, func() *tex2html.Service {
//	    return tex2html.New(tex2html.WithConverter(backend))
//	})
//	defer pool.Close()
//
//	svc := pool.Acquire()
//	defer pool.Release(svc)
//
// Chunks within one document always run sequentially; the pool parallelizes
// across documents so the expression registry stays single-writer.
//
// # Exports
//
// MarkdownConverter handles the exporter's .md inputs via goldmark, and
// Service.ExportPDF renders combined HTML to PDF through headless Chrome
// (go-rod downloads a managed Chromium on first use; set ROD_BROWSER_BIN to
// a preinstalled browser in containers).
package tex2html
