package main

import (
	"time"

	flag "github.com/spf13/pflag"
)

// cliFlags holds the parsed command line.
type cliFlags struct {
	config    string
	converter string
	args      string
	outputDir string
	title     string

	workers   int
	chunkSize int
	timeout   time.Duration
	delay     time.Duration

	pdf     bool
	quiet   bool
	verbose bool
}

// parseFlags parses argv into flags and positional input paths.
// Zero values mean "not set": config file values and library defaults apply.
func parseFlags(argv []string) (*cliFlags, []string, error) {
	fs := flag.NewFlagSet("tex2html", flag.ContinueOnError)

	fl := &cliFlags{}
	fs.StringVarP(&fl.config, "config", "c", "", "config name or path (YAML)")
	fs.StringVar(&fl.converter, "converter", "", "converter command (default: pandoc)")
	fs.StringVar(&fl.args, "args", "", `converter flags, e.g. "--number-sections --mathjax"`)
	fs.StringVarP(&fl.outputDir, "output-dir", "o", "", "output directory (default: next to source)")
	fs.StringVar(&fl.title, "title", "", "document title heading, exempt from section numbering")

	fs.IntVarP(&fl.workers, "workers", "w", 0, "parallel documents (0 = auto)")
	fs.IntVar(&fl.chunkSize, "chunk-size", 0, "size-based split threshold in bytes")
	fs.DurationVar(&fl.timeout, "timeout", 0, "per-chunk conversion timeout")
	fs.DurationVar(&fl.delay, "delay", -1, "pause between chunk conversions")

	fs.BoolVar(&fl.pdf, "pdf", false, "also render a PDF next to the HTML")
	fs.BoolVarP(&fl.quiet, "quiet", "q", false, "suppress progress output")
	fs.BoolVarP(&fl.verbose, "verbose", "v", false, "verbose output")

	if err := fs.Parse(argv[1:]); err != nil {
		return nil, nil, err
	}
	return fl, fs.Args(), nil
}
