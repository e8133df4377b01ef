package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/automaxprocs/maxprocs"

	"tex2html"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	fl, inputs, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// Configure GOMAXPROCS with conditional logging.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues.
	if fl.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	cfg := tex2html.DefaultConfig()
	if fl.config != "" {
		cfg, err = tex2html.LoadConfig(fl.config)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	poolSize := tex2html.ResolvePoolSize(fl.workers)
	if fl.verbose {
		fmt.Fprintf(os.Stderr, "tex2html %s, pool size %d\n", Version, poolSize)
	}

	pool := tex2html.NewServicePool(poolSize, serviceFactory(fl, cfg))
	defer pool.Close()

	if err := run(inputs, fl, cfg, pool); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// serviceFactory builds the per-worker Service constructor from flags and
// config, with CLI flags taking precedence.
func serviceFactory(fl *cliFlags, cfg *tex2html.Config) func() *tex2html.Service {
	command := cfg.Converter.Command
	if fl.converter != "" {
		command = fl.converter
	}

	opts := cfg.ServiceOptions()
	opts = append(opts, tex2html.WithConverter(NewPandocConverter(command)))
	if fl.chunkSize > 0 {
		opts = append(opts, tex2html.WithMaxChunkSize(fl.chunkSize))
	}
	if fl.timeout > 0 {
		opts = append(opts, tex2html.WithChunkTimeout(fl.timeout))
	}
	if fl.delay >= 0 {
		opts = append(opts, tex2html.WithChunkDelay(fl.delay))
	}
	if fl.title != "" {
		opts = append(opts, tex2html.WithDocumentTitle(fl.title))
	}

	return func() *tex2html.Service {
		// The pool may call the factory from several goroutines; each call
		// gets its own copy so appends never share a backing array.
		perService := append([]tex2html.Option(nil), opts...)
		if !fl.quiet {
			perService = append(perService, tex2html.WithProgress(&stderrProgress{
				prefix: filepath.Base(os.Args[0]),
			}))
		}
		return tex2html.New(perService...)
	}
}
