package main

import (
	"sync"
	"testing"

	"tex2html"
)

// The pool invokes the factory outside its lock; concurrent calls must not
// share option slices.
func TestServiceFactory_ConcurrentCalls(t *testing.T) {
	t.Parallel()

	fl := &cliFlags{chunkSize: 4000, title: "User Manual"}
	factory := serviceFactory(fl, tex2html.DefaultConfig())

	var wg sync.WaitGroup
	services := make([]*tex2html.Service, 8)
	for i := range services {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			services[i] = factory()
		}(i)
	}
	wg.Wait()

	for i, svc := range services {
		if svc == nil {
			t.Errorf("factory call %d returned nil", i)
		}
	}
}

func TestServiceFactory_ConverterPrecedence(t *testing.T) {
	t.Parallel()

	cfg := tex2html.DefaultConfig()
	fl := &cliFlags{converter: "pandoc-nightly", quiet: true}

	if svc := serviceFactory(fl, cfg)(); svc == nil {
		t.Fatal("factory returned nil")
	}
	// The config command is untouched; the flag only affects the built service.
	if cfg.Converter.Command != "pandoc" {
		t.Errorf("config mutated: %q", cfg.Converter.Command)
	}
}
