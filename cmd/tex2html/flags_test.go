package main

import (
	"testing"
	"time"
)

func TestParseFlags(t *testing.T) {
	t.Parallel()

	fl, inputs, err := parseFlags([]string{
		"tex2html",
		"--args", "--number-sections --mathjax",
		"-o", "out",
		"--chunk-size", "5000",
		"--timeout", "10s",
		"-w", "4",
		"--pdf",
		"doc1.tex", "doc2.md",
	})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}

	if fl.args != "--number-sections --mathjax" {
		t.Errorf("args = %q", fl.args)
	}
	if fl.outputDir != "out" {
		t.Errorf("outputDir = %q", fl.outputDir)
	}
	if fl.chunkSize != 5000 {
		t.Errorf("chunkSize = %d", fl.chunkSize)
	}
	if fl.timeout != 10*time.Second {
		t.Errorf("timeout = %v", fl.timeout)
	}
	if fl.workers != 4 {
		t.Errorf("workers = %d", fl.workers)
	}
	if !fl.pdf {
		t.Error("pdf flag not set")
	}
	if len(inputs) != 2 || inputs[0] != "doc1.tex" || inputs[1] != "doc2.md" {
		t.Errorf("inputs = %v", inputs)
	}
}

func TestParseFlags_Defaults(t *testing.T) {
	t.Parallel()

	fl, inputs, err := parseFlags([]string{"tex2html", "doc.tex"})
	if err != nil {
		t.Fatalf("parseFlags() error = %v", err)
	}
	if fl.chunkSize != 0 || fl.timeout != 0 {
		t.Errorf("unset numeric flags = %d, %v, want zero values", fl.chunkSize, fl.timeout)
	}
	// -1 distinguishes "unset" from an explicit zero delay.
	if fl.delay != -1 {
		t.Errorf("delay default = %v, want -1", fl.delay)
	}
	if len(inputs) != 1 {
		t.Errorf("inputs = %v", inputs)
	}
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	t.Parallel()

	if _, _, err := parseFlags([]string{"tex2html", "--bogus"}); err == nil {
		t.Error("parseFlags() accepted an unknown flag")
	}
}
