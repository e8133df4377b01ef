package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tex2html"
)

func testPool() *tex2html.ServicePool {
	conv := tex2html.ConverterFunc(func(context.Context, string, string) (string, error) {
		return "<p>converted</p>", nil
	})
	return tex2html.NewServicePool(1, func() *tex2html.Service {
		return tex2html.New(tex2html.WithConverter(conv), tex2html.WithChunkDelay(0))
	})
}

func TestRun_NoInputs(t *testing.T) {
	t.Parallel()

	pool := testPool()
	defer pool.Close()

	if err := run(nil, &cliFlags{quiet: true}, tex2html.DefaultConfig(), pool); !errors.Is(err, ErrNoInputs) {
		t.Errorf("run() error = %v, want ErrNoInputs", err)
	}
}

func TestRun_ConvertsLatexFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "doc.tex")
	latex := `\documentclass{article}
\begin{document}
\section{A} hello
\end{document}`
	if err := os.WriteFile(src, []byte(latex), 0o600); err != nil {
		t.Fatal(err)
	}

	pool := testPool()
	defer pool.Close()

	if err := run([]string{src}, &cliFlags{quiet: true}, tex2html.DefaultConfig(), pool); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "doc.html"))
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(out), "<p>converted</p>") {
		t.Errorf("output = %q", out)
	}
}

func TestRun_ConvertsMarkdownFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(src, []byte("# Notes\n\nsome text"), 0o600); err != nil {
		t.Fatal(err)
	}

	pool := testPool()
	defer pool.Close()

	if err := run([]string{src}, &cliFlags{quiet: true}, tex2html.DefaultConfig(), pool); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out, err := os.ReadFile(filepath.Join(dir, "notes.html"))
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if !strings.Contains(string(out), "<h1") || !strings.Contains(string(out), "Notes") {
		t.Errorf("output = %q", out)
	}
}

func TestRun_RejectsUnknownExtension(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "doc.docx")
	if err := os.WriteFile(src, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	pool := testPool()
	defer pool.Close()

	err := run([]string{src}, &cliFlags{quiet: true}, tex2html.DefaultConfig(), pool)
	if !errors.Is(err, ErrInvalidExtension) {
		t.Errorf("run() error = %v, want ErrInvalidExtension", err)
	}
}

func TestRun_CollectsErrorsAcrossFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.md")
	if err := os.WriteFile(good, []byte("# ok"), 0o600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.md")

	pool := testPool()
	defer pool.Close()

	err := run([]string{good, missing}, &cliFlags{quiet: true}, tex2html.DefaultConfig(), pool)
	if err == nil {
		t.Fatal("run() ignored a missing input")
	}
	if !strings.Contains(err.Error(), "missing.md") {
		t.Errorf("error does not name the failing file: %v", err)
	}
	// The good file still converted.
	if _, statErr := os.Stat(filepath.Join(dir, "good.html")); statErr != nil {
		t.Errorf("good input not converted: %v", statErr)
	}
}

func TestOutputPath(t *testing.T) {
	t.Parallel()

	cfg := tex2html.DefaultConfig()
	tests := []struct {
		name string
		fl   *cliFlags
		cfg  *tex2html.Config
		want string
	}{
		{
			name: "next to source",
			fl:   &cliFlags{},
			cfg:  cfg,
			want: filepath.Join("docs", "paper.html"),
		},
		{
			name: "flag output dir",
			fl:   &cliFlags{outputDir: "build"},
			cfg:  cfg,
			want: filepath.Join("build", "paper.html"),
		},
		{
			name: "config output dir",
			fl:   &cliFlags{},
			cfg:  &tex2html.Config{Output: tex2html.OutputConfig{DefaultDir: "site"}},
			want: filepath.Join("site", "paper.html"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := outputPath(filepath.Join("docs", "paper.tex"), tt.fl, tt.cfg, ".html")
			if got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConverterArgs_Precedence(t *testing.T) {
	t.Parallel()

	cfg := &tex2html.Config{Converter: tex2html.ConverterConfig{Args: "--from-config"}}
	if got := converterArgs(&cliFlags{args: "--from-flag"}, cfg); got != "--from-flag" {
		t.Errorf("converterArgs() = %q, want flag value", got)
	}
	if got := converterArgs(&cliFlags{}, cfg); got != "--from-config" {
		t.Errorf("converterArgs() = %q, want config value", got)
	}
}
