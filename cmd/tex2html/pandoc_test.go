package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

// fakeRunner records the invocation and returns canned results.
type fakeRunner struct {
	name   string
	args   []string
	stdout string
	stderr string
	err    error
}

func (r *fakeRunner) Run(_ context.Context, name string, args ...string) (string, string, error) {
	r.name = name
	r.args = args
	return r.stdout, r.stderr, r.err
}

func TestPandocConverter_Convert(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stdout: "<p>converted</p>"}
	conv := &PandocConverter{Command: "pandoc", Runner: runner}

	out, err := conv.Convert(context.Background(), "--standalone --mathjax", `\documentclass{article}`)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if out != "<p>converted</p>" {
		t.Errorf("Convert() = %q", out)
	}

	if runner.name != "pandoc" {
		t.Errorf("command = %q, want pandoc", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	if !strings.Contains(joined, "-f latex -t html5") {
		t.Errorf("format flags missing: %v", runner.args)
	}
	if !strings.HasSuffix(joined, "--standalone --mathjax") {
		t.Errorf("user flags not appended: %v", runner.args)
	}
	if !strings.HasSuffix(runner.args[0], ".tex") {
		t.Errorf("first argument %q is not the temp .tex file", runner.args[0])
	}
	if _, err := os.Stat(runner.args[0]); !os.IsNotExist(err) {
		t.Errorf("temp file %q not cleaned up", runner.args[0])
	}
}

func TestPandocConverter_EmptyContent(t *testing.T) {
	t.Parallel()

	conv := &PandocConverter{Command: "pandoc", Runner: &fakeRunner{}}
	if _, err := conv.Convert(context.Background(), "", ""); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("Convert() error = %v, want ErrEmptyContent", err)
	}
}

func TestPandocConverter_FailureIncludesStderr(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{stderr: "Error at line 12: unexpected \\end", err: errors.New("exit status 64")}
	conv := &PandocConverter{Command: "pandoc", Runner: runner}

	_, err := conv.Convert(context.Background(), "", "x")
	if err == nil {
		t.Fatal("Convert() succeeded despite runner failure")
	}
	if !strings.Contains(err.Error(), "line 12") {
		t.Errorf("stderr diagnostics lost: %v", err)
	}
	if !strings.Contains(err.Error(), "exit status 64") {
		t.Errorf("underlying error lost: %v", err)
	}
}

func TestNewPandocConverter_DefaultCommand(t *testing.T) {
	t.Parallel()

	if got := NewPandocConverter("").Command; got != "pandoc" {
		t.Errorf("Command = %q, want pandoc", got)
	}
	if got := NewPandocConverter("pandoc-3.2").Command; got != "pandoc-3.2" {
		t.Errorf("Command = %q, want pandoc-3.2", got)
	}
}
