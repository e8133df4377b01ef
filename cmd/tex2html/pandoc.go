package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Sentinel errors for Pandoc conversion failures.
var (
	ErrEmptyContent = errors.New("latex content cannot be empty")
)

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return "", "", fmt.Errorf("creating stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", "", fmt.Errorf("starting command: %w", err)
	}

	stderrContent, err := io.ReadAll(stderrPipe)
	if err != nil {
		return "", "", fmt.Errorf("reading stderr: %w", err)
	}

	err = cmd.Wait()
	return stdout.String(), string(stderrContent), err
}

// PandocConverter is the default converter backend: it invokes the Pandoc
// CLI to turn a standalone LaTeX document into HTML.
type PandocConverter struct {
	Command string
	Runner  CommandRunner
}

// NewPandocConverter creates a PandocConverter with a real command runner.
// command defaults to "pandoc" when empty.
func NewPandocConverter(command string) *PandocConverter {
	if command == "" {
		command = "pandoc"
	}
	return &PandocConverter{Command: command, Runner: &ExecRunner{}}
}

// Convert runs Pandoc on the LaTeX content with the given flags.
func (c *PandocConverter) Convert(ctx context.Context, args, latex string) (string, error) {
	if latex == "" {
		return "", ErrEmptyContent
	}

	tmpPath, cleanup, err := writeTempLaTeX(latex)
	if err != nil {
		return "", err
	}
	defer cleanup()

	cmdArgs := []string{tmpPath, "-f", "latex", "-t", "html5"}
	cmdArgs = append(cmdArgs, strings.Fields(args)...)

	stdout, stderr, err := c.Runner.Run(ctx, c.Command, cmdArgs...)
	if err != nil {
		return "", fmt.Errorf("converting to HTML: %s: %w", stderr, err)
	}
	return stdout, nil
}

// writeTempLaTeX creates a temporary file with LaTeX content.
// Returns the file path and a cleanup function to remove the file.
func writeTempLaTeX(content string) (path string, cleanup func(), err error) {
	tmpFile, err := os.CreateTemp("", "tex2html-*.tex")
	if err != nil {
		return "", nil, fmt.Errorf("creating temp file: %w", err)
	}

	path = tmpFile.Name()
	cleanup = func() { _ = os.Remove(path) }

	if _, err := tmpFile.WriteString(content); err != nil {
		_ = tmpFile.Close()
		cleanup()
		return "", nil, fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("closing temp file: %w", err)
	}

	return path, cleanup, nil
}
