package md2zim

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Converter abstracts Markdown to Zim wiki text conversion to allow
// different backends. The conversion is an opaque blocking call: input file
// in, output file out.
type Converter interface {
	// Check verifies the converter is usable before a run starts.
	Check() error
	// Convert transforms the Markdown file at inputPath into Zim wiki text
	// at outputPath.
	Convert(inputPath, outputPath string) error
}

// CommandRunner abstracts command execution to enable testing without real
// subprocesses.
type CommandRunner interface {
	Run(name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner using os/exec.
type ExecRunner struct{}

func (r *ExecRunner) Run(name string, args ...string) (string, string, error) {
	cmd := exec.Command(name, args...)

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

// PandocConverter converts Markdown to Zim wiki text by invoking the pandoc
// CLI with its zimwiki writer.
type PandocConverter struct {
	Runner CommandRunner
}

// NewPandocConverter creates a PandocConverter with a real command runner.
func NewPandocConverter() *PandocConverter {
	return &PandocConverter{Runner: &ExecRunner{}}
}

// Check verifies that pandoc is available on PATH.
func (c *PandocConverter) Check() error {
	if _, _, err := c.Runner.Run("pandoc", "--version"); err != nil {
		return fmt.Errorf("%w: %v", ErrPandocMissing, err)
	}
	return nil
}

// Convert transforms Markdown at inputPath to Zim wiki text at outputPath.
// Pandoc's stderr is folded into the returned error.
func (c *PandocConverter) Convert(inputPath, outputPath string) error {
	_, stderr, err := c.Runner.Run("pandoc", "-f", "markdown", "-t", "zimwiki", "-o", outputPath, inputPath)
	if err != nil {
		if s := strings.TrimSpace(stderr); s != "" {
			return fmt.Errorf("%w: %s: %v", ErrConversion, s, err)
		}
		return fmt.Errorf("%w: %v", ErrConversion, err)
	}
	return nil
}
