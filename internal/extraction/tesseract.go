package extraction

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Runner lets tests stub the external tesseract command.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		slog.Error("exec failed",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"error", err,
			"stderr", truncate(errb.String(), 8<<10),
		)
	} else {
		slog.Debug("exec ok",
			"cmd", name,
			"args", strings.Join(args, " "),
			"duration_ms", dur.Milliseconds(),
			"stdout_bytes", out.Len(),
		)
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}

// Tesseract implements TextExtractor by shelling out to the tesseract binary.
type Tesseract struct {
	binary    string
	languages string
	runner    Runner
}

// NewTesseract creates a tesseract-backed text extractor. binary defaults to
// "tesseract" on PATH; languages defaults to "eng+hrv" since the bills this
// app targets mix Croatian and English.
func NewTesseract(binary, languages string) *Tesseract {
	if binary == "" {
		binary = "tesseract"
	}
	if languages == "" {
		languages = "eng+hrv"
	}
	return &Tesseract{binary: binary, languages: languages, runner: execRunner{}}
}

// NewTesseractWithRunner creates a Tesseract with a custom runner for testing.
func NewTesseractWithRunner(binary, languages string, runner Runner) *Tesseract {
	t := NewTesseract(binary, languages)
	t.runner = runner
	return t
}

// ExtractText writes the image to a temp file and runs
// `tesseract <file> stdout -l <languages>`.
func (t *Tesseract) ExtractText(ctx context.Context, imageData []byte) (string, error) {
	dir, err := os.MkdirTemp("", "bill-ocr-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "input.png")
	if err := os.WriteFile(path, imageData, 0600); err != nil {
		return "", fmt.Errorf("writing temp image: %w", err)
	}

	stdout, _, err := t.runner.Run(ctx, t.binary, path, "stdout", "-l", t.languages)
	if err != nil {
		return "", fmt.Errorf("running tesseract: %w", err)
	}
	return string(stdout), nil
}
