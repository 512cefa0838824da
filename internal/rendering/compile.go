package rendering

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/jonathan/cv-enhancer/internal/cv"
)

// CompilationTimeout is the maximum time to wait for pdflatex.
const CompilationTimeout = 30 * time.Second

// Compiler runs pdflatex on rendered documents.
type Compiler struct {
	// Binary is the pdflatex executable; empty means "pdflatex" from PATH.
	Binary  string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewCompiler creates a compiler with the default binary and timeout.
func NewCompiler(log *zap.Logger) *Compiler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{Binary: "pdflatex", Timeout: CompilationTimeout, Logger: log}
}

// Compile turns a LaTeX document into PDF bytes. Compilation happens in a temporary directory
// that is removed afterwards. A PDF produced despite LaTeX errors is returned with a nil error
// and the errors are logged.
func (c *Compiler) Compile(ctx context.Context, tex string) ([]byte, error) {
	binary := c.Binary
	if binary == "" {
		binary = "pdflatex"
	}
	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompilerMissing, err)
	}

	workDir, err := os.MkdirTemp("", "cv-export-*")
	if err != nil {
		return nil, &CompileError{Message: "failed to create working directory", Cause: err}
	}
	defer os.RemoveAll(workDir)

	texPath := filepath.Join(workDir, "cv.tex")
	if err := os.WriteFile(texPath, []byte(tex), 0o644); err != nil {
		return nil, &CompileError{Message: "failed to write LaTeX source", Cause: err}
	}

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = CompilationTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "-interaction=nonstopmode",
		"-output-directory", workDir, texPath)
	cmd.Dir = workDir
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output
	runErr := cmd.Run()

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, &CompileError{Message: fmt.Sprintf("timed out after %s", timeout), LogOutput: output.String(), Cause: ctx.Err()}
	}

	data, err := os.ReadFile(filepath.Join(workDir, "cv.pdf"))
	if err != nil || len(data) == 0 {
		return nil, &CompileError{Message: "PDF was not generated", LogOutput: lastLines(output.String(), 40), Cause: runErr}
	}
	if runErr != nil {
		c.logger().Warn("pdflatex reported errors, PDF may be incomplete",
			zap.Error(runErr), zap.String("log", lastLines(output.String(), 20)))
	}
	return data, nil
}

// ExportPDF renders and compiles c.
func (c *Compiler) ExportPDF(ctx context.Context, canonical cv.Canonical, opts Options) ([]byte, *Export, error) {
	export, err := RenderLaTeX(canonical, opts)
	if err != nil {
		return nil, nil, err
	}
	data, err := c.Compile(ctx, export.TeX)
	if err != nil {
		return nil, export, err
	}
	if pages, err := PageCount(data); err == nil {
		c.logger().Debug("cv exported", zap.String("theme", export.Theme),
			zap.String("language", string(export.Language)), zap.Int("pages", pages))
	}
	return data, export, nil
}

func (c *Compiler) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// PageCount returns the number of pages of a PDF document.
func PageCount(data []byte) (int, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to read PDF: %w", err)
	}
	return reader.NumPage(), nil
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
