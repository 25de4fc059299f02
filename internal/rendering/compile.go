package rendering

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// CompilationTimeout is the maximum time to wait for LaTeX compilation
const CompilationTimeout = 30 * time.Second

// tempDirPrefix marks work directories CompileLaTeX created itself.
const tempDirPrefix = "latex-compile-"

// CompileLaTeX compiles texPath with pdflatex inside workDir (a new temporary
// directory when empty) and returns the PDF path and the compiler log.
func CompileLaTeX(ctx context.Context, texPath, workDir string) (pdfPath string, logOutput string, err error) {
	if _, err := exec.LookPath("pdflatex"); err != nil {
		return "", "", &RenderingError{
			Stage:   StageCompile,
			Message: "pdflatex not found in PATH, install a LaTeX distribution (e.g., TeX Live, MiKTeX)",
			Cause:   err,
		}
	}

	if workDir == "" {
		workDir, err = os.MkdirTemp("", tempDirPrefix+"*")
	} else {
		err = os.MkdirAll(workDir, 0755)
	}
	if err != nil {
		return "", "", &RenderingError{Stage: StageCompile, Message: "failed to prepare working directory", Cause: err}
	}

	texBaseName := filepath.Base(texPath)
	workTexPath := filepath.Join(workDir, texBaseName)
	if filepath.Clean(texPath) != workTexPath {
		texContent, err := os.ReadFile(texPath)
		if err != nil {
			return "", "", &RenderingError{Stage: StageCompile, Message: fmt.Sprintf("failed to read LaTeX file: %s", texPath), Cause: err}
		}
		if err := os.WriteFile(workTexPath, texContent, 0644); err != nil {
			return "", "", &RenderingError{Stage: StageCompile, Message: "failed to copy LaTeX file to working directory", Cause: err}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, CompilationTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "pdflatex", "-interaction=nonstopmode", "-halt-on-error", "-output-directory", workDir, workTexPath)
	var out strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &out
	runErr := cmd.Run()
	logOutput = out.String()

	pdfPath = filepath.Join(workDir, strings.TrimSuffix(texBaseName, filepath.Ext(texBaseName))+".pdf")
	if _, statErr := os.Stat(pdfPath); statErr != nil {
		return "", logOutput, &RenderingError{
			Stage:     StageCompile,
			Message:   "LaTeX compilation failed: PDF was not generated",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}
	if runErr != nil {
		return pdfPath, logOutput, &RenderingError{
			Stage:     StageCompile,
			Message:   "LaTeX compilation completed with errors (PDF may be incomplete)",
			LogOutput: logOutput,
			Cause:     runErr,
		}
	}

	return pdfPath, logOutput, nil
}

// CleanupCompilationArtifacts removes a temporary work directory, or the
// auxiliary files of texBase inside a caller-owned one.
func CleanupCompilationArtifacts(workDir, texBase string) error {
	if workDir == "" {
		return nil
	}
	if strings.HasPrefix(filepath.Base(workDir), tempDirPrefix) {
		return os.RemoveAll(workDir)
	}

	stem := strings.TrimSuffix(texBase, filepath.Ext(texBase))
	for _, ext := range []string{".aux", ".log", ".out", ".toc"} {
		_ = os.Remove(filepath.Join(workDir, stem+ext))
	}
	return nil
}
