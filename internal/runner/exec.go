package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sourceplane/foldplan/internal/model"
)

// StderrTailLines bounds how much stderr is kept on a failed outcome
const StderrTailLines = 20

// Result is what an external invocation produced
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs a CommandSpec to completion
type Executor interface {
	Execute(ctx context.Context, spec model.CommandSpec) (Result, error)
}

// ProcessExecutor runs command specs as local processes.
// Output is captured, and also streamed to Stdout/Stderr when they are set.
type ProcessExecutor struct {
	Stdout io.Writer
	Stderr io.Writer
}

func NewProcessExecutor(stdout, stderr io.Writer) *ProcessExecutor {
	return &ProcessExecutor{Stdout: stdout, Stderr: stderr}
}

// Execute launches the command in its working directory. A nonzero exit is
// reported through Result.ExitCode; err is only set when the process could not run.
// Once started, the process runs to completion even if ctx is cancelled.
func (p *ProcessExecutor) Execute(ctx context.Context, spec model.CommandSpec) (Result, error) {
	if spec.Executable == "" {
		return Result{ExitCode: -1}, fmt.Errorf("job %s: no executable configured", spec.JobID)
	}
	if spec.WorkingDir != "" {
		if err := os.MkdirAll(spec.WorkingDir, 0755); err != nil {
			return Result{ExitCode: -1}, fmt.Errorf("failed to create working directory: %w", err)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(context.WithoutCancel(ctx), spec.Executable, spec.Arguments...)
	cmd.Dir = spec.WorkingDir
	cmd.Stdout = tee(&stdout, p.Stdout)
	cmd.Stderr = tee(&stderr, p.Stderr)

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		return res, nil
	}
	res.ExitCode = -1
	return res, fmt.Errorf("job %s: failed to launch %s: %w", spec.JobID, spec.Executable, err)
}

func tee(buf *bytes.Buffer, w io.Writer) io.Writer {
	if w == nil {
		return buf
	}
	return io.MultiWriter(buf, w)
}

// Tail returns the last n lines of s
func Tail(s string, n int) string {
	s = strings.TrimRight(s, "\n")
	if s == "" || n <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
