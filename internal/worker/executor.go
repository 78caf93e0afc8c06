package worker

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/sharma-sourabh3435/queuectl/pkg/utils"
)

// maxErrorLen bounds the stderr summary stored with a failed job.
const maxErrorLen = 512

// ExecutionResult holds the result of a job execution
type ExecutionResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Executor runs job commands through the shell. Commands go through
// "sh -c" so user pipelines work; callers control the input.
type Executor struct {
	logger *utils.Logger
}

// NewExecutor creates a new executor instance
func NewExecutor(logger *utils.Logger) *Executor {
	return &Executor{
		logger: logger,
	}
}

// Execute runs a shell command and returns the result. A non-zero exit is
// a normal outcome, not an error; the returned error is non-nil only when
// the command could not be launched at all.
func (e *Executor) Execute(ctx context.Context, command string) (ExecutionResult, error) {
	start := time.Now()

	e.logger.Debug("Executing command: %s", command)

	cmd := exec.CommandContext(ctx, "sh", "-c", command)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	duration := time.Since(start)

	result := ExecutionResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: duration,
	}

	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			return result, fmt.Errorf("failed to launch command: %w", err)
		}
		result.ExitCode = exitErr.ExitCode()
		e.logger.Debug("Command exited with code %d in %v", result.ExitCode, duration)
	} else {
		e.logger.Debug("Command completed successfully in %v", duration)
	}

	return result, nil
}

// ErrorSummary condenses an execution failure into the string recorded as
// the job's last_error.
func (r ExecutionResult) ErrorSummary() string {
	summary := strings.TrimSpace(r.Stderr)
	if summary == "" {
		summary = fmt.Sprintf("exit status %d", r.ExitCode)
	}
	if len(summary) > maxErrorLen {
		summary = summary[:maxErrorLen]
	}
	return summary
}
