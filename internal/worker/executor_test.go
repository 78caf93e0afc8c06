package worker

import (
	"context"
	"strings"
	"testing"

	"github.com/sharma-sourabh3435/queuectl/pkg/utils"
)

func testExecutor() *Executor {
	return NewExecutor(utils.NewLogger("test", utils.ERROR))
}

func TestExecuteSuccess(t *testing.T) {
	result, err := testExecutor().Execute(context.Background(), "echo hi")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ExitCode != 0 {
		t.Errorf("Expected exit 0, got %d", result.ExitCode)
	}
	if strings.TrimSpace(result.Stdout) != "hi" {
		t.Errorf("Expected stdout 'hi', got %q", result.Stdout)
	}
}

func TestExecuteNonZeroExitIsNotAnError(t *testing.T) {
	result, err := testExecutor().Execute(context.Background(), "exit 3")
	if err != nil {
		t.Fatalf("Non-zero exit should not be an error: %v", err)
	}
	if result.ExitCode != 3 {
		t.Errorf("Expected exit 3, got %d", result.ExitCode)
	}
}

func TestExecuteCapturesStderr(t *testing.T) {
	result, err := testExecutor().Execute(context.Background(), "echo oops >&2; exit 1")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.ExitCode != 1 {
		t.Errorf("Expected exit 1, got %d", result.ExitCode)
	}
	if !strings.Contains(result.Stderr, "oops") {
		t.Errorf("Expected stderr to contain 'oops', got %q", result.Stderr)
	}
}

func TestExecutePipeline(t *testing.T) {
	result, err := testExecutor().Execute(context.Background(), "echo hello | tr a-z A-Z")
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "HELLO" {
		t.Errorf("Expected pipeline output HELLO, got %q", result.Stdout)
	}
}

func TestExecuteMissingCommand(t *testing.T) {
	result, err := testExecutor().Execute(context.Background(), "thiscommanddoesnotexist")
	if err != nil {
		t.Fatalf("Shell-level command-not-found is a normal failure: %v", err)
	}
	if result.ExitCode == 0 {
		t.Error("Expected non-zero exit for missing command")
	}
	if result.ErrorSummary() == "" {
		t.Error("Expected a non-empty error summary")
	}
}

func TestErrorSummary(t *testing.T) {
	withStderr := ExecutionResult{Stderr: "  boom  \n", ExitCode: 1}
	if got := withStderr.ErrorSummary(); got != "boom" {
		t.Errorf("Expected trimmed stderr, got %q", got)
	}

	withoutStderr := ExecutionResult{ExitCode: 7}
	if got := withoutStderr.ErrorSummary(); got != "exit status 7" {
		t.Errorf("Expected exit status fallback, got %q", got)
	}

	long := ExecutionResult{Stderr: strings.Repeat("x", 2*maxErrorLen), ExitCode: 1}
	if got := long.ErrorSummary(); len(got) != maxErrorLen {
		t.Errorf("Expected summary truncated to %d, got %d", maxErrorLen, len(got))
	}
}
