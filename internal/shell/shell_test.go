package shell_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/hokuspokus/internal/shell"
)

func TestRunnerRun(testingHandle *testing.T) {
	workingDirectory := testingHandle.TempDir()
	if err := os.WriteFile(filepath.Join(workingDirectory, "marker.txt"), []byte("x"), 0o644); err != nil {
		testingHandle.Fatalf("write marker: %v", err)
	}

	testCases := []struct {
		name           string
		command        string
		expectedStdout string
		expectedStatus uint8
		expectError    bool
	}{
		{name: "echo", command: "echo hello", expectedStdout: "hello\n"},
		{name: "pipeline_of_builtins", command: "x=world; echo \"hello $x\"", expectedStdout: "hello world\n"},
		{name: "runs_in_directory", command: "[ -f marker.txt ] && echo present", expectedStdout: "present\n"},
		{name: "exit_status", command: "exit 3", expectedStatus: 3, expectError: true},
		{name: "parse_error", command: "echo 'unterminated", expectError: true},
	}

	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			var stdout bytes.Buffer
			runner := shell.NewRunner(shell.Options{
				Stdin:     strings.NewReader(""),
				Stdout:    &stdout,
				Stderr:    &bytes.Buffer{},
				Directory: workingDirectory,
			})
			err := runner.Run(context.Background(), testCase.command)
			if testCase.expectError {
				if err == nil {
					testingHandle.Fatalf("expected error")
				}
				if testCase.expectedStatus != 0 {
					var exitError *shell.ExitError
					if !errors.As(err, &exitError) || exitError.Status != testCase.expectedStatus {
						testingHandle.Fatalf("expected exit status %d, got %v", testCase.expectedStatus, err)
					}
				}
				return
			}
			if err != nil {
				testingHandle.Fatalf("Run error: %v", err)
			}
			if stdout.String() != testCase.expectedStdout {
				testingHandle.Fatalf("expected stdout %q, got %q", testCase.expectedStdout, stdout.String())
			}
		})
	}
}
