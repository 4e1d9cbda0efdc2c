// Package shell executes accepted commands with an in-process POSIX shell interpreter.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

const commandSourceName = "command"

// ExitError reports a command that ran and finished with a non-zero status.
type ExitError struct {
	Command string
	Status  uint8
}

func (exitError *ExitError) Error() string {
	return fmt.Sprintf("command %q exited with status %d", exitError.Command, exitError.Status)
}

// Options configure a Runner. Nil streams default to the process streams.
type Options struct {
	Stdin     io.Reader
	Stdout    io.Writer
	Stderr    io.Writer
	Directory string
}

// Runner parses and interprets shell commands.
type Runner struct {
	options Options
}

// NewRunner returns a Runner using options.
func NewRunner(options Options) *Runner {
	if options.Stdin == nil {
		options.Stdin = os.Stdin
	}
	if options.Stdout == nil {
		options.Stdout = os.Stdout
	}
	if options.Stderr == nil {
		options.Stderr = os.Stderr
	}
	return &Runner{options: options}
}

// Run executes command with the configured streams attached.
func (runner *Runner) Run(ctx context.Context, command string) error {
	file, parseError := syntax.NewParser().Parse(strings.NewReader(command), commandSourceName)
	if parseError != nil {
		return fmt.Errorf("parse command: %w", parseError)
	}

	interpreterOptions := []interp.RunnerOption{
		interp.StdIO(runner.options.Stdin, runner.options.Stdout, runner.options.Stderr),
	}
	if runner.options.Directory != "" {
		interpreterOptions = append(interpreterOptions, interp.Dir(runner.options.Directory))
	}
	interpreter, createError := interp.New(interpreterOptions...)
	if createError != nil {
		return fmt.Errorf("create shell interpreter: %w", createError)
	}

	runError := interpreter.Run(ctx, file)
	var exitStatus interp.ExitStatus
	if errors.As(runError, &exitStatus) {
		return &ExitError{Command: command, Status: uint8(exitStatus)}
	}
	if runError != nil {
		return fmt.Errorf("run command: %w", runError)
	}
	return nil
}
