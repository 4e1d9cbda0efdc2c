package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hokuspokus/internal/assistant"
	"github.com/temirov/hokuspokus/internal/config"
	"github.com/temirov/hokuspokus/internal/projectcontext"
	"github.com/temirov/hokuspokus/internal/services/clipboard"
	"github.com/temirov/hokuspokus/internal/shell"
	"github.com/temirov/hokuspokus/internal/tokenizer"
	"github.com/temirov/hokuspokus/internal/ui"
)

const (
	exclusionFlagName               = "e"
	noGitignoreFlagName             = "no-gitignore"
	noIgnoreFlagName                = "no-ignore"
	includeGitFlagName              = "git"
	exclusionFlagDescription        = "exclude path pattern from the project context"
	disableGitignoreFlagDescription = "do not use .gitignore"
	disableIgnoreFlagDescription    = "do not use .ignore"
	includeGitFlagDescription       = "include git directory"

	clipboardFlagName        = "clipboard"
	clipboardFlagDescription = "copy the result to the clipboard (overrides the clipboard setting)"

	clipboardWarningFormat  = "Could not copy to the clipboard: %v"
	clipboardCopiedMessage  = "Copied to the clipboard."
	loadConfigurationFormat = "load configuration: %w"
)

// contextFlags holds the project context flags of debug and develop.
type contextFlags struct {
	exclusionPatterns []string
	disableGitignore  bool
	disableIgnoreFile bool
	includeGit        bool
}

func addContextFlags(command *cobra.Command, flags *contextFlags) {
	command.Flags().StringArrayVarP(&flags.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	command.Flags().BoolVar(&flags.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	command.Flags().BoolVar(&flags.disableIgnoreFile, noIgnoreFlagName, false, disableIgnoreFlagDescription)
	command.Flags().BoolVar(&flags.includeGit, includeGitFlagName, false, includeGitFlagDescription)
}

// apply overlays flags the user set explicitly onto the configured ignore options.
func (flags contextFlags) apply(command *cobra.Command, options config.IgnoreOptions) config.IgnoreOptions {
	if command.Flags().Changed(noGitignoreFlagName) {
		options.UseGitignore = !flags.disableGitignore
	}
	if command.Flags().Changed(noIgnoreFlagName) {
		options.UseIgnoreFile = !flags.disableIgnoreFile
	}
	if command.Flags().Changed(includeGitFlagName) {
		options.IncludeGit = flags.includeGit
	}
	return options
}

// session carries everything one task command needs.
type session struct {
	dependencies     Dependencies
	configuration    config.ApplicationConfiguration
	console          *ui.Console
	logger           *zap.Logger
	workingDirectory string
}

func newSession(command *cobra.Command, dependencies Dependencies, options *globalOptions) (*session, error) {
	configuration, err := config.LoadApplicationConfiguration(config.LoadOptions{
		WorkingDirectory: dependencies.WorkingDirectory,
		ExplicitFilePath: options.configPath,
	})
	if err != nil {
		return nil, fmt.Errorf(loadConfigurationFormat, err)
	}
	return &session{
		dependencies:     dependencies,
		configuration:    configuration,
		console:          ui.NewConsole(command.InOrStdin(), command.OutOrStdout(), command.ErrOrStderr()),
		logger:           options.logger,
		workingDirectory: dependencies.WorkingDirectory,
	}, nil
}

// service returns an orchestrator without project context settings.
func (current *session) service() *assistant.Service {
	return current.serviceWithContext(projectcontext.Options{})
}

func (current *session) serviceWithContext(contextOptions projectcontext.Options) *assistant.Service {
	completer := current.dependencies.NewCompleter(current.configuration.Completion, current.logger)
	return assistant.NewService(completer, current.dependencies.Credentials, assistant.Config{
		WorkingDirectory: current.workingDirectory,
		Context:          contextOptions,
	}, current.logger)
}

// contextOptions resolves ignore rules and the token budget for the working directory.
func (current *session) contextOptions(command *cobra.Command, flags contextFlags) (projectcontext.Options, error) {
	ignoreOptions := flags.apply(command, current.configuration.Context.IgnoreOptions(flags.exclusionPatterns))
	ignorePatterns, err := config.LoadRecursiveIgnorePatterns(current.workingDirectory, ignoreOptions)
	if err != nil {
		return projectcontext.Options{}, err
	}
	current.logger.Debug("ignore patterns loaded", zap.Strings("patterns", ignorePatterns))

	options := projectcontext.Options{
		IgnorePatterns: ignorePatterns,
		SkipBinary:     true,
		MaxTokens:      current.configuration.Context.MaxTokensOrDefault(),
	}
	if options.MaxTokens > 0 {
		model := current.configuration.Context.TokenizerModelOrDefault(current.configuration.Completion.ModelOrDefault())
		counter, counterErr := current.dependencies.NewCounter(tokenizer.Config{Model: model})
		if counterErr != nil {
			return projectcontext.Options{}, counterErr
		}
		options.Counter = counter
	}
	return options, nil
}

// copyToClipboard copies text when clipboard use is enabled by the flag or the configuration.
// Clipboard failures are reported and never fail the command.
func (current *session) copyToClipboard(command *cobra.Command, flagValue bool, text string) bool {
	enabled := current.configuration.ClipboardEnabled()
	if command.Flags().Changed(clipboardFlagName) {
		enabled = flagValue
	}
	if !enabled {
		return false
	}
	copier := current.dependencies.Clipboard
	if copier == nil {
		copier = clipboard.Disabled{}
	}
	if err := copier.Copy(text); err != nil {
		current.console.Warningf(clipboardWarningFormat, err)
		return false
	}
	current.console.Infof(clipboardCopiedMessage)
	return true
}

// runCommand executes command in the working directory with the console streams attached.
func (current *session) runCommand(ctx context.Context, command *cobra.Command, shellCommand string) error {
	runner := current.dependencies.NewRunner(shell.Options{
		Stdin:     command.InOrStdin(),
		Stdout:    command.OutOrStdout(),
		Stderr:    command.ErrOrStderr(),
		Directory: current.workingDirectory,
	})
	return runner.Run(ctx, shellCommand)
}

// saveScript writes body to filename inside the working directory.
func (current *session) saveScript(filename string, body string) (string, error) {
	if filename == "" {
		return "", errEmptyScriptFilename
	}
	if !filepath.IsLocal(filename) {
		return "", fmt.Errorf("%w: %s", errScriptOutsideWorkingDirectory, filename)
	}
	destination := filepath.Join(current.workingDirectory, filename)
	if err := os.MkdirAll(filepath.Dir(destination), 0o755); err != nil {
		return "", fmt.Errorf("create directory for %s: %w", filename, err)
	}
	if err := os.WriteFile(destination, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("save script %s: %w", filename, err)
	}
	return destination, nil
}
