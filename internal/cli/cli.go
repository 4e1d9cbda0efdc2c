// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/hokuspokus/internal/assistant"
	"github.com/temirov/hokuspokus/internal/completion"
	"github.com/temirov/hokuspokus/internal/config"
	"github.com/temirov/hokuspokus/internal/credentials"
	"github.com/temirov/hokuspokus/internal/services/clipboard"
	"github.com/temirov/hokuspokus/internal/shell"
	"github.com/temirov/hokuspokus/internal/tokenizer"
	"github.com/temirov/hokuspokus/internal/utils"
)

const (
	rootUse              = utils.ApplicationName
	rootShortDescription = "turn plain language into commands, scripts, snippets and answers"
	rootLongDescription  = `hokuspokus asks a large language model to translate what you want into
shell commands, manuals, scripts, code snippets, answers, code reviews,
debugging advice and development plans.
Run "hokuspokus configure" once to store an OpenAI API key.`
	versionTemplate = "hokuspokus version: %s\n"

	versionFlagName        = "version"
	versionFlagDescription = "display application version"
	verboseFlagName        = "verbose"
	verboseFlagDescription = "log debug details to stderr"
	configFlagName         = "config"
	configFlagDescription  = "path to a configuration file used instead of ./.hokuspokus.yaml"

	workingDirectoryErrorFormat = "determine working directory: %w"
)

// CredentialStore reads and persists the API key.
type CredentialStore interface {
	credentials.Reader
	Write(apiKey string) error
	Path() string
}

// CommandRunner executes a shell command.
type CommandRunner interface {
	Run(ctx context.Context, command string) error
}

// Dependencies are the collaborators of the command tree. Tests replace them with fakes.
type Dependencies struct {
	Input       io.Reader
	Output      io.Writer
	ErrorOutput io.Writer
	// WorkingDirectory is walked for project context and receives saved scripts and local configuration.
	WorkingDirectory string
	Credentials      CredentialStore
	Clipboard        clipboard.Copier
	NewLogger        func(verbose bool) (*zap.Logger, error)
	NewCompleter     func(configuration config.CompletionConfiguration, logger *zap.Logger) assistant.Completer
	NewCounter       func(configuration tokenizer.Config) (tokenizer.Counter, error)
	NewRunner        func(options shell.Options) CommandRunner
}

// DefaultDependencies wires the process streams, the credentials file in the home directory,
// the system clipboard, the OpenAI client and the in-process shell.
func DefaultDependencies() (Dependencies, error) {
	workingDirectory, err := os.Getwd()
	if err != nil {
		return Dependencies{}, fmt.Errorf(workingDirectoryErrorFormat, err)
	}
	credentialsPath, err := credentials.DefaultPath()
	if err != nil {
		return Dependencies{}, err
	}
	return Dependencies{
		Input:            os.Stdin,
		Output:           os.Stdout,
		ErrorOutput:      os.Stderr,
		WorkingDirectory: workingDirectory,
		Credentials:      credentials.NewStore(credentialsPath),
		Clipboard:        clipboard.NewSystemCopier(),
		NewLogger:        utils.NewApplicationLogger,
		NewCompleter: func(configuration config.CompletionConfiguration, logger *zap.Logger) assistant.Completer {
			return completion.NewClient(completion.Config{
				Model:       configuration.ModelOrDefault(),
				Temperature: configuration.TemperatureOrDefault(),
				BaseURL:     configuration.BaseURL,
			}, logger)
		},
		NewCounter: tokenizer.NewCounter,
		NewRunner: func(options shell.Options) CommandRunner {
			return shell.NewRunner(options)
		},
	}, nil
}

// Execute runs the hokuspokus application with the process arguments.
func Execute(ctx context.Context) error {
	dependencies, err := DefaultDependencies()
	if err != nil {
		return err
	}
	rootCommand := NewRootCommand(dependencies)
	rootCommand.SetArgs(attachSwitchValues(os.Args[1:], clipboardFlagName))
	return rootCommand.ExecuteContext(ctx)
}

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

// NewRootCommand builds the command tree over dependencies.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var showVersion bool
	options := &globalOptions{logger: zap.NewNop()}

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, err := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return err
			}
			return command.Help()
		},
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			if dependencies.NewLogger == nil {
				return nil
			}
			logger, err := dependencies.NewLogger(options.verbose)
			if err != nil {
				return fmt.Errorf(utils.LoggerInitializationFailedMessageFormat, err)
			}
			options.logger = logger
			return nil
		},
	}
	rootCommand.SetIn(dependencies.Input)
	rootCommand.SetOut(dependencies.Output)
	rootCommand.SetErr(dependencies.ErrorOutput)
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().BoolVar(&options.verbose, verboseFlagName, false, verboseFlagDescription)
	rootCommand.PersistentFlags().StringVar(&options.configPath, configFlagName, utils.EmptyString, configFlagDescription)

	rootCommand.AddCommand(
		createConfigureCommand(dependencies, options),
		createConfigCommand(dependencies),
		createTranslateCommand(dependencies, options),
		createManualCommand(dependencies, options),
		createScriptCommand(dependencies, options),
		createSnippetCommand(dependencies, options),
		createQuestionCommand(dependencies, options),
		createReviewCommand(dependencies, options),
		createDebugCommand(dependencies, options),
		createDevelopCommand(dependencies, options),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}
