package cli

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/hokuspokus/internal/response"
	"github.com/temirov/hokuspokus/internal/shell"
)

const (
	translateUse              = "cli <description...>"
	translateShortDescription = "translate a description into a shell command"
	translateLongDescription  = `Translate a plain language description into a single command line.
The command is printed, copied to the clipboard, and run after confirmation.
Use --tool to target a specific CLI such as aws, git or kubectl.`
	translateUsageExample = `  # Find a command for a task
  hokuspokus cli "list files in the current directory"

  # Ask for an AWS CLI command
  hokuspokus cli --tool aws "list my s3 buckets"`
	toolFlagName        = "tool"
	toolFlagDescription = "CLI the command should use (defaults to any shell command)"

	manualUse              = "man <description...>"
	manualShortDescription = "show the manual for a command, tool or element"

	scriptUse              = "script <description...>"
	scriptShortDescription = "generate a script and offer to save it"
	scriptUsageExample     = `  hokuspokus script "bash script that backs up ~/notes into a dated tarball"`

	snippetUse              = "code <description...>"
	snippetShortDescription = "generate a short commented code snippet"

	questionUse              = "question <question...>"
	questionShortDescription = "ask a software engineering question"

	reviewUse              = "code-review"
	reviewShortDescription = "review the uncommitted changes of the current git repository"
	reviewLongDescription  = `Review the output of "git diff" in the current directory.
Use --staged to review the changes staged for commit instead.`
	stagedFlagName        = "staged"
	stagedFlagDescription = "review staged changes"
	gitDiffCommand        = "git diff"
	gitDiffStagedCommand  = "git diff --staged"

	debugUse              = "debug <error message> [files...]"
	debugShortDescription = "explain an error using the project files as context"
	debugLongDescription  = `Suggest the cause of an error and how to fix it.
The listed files are sent as context; without files every file of the current
directory tree is sent, honoring .gitignore, .ignore and -e exclusions.`
	debugUsageExample = `  hokuspokus debug "TypeError: x is not a function" src/app.ts src/util.ts`

	developUse              = "develop <feature description> [files...]"
	developShortDescription = "plan a new feature using the project files as context"
	developUsageExample     = `  hokuspokus develop "add a --json flag to the list command" -e dist/`

	runCommandQuestion      = "Run this command?"
	saveScriptQuestion      = "Save the script as %s?"
	detailedAnswerQuestion  = "Would you like a more detailed answer?"
	proposedFilenameMessage = "Proposed file name: %s"
	scriptSavedMessage      = "Script saved to %s"
	noChangesMessage        = "There are no changes to review."
	collectDiffFormat       = "collect changes with %q: %w"
)

var (
	errEmptyScriptFilename           = errors.New("the generated script has no file name")
	errScriptOutsideWorkingDirectory = errors.New("refusing to save a script outside the working directory")
)

// joinArguments turns the positional words of a command into one description.
func joinArguments(arguments []string) string {
	return strings.TrimSpace(strings.Join(arguments, " "))
}

func createTranslateCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	var tool string
	var clipboardFlag bool
	command := &cobra.Command{
		Use:     translateUse,
		Short:   translateShortDescription,
		Long:    translateLongDescription,
		Example: translateUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			outcome, err := current.service().TranslateToCommand(command.Context(), joinArguments(arguments), tool)
			if err != nil {
				return err
			}
			shellCommand, resolved := outcome.Value()
			if !resolved {
				current.console.Unclear(outcome.Explanation())
				return nil
			}
			current.console.Plain(shellCommand)
			current.copyToClipboard(command, clipboardFlag, shellCommand)
			confirmed, err := current.console.Confirm(runCommandQuestion)
			if err != nil || !confirmed {
				return err
			}
			return current.runCommand(command.Context(), command, shellCommand)
		},
	}
	command.Flags().StringVar(&tool, toolFlagName, "", toolFlagDescription)
	addSwitchFlag(command.Flags(), &clipboardFlag, clipboardFlagName, true, clipboardFlagDescription)
	return command
}

func createManualCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   manualUse,
		Short: manualShortDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			outcome, err := current.service().LookupManual(command.Context(), joinArguments(arguments))
			if err != nil {
				return err
			}
			current.showMarkdown(outcome)
			return nil
		},
	}
}

func createScriptCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     scriptUse,
		Short:   scriptShortDescription,
		Example: scriptUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			outcome, err := current.service().GenerateScript(command.Context(), joinArguments(arguments))
			if err != nil {
				return err
			}
			script, resolved := outcome.Value()
			if !resolved {
				current.console.Unclear(outcome.Explanation())
				return nil
			}
			current.console.Infof(proposedFilenameMessage, script.Filename)
			current.console.Plain(script.Body)
			confirmed, err := current.console.Confirm(fmt.Sprintf(saveScriptQuestion, script.Filename))
			if err != nil || !confirmed {
				return err
			}
			destination, err := current.saveScript(script.Filename, script.Body)
			if err != nil {
				return err
			}
			current.console.Successf(scriptSavedMessage, destination)
			return nil
		},
	}
}

func createSnippetCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	var clipboardFlag bool
	command := &cobra.Command{
		Use:   snippetUse,
		Short: snippetShortDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			outcome, err := current.service().GenerateSnippet(command.Context(), joinArguments(arguments))
			if err != nil {
				return err
			}
			snippet, resolved := outcome.Value()
			if !resolved {
				current.console.Unclear(outcome.Explanation())
				return nil
			}
			current.console.Markdown(snippet)
			current.copyToClipboard(command, clipboardFlag, response.StripCodeFence(snippet))
			return nil
		},
	}
	addSwitchFlag(command.Flags(), &clipboardFlag, clipboardFlagName, true, clipboardFlagDescription)
	return command
}

func createQuestionCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   questionUse,
		Short: questionShortDescription,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			question := joinArguments(arguments)
			service := current.service()
			briefOutcome, err := service.AnswerBriefly(command.Context(), question)
			if err != nil {
				return err
			}
			briefAnswer, resolved := briefOutcome.Value()
			if !resolved {
				current.console.Unclear(briefOutcome.Explanation())
				return nil
			}
			current.console.Markdown(briefAnswer)
			wantsDetails, err := current.console.Confirm(detailedAnswerQuestion)
			if err != nil || !wantsDetails {
				return err
			}
			detailedOutcome, err := service.AnswerInDetail(command.Context(), question, briefAnswer)
			if err != nil {
				return err
			}
			current.showMarkdown(detailedOutcome)
			return nil
		},
	}
}

func createReviewCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	var staged bool
	command := &cobra.Command{
		Use:   reviewUse,
		Short: reviewShortDescription,
		Long:  reviewLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			diffCommand := gitDiffCommand
			if staged {
				diffCommand = gitDiffStagedCommand
			}
			var diffOutput bytes.Buffer
			runner := dependencies.NewRunner(shell.Options{
				Stdin:     strings.NewReader(""),
				Stdout:    &diffOutput,
				Stderr:    command.ErrOrStderr(),
				Directory: current.workingDirectory,
			})
			if err := runner.Run(command.Context(), diffCommand); err != nil {
				return fmt.Errorf(collectDiffFormat, diffCommand, err)
			}
			diff := diffOutput.String()
			if strings.TrimSpace(diff) == "" {
				current.console.Infof(noChangesMessage)
				return nil
			}
			outcome, err := current.service().ReviewCode(command.Context(), diff)
			if err != nil {
				return err
			}
			current.showMarkdown(outcome)
			return nil
		},
	}
	command.Flags().BoolVar(&staged, stagedFlagName, false, stagedFlagDescription)
	return command
}

func createDebugCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	var flags contextFlags
	command := &cobra.Command{
		Use:     debugUse,
		Short:   debugShortDescription,
		Long:    debugLongDescription,
		Example: debugUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			contextOptions, err := current.contextOptions(command, flags)
			if err != nil {
				return err
			}
			outcome, err := current.serviceWithContext(contextOptions).Debug(command.Context(), arguments[0], arguments[1:])
			if err != nil {
				return err
			}
			current.showMarkdown(outcome)
			return nil
		},
	}
	addContextFlags(command, &flags)
	return command
}

func createDevelopCommand(dependencies Dependencies, options *globalOptions) *cobra.Command {
	var flags contextFlags
	command := &cobra.Command{
		Use:     developUse,
		Short:   developShortDescription,
		Example: developUsageExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			current, err := newSession(command, dependencies, options)
			if err != nil {
				return err
			}
			contextOptions, err := current.contextOptions(command, flags)
			if err != nil {
				return err
			}
			outcome, err := current.serviceWithContext(contextOptions).PlanDevelopment(command.Context(), arguments[0], arguments[1:])
			if err != nil {
				return err
			}
			current.showMarkdown(outcome)
			return nil
		},
	}
	addContextFlags(command, &flags)
	return command
}

// showMarkdown prints a resolved outcome as markdown and an unclear one as a notice.
func (current *session) showMarkdown(outcome response.Outcome[string]) {
	text, resolved := outcome.Value()
	if !resolved {
		current.console.Unclear(outcome.Explanation())
		return
	}
	current.console.Markdown(text)
}
