package cli_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/temirov/hokuspokus/internal/assistant"
	"github.com/temirov/hokuspokus/internal/cli"
	"github.com/temirov/hokuspokus/internal/config"
	"github.com/temirov/hokuspokus/internal/credentials"
	"github.com/temirov/hokuspokus/internal/shell"
	"github.com/temirov/hokuspokus/internal/tokenizer"
	"github.com/temirov/hokuspokus/internal/utils"
)

type scriptedCompleter struct {
	answers []string
	prompts []string
}

func (completer *scriptedCompleter) Complete(_ context.Context, promptText string, _ string) (string, error) {
	completer.prompts = append(completer.prompts, promptText)
	if len(completer.answers) == 0 {
		return "", errors.New("no scripted answer left")
	}
	answer := completer.answers[0]
	completer.answers = completer.answers[1:]
	return answer, nil
}

type memoryCredentials struct {
	apiKey  string
	written []string
}

func (store *memoryCredentials) Read() (credentials.Credentials, error) {
	if store.apiKey == "" {
		return credentials.Credentials{}, credentials.ErrNotConfigured
	}
	return credentials.Credentials{APIKey: store.apiKey}, nil
}

func (store *memoryCredentials) Write(apiKey string) error {
	store.written = append(store.written, apiKey)
	store.apiKey = apiKey
	return nil
}

func (store *memoryCredentials) Path() string {
	return "/tmp/hokuspokus/config.json"
}

type recordingClipboard struct {
	copied []string
}

func (copier *recordingClipboard) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type fakeRunner struct {
	options  shell.Options
	output   string
	commands *[]string
}

func (runner fakeRunner) Run(_ context.Context, command string) error {
	*runner.commands = append(*runner.commands, command)
	_, err := io.WriteString(runner.options.Stdout, runner.output)
	return err
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type harness struct {
	workingDirectory string
	completer        *scriptedCompleter
	credentials      *memoryCredentials
	clipboard        *recordingClipboard
	commands         []string
	runnerOutput     string
	output           bytes.Buffer
	errorOutput      bytes.Buffer
}

func newHarness(testingInstance *testing.T, answers ...string) *harness {
	testingInstance.Helper()
	testingInstance.Setenv("HOME", testingInstance.TempDir())
	return &harness{
		workingDirectory: testingInstance.TempDir(),
		completer:        &scriptedCompleter{answers: answers},
		credentials:      &memoryCredentials{apiKey: "sk-test"},
		clipboard:        &recordingClipboard{},
	}
}

func (testHarness *harness) run(input string, arguments ...string) error {
	dependencies := cli.Dependencies{
		Input:            strings.NewReader(input),
		Output:           &testHarness.output,
		ErrorOutput:      &testHarness.errorOutput,
		WorkingDirectory: testHarness.workingDirectory,
		Credentials:      testHarness.credentials,
		Clipboard:        testHarness.clipboard,
		NewCompleter: func(config.CompletionConfiguration, *zap.Logger) assistant.Completer {
			return testHarness.completer
		},
		NewCounter: func(tokenizer.Config) (tokenizer.Counter, error) {
			return runeCounter{}, nil
		},
		NewRunner: func(options shell.Options) cli.CommandRunner {
			return fakeRunner{options: options, output: testHarness.runnerOutput, commands: &testHarness.commands}
		},
	}
	rootCommand := cli.NewRootCommand(dependencies)
	rootCommand.SetArgs(arguments)
	return rootCommand.ExecuteContext(context.Background())
}

func TestTranslateCommandCopiesAndRunsAfterConfirmation(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "ls -la")
	if err := testHarness.run("y\n", "cli", "list", "files", "in", "the", "current", "directory"); err != nil {
		testingInstance.Fatalf("cli error: %v", err)
	}
	if !strings.Contains(testHarness.completer.prompts[0], "Task: list files in the current directory") {
		testingInstance.Fatalf("intent not forwarded: %s", testHarness.completer.prompts[0])
	}
	if !strings.Contains(testHarness.output.String(), "ls -la") {
		testingInstance.Fatalf("command not printed: %q", testHarness.output.String())
	}
	if len(testHarness.clipboard.copied) != 1 || testHarness.clipboard.copied[0] != "ls -la" {
		testingInstance.Fatalf("expected command on clipboard, got %v", testHarness.clipboard.copied)
	}
	if len(testHarness.commands) != 1 || testHarness.commands[0] != "ls -la" {
		testingInstance.Fatalf("expected command to run, got %v", testHarness.commands)
	}
}

func TestTranslateCommandDeclinedAndClipboardDisabled(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "git status")
	if err := testHarness.run("n\n", "cli", "--tool", "git", "--clipboard=off", "show", "changes"); err != nil {
		testingInstance.Fatalf("cli error: %v", err)
	}
	if !strings.Contains(testHarness.completer.prompts[0], "for the git CLI") {
		testingInstance.Fatalf("tool hint missing: %s", testHarness.completer.prompts[0])
	}
	if len(testHarness.clipboard.copied) != 0 || len(testHarness.commands) != 0 {
		testingInstance.Fatalf("expected no copy and no run, got %v %v", testHarness.clipboard.copied, testHarness.commands)
	}
}

func TestUnclearAnswerIsReportedAsNotice(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "UNCLEAR PROMPT: please clarify the target OS")
	if err := testHarness.run("y\n", "cli", "install", "it"); err != nil {
		testingInstance.Fatalf("cli error: %v", err)
	}
	if !strings.Contains(testHarness.errorOutput.String(), "please clarify the target OS") {
		testingInstance.Fatalf("expected unclear notice, got %q", testHarness.errorOutput.String())
	}
	if len(testHarness.commands) != 0 || len(testHarness.clipboard.copied) != 0 {
		testingInstance.Fatalf("unclear answer must not be copied or run")
	}
}

func TestScriptCommandSavesConfirmedScript(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "hello.sh\necho hello")
	if err := testHarness.run("yes\n", "script", "print", "hello"); err != nil {
		testingInstance.Fatalf("script error: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(testHarness.workingDirectory, "hello.sh"))
	if err != nil {
		testingInstance.Fatalf("script not saved: %v", err)
	}
	if string(content) != "echo hello" {
		testingInstance.Fatalf("unexpected script body %q", string(content))
	}
}

func TestScriptCommandRefusesEscapingFilename(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "../evil.sh\necho evil")
	err := testHarness.run("y\n", "script", "anything")
	if err == nil || !strings.Contains(err.Error(), "outside the working directory") {
		testingInstance.Fatalf("expected refusal, got %v", err)
	}
	if _, statErr := os.Stat(filepath.Join(filepath.Dir(testHarness.workingDirectory), "evil.sh")); !os.IsNotExist(statErr) {
		testingInstance.Fatalf("script must not be written outside the working directory")
	}
}

func TestQuestionCommandFollowUp(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "A lock.", "A mutex serializes access to shared state.")
	if err := testHarness.run("y\n", "question", "what", "is", "a", "mutex"); err != nil {
		testingInstance.Fatalf("question error: %v", err)
	}
	if len(testHarness.completer.prompts) != 2 {
		testingInstance.Fatalf("expected two completion calls, got %d", len(testHarness.completer.prompts))
	}
	if !strings.Contains(testHarness.completer.prompts[1], "Initial Answer: A lock.") {
		testingInstance.Fatalf("follow-up lacks the brief answer: %s", testHarness.completer.prompts[1])
	}
	if !strings.Contains(testHarness.output.String(), "A mutex serializes access to shared state.") {
		testingInstance.Fatalf("detailed answer not printed: %q", testHarness.output.String())
	}
}

func TestCodeReviewCommand(testingInstance *testing.T) {
	testCases := []struct {
		name            string
		diff            string
		arguments       []string
		expectedCommand string
		expectedCalls   int
	}{
		{name: "empty_diff_skips_service", diff: "", arguments: []string{"code-review"}, expectedCommand: "git diff", expectedCalls: 0},
		{name: "staged_diff_is_reviewed", diff: "diff --git a/x b/x\n+added\n", arguments: []string{"code-review", "--staged"}, expectedCommand: "git diff --staged", expectedCalls: 1},
	}
	for _, testCase := range testCases {
		testingInstance.Run(testCase.name, func(testingInstance *testing.T) {
			testHarness := newHarness(testingInstance, "Looks good.")
			testHarness.runnerOutput = testCase.diff
			if err := testHarness.run("", testCase.arguments...); err != nil {
				testingInstance.Fatalf("code-review error: %v", err)
			}
			if len(testHarness.commands) != 1 || testHarness.commands[0] != testCase.expectedCommand {
				testingInstance.Fatalf("expected %q, got %v", testCase.expectedCommand, testHarness.commands)
			}
			if len(testHarness.completer.prompts) != testCase.expectedCalls {
				testingInstance.Fatalf("expected %d completion calls, got %d", testCase.expectedCalls, len(testHarness.completer.prompts))
			}
			if testCase.expectedCalls > 0 && !strings.Contains(testHarness.completer.prompts[0], testCase.diff) {
				testingInstance.Fatalf("diff not forwarded")
			}
		})
	}
}

func TestDebugCommandSendsProjectFiles(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "Check util.ts")
	for name, content := range map[string]string{
		"main.ts":                  "const x=1;",
		"util.ts":                  "export {}",
		".gitignore":               "dist/\n",
		filepath.Join("dist", "a"): "bundled",
	} {
		path := filepath.Join(testHarness.workingDirectory, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			testingInstance.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			testingInstance.Fatalf("write %s: %v", name, err)
		}
	}
	if err := testHarness.run("", "debug", "TypeError: x is not a function"); err != nil {
		testingInstance.Fatalf("debug error: %v", err)
	}
	sentPrompt := testHarness.completer.prompts[0]
	for _, expected := range []string{"File: main.ts\nconst x=1;", "File: util.ts\nexport {}"} {
		if !strings.Contains(sentPrompt, expected) {
			testingInstance.Fatalf("prompt misses %q", expected)
		}
	}
	if strings.Contains(sentPrompt, "bundled") {
		testingInstance.Fatalf("ignored directory leaked into the prompt")
	}
}

func TestDevelopCommandWithExplicitFiles(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "1. Add the flag")
	chosen := filepath.Join(testHarness.workingDirectory, "list.go")
	if err := os.WriteFile(chosen, []byte("package list"), 0o644); err != nil {
		testingInstance.Fatalf("write: %v", err)
	}
	if err := testHarness.run("", "develop", "add a --json flag", chosen); err != nil {
		testingInstance.Fatalf("develop error: %v", err)
	}
	if !strings.Contains(testHarness.completer.prompts[0], "File: list.go\npackage list") {
		testingInstance.Fatalf("explicit file missing from prompt")
	}
	if !strings.Contains(testHarness.output.String(), "1. Add the flag") {
		testingInstance.Fatalf("plan not printed: %q", testHarness.output.String())
	}
}

func TestTasksRequireConfiguredKey(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance, "unused")
	testHarness.credentials.apiKey = ""
	err := testHarness.run("", "man", "tar")
	if !errors.Is(err, credentials.ErrNotConfigured) {
		testingInstance.Fatalf("expected ErrNotConfigured, got %v", err)
	}
	if len(testHarness.completer.prompts) != 0 {
		testingInstance.Fatalf("expected no completion call")
	}
}

func TestConfigureStoresKey(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance)
	testHarness.credentials.apiKey = ""
	if err := testHarness.run("  sk-new  \n", "configure"); err != nil {
		testingInstance.Fatalf("configure error: %v", err)
	}
	if len(testHarness.credentials.written) != 1 || testHarness.credentials.written[0] != "sk-new" {
		testingInstance.Fatalf("expected key to be stored, got %v", testHarness.credentials.written)
	}

	if err := testHarness.run("\n", "configure"); err == nil {
		testingInstance.Fatalf("expected error for empty key")
	}
}

func TestConfigInitWritesLocalFile(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance)
	if err := testHarness.run("", "config", "init"); err != nil {
		testingInstance.Fatalf("config init error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(testHarness.workingDirectory, utils.LocalConfigFileName)); err != nil {
		testingInstance.Fatalf("expected local configuration: %v", err)
	}
	if err := testHarness.run("", "config", "init"); err == nil {
		testingInstance.Fatalf("expected error without --force")
	}
	if err := testHarness.run("", "config", "init", "--force"); err != nil {
		testingInstance.Fatalf("config init --force error: %v", err)
	}
}

func TestVersionFlag(testingInstance *testing.T) {
	testHarness := newHarness(testingInstance)
	if err := testHarness.run("", "--version"); err != nil {
		testingInstance.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(testHarness.output.String(), "hokuspokus version: ") {
		testingInstance.Fatalf("unexpected version output %q", testHarness.output.String())
	}
}
