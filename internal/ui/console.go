// Package ui writes task results and notices to the terminal and reads confirmations and secrets.
package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	fcolor "github.com/fatih/color"
	"golang.org/x/term"
)

const confirmationSuffix = " [y/N]: "

var affirmativeAnswers = map[string]struct{}{
	"y":   {},
	"yes": {},
}

// Console renders results on the output stream and notices on the error stream.
// Markdown is rendered only when the output stream is a terminal.
type Console struct {
	input       *bufio.Reader
	inputFile   *os.File
	output      io.Writer
	errorOutput io.Writer
	renderer    *glamour.TermRenderer
}

// NewConsole returns a Console over the given streams.
func NewConsole(input io.Reader, output io.Writer, errorOutput io.Writer) *Console {
	console := &Console{
		input:       bufio.NewReader(input),
		output:      output,
		errorOutput: errorOutput,
	}
	if file, isFile := input.(*os.File); isFile && term.IsTerminal(int(file.Fd())) {
		console.inputFile = file
	}
	if file, isFile := output.(*os.File); isFile && term.IsTerminal(int(file.Fd())) {
		width, _, sizeErr := term.GetSize(int(file.Fd()))
		if sizeErr != nil {
			width = defaultWrapWidth
		}
		console.renderer = newMarkdownRenderer(width)
	}
	return console
}

// Plain writes text followed by a newline.
func (console *Console) Plain(text string) {
	_, _ = fmt.Fprintln(console.output, text)
}

// Markdown writes text, rendered for the terminal when possible.
func (console *Console) Markdown(text string) {
	console.Plain(renderMarkdown(console.renderer, text))
}

// Unclear reports that the assistant could not satisfy a request.
func (console *Console) Unclear(explanation string) {
	console.notice(fcolor.New(fcolor.FgYellow), "? ", "The request was unclear: %s", explanation)
}

// Successf writes a success notice.
func (console *Console) Successf(format string, args ...any) {
	console.notice(fcolor.New(fcolor.FgGreen), "✔ ", format, args...)
}

// Infof writes an informational notice.
func (console *Console) Infof(format string, args ...any) {
	console.notice(fcolor.New(fcolor.FgBlue), "ℹ ", format, args...)
}

// Warningf writes a warning notice.
func (console *Console) Warningf(format string, args ...any) {
	console.notice(fcolor.New(fcolor.FgYellow), "⚠ ", format, args...)
}

func (console *Console) notice(color *fcolor.Color, symbol string, format string, args ...any) {
	content := fmt.Sprintf(format, args...)
	_, _ = color.Fprintf(console.errorOutput, "%s%s\n", symbol, content)
}

// Confirm asks a yes/no question. Anything but y or yes, including end of input, is a no.
func (console *Console) Confirm(question string) (bool, error) {
	_, _ = fmt.Fprint(console.errorOutput, question+confirmationSuffix)
	answer, err := console.readLine()
	if err != nil {
		return false, err
	}
	_, affirmative := affirmativeAnswers[strings.ToLower(answer)]
	return affirmative, nil
}

// ReadSecret prompts for a value without echoing it when the input is a terminal.
func (console *Console) ReadSecret(prompt string) (string, error) {
	_, _ = fmt.Fprint(console.errorOutput, prompt)
	if console.inputFile != nil {
		secret, err := term.ReadPassword(int(console.inputFile.Fd()))
		_, _ = fmt.Fprintln(console.errorOutput)
		if err != nil {
			return "", fmt.Errorf("read secret: %w", err)
		}
		return strings.TrimSpace(string(secret)), nil
	}
	return console.readLine()
}

func (console *Console) readLine() (string, error) {
	line, err := console.input.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
