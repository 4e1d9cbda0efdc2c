// Package projectcontext gathers project files into one labelled text blob for context-aware prompts.
package projectcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/hokuspokus/internal/tokenizer"
)

const (
	// LabelPrefix precedes the base name of every file in the blob.
	LabelPrefix = "File: "
	// EntrySeparator separates consecutive file entries.
	EntrySeparator = "\n\n"
	// BinaryPlaceholder replaces the content of binary files when Options.SkipBinary is set.
	BinaryPlaceholder = "[binary content omitted]"

	maxConcurrentReads = 16
)

// ErrBudgetExceeded reports that the aggregated context exceeds Options.MaxTokens.
var ErrBudgetExceeded = errors.New("project context exceeds token budget")

var errBudgetWithoutCounter = errors.New("token budget requires a token counter")

// ReadError identifies the file or directory that could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (readError *ReadError) Error() string {
	return fmt.Sprintf("read %s: %v", readError.Path, readError.Err)
}

func (readError *ReadError) Unwrap() error {
	return readError.Err
}

// Entry is one file of the project context.
type Entry struct {
	// Label is the base name of the file.
	Label string
	// Path is the path the file was read from.
	Path    string
	Content string
}

func (entry Entry) String() string {
	return LabelPrefix + entry.Label + "\n" + entry.Content
}

// Context is the ordered list of file entries gathered for one request.
type Context struct {
	Entries []Entry
	// Tokens is the counted size of the blob; zero when no counter was configured.
	Tokens int
}

// String concatenates the entries into the blob embedded in prompts.
func (projectContext Context) String() string {
	renderedEntries := make([]string, 0, len(projectContext.Entries))
	for _, entry := range projectContext.Entries {
		renderedEntries = append(renderedEntries, entry.String())
	}
	return strings.Join(renderedEntries, EntrySeparator)
}

// Bytes returns the combined content length of all entries.
func (projectContext Context) Bytes() int64 {
	var total int64
	for _, entry := range projectContext.Entries {
		total += int64(len(entry.Content))
	}
	return total
}

// Options control aggregation.
type Options struct {
	// IgnorePatterns are matched against paths relative to the walked root. They do not apply to explicit files.
	IgnorePatterns []string
	// SkipBinary replaces binary file content with BinaryPlaceholder.
	SkipBinary bool
	// MaxTokens bounds the blob size; zero disables the bound.
	MaxTokens int
	// Counter counts tokens. Required when MaxTokens is positive.
	Counter tokenizer.Counter
}

func (options Options) validate() error {
	if options.MaxTokens > 0 && options.Counter == nil {
		return errBudgetWithoutCounter
	}
	return nil
}

// Collect reads the explicit files when any are given and walks root otherwise.
func Collect(ctx context.Context, root string, filePaths []string, options Options) (Context, error) {
	if len(filePaths) > 0 {
		return FromFiles(ctx, filePaths, options)
	}
	return FromDirectory(ctx, root, options)
}

// budget accumulates token counts and enforces Options.MaxTokens.
type budget struct {
	counter   tokenizer.Counter
	maxTokens int
	used      int
	entries   int
}

func newBudget(options Options) *budget {
	return &budget{counter: options.Counter, maxTokens: options.MaxTokens}
}

func (tracker *budget) add(entry Entry) error {
	if tracker.counter == nil {
		return nil
	}
	text := entry.String()
	if tracker.entries > 0 {
		text = EntrySeparator + text
	}
	tracker.entries++
	tokens, countError := tokenizer.CountText(tracker.counter, text)
	if countError != nil {
		return fmt.Errorf("count tokens for %s: %w", entry.Path, countError)
	}
	tracker.used += tokens
	if tracker.maxTokens > 0 && tracker.used > tracker.maxTokens {
		return fmt.Errorf("%w: %d tokens after %s (limit %d)", ErrBudgetExceeded, tracker.used, entry.Path, tracker.maxTokens)
	}
	return nil
}
