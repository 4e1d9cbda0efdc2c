// Package response classifies raw completion text and extracts structured values from it.
package response

import (
	"strings"
)

// UnclearSentinel is the exact prefix the model is instructed to start its reply with when it cannot satisfy a request.
const UnclearSentinel = "UNCLEAR PROMPT: "

const newlineSeparator = "\n"

// IsUnclear reports whether text starts with UnclearSentinel.
// The comparison is an exact, case-sensitive prefix match on the untrimmed text.
func IsUnclear(text string) bool {
	return strings.HasPrefix(text, UnclearSentinel)
}

// Outcome is the result of one task: either an explanation of why the request
// could not be satisfied, or a resolved value.
type Outcome[T any] struct {
	unclear     bool
	explanation string
	value       T
}

// Unclear returns an Outcome carrying the model's explanation.
func Unclear[T any](explanation string) Outcome[T] {
	return Outcome[T]{unclear: true, explanation: explanation}
}

// Resolved returns an Outcome carrying value.
func Resolved[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// IsUnclear reports whether the outcome is the unclear variant.
func (outcome Outcome[T]) IsUnclear() bool {
	return outcome.unclear
}

// Explanation returns the explanation of an unclear outcome and an empty string otherwise.
func (outcome Outcome[T]) Explanation() string {
	return outcome.explanation
}

// Value returns the resolved value. The boolean is false for an unclear outcome.
func (outcome Outcome[T]) Value() (T, bool) {
	if outcome.unclear {
		var zero T
		return zero, false
	}
	return outcome.value, true
}

// Script is a generated script split into the filename line and the script body.
type Script struct {
	Filename string
	Body     string
}

// ParseText converts raw completion text into an Outcome of the text itself.
func ParseText(raw string) Outcome[string] {
	if IsUnclear(raw) {
		return Unclear[string](explanationOf(raw))
	}
	return Resolved(raw)
}

// ParseScript converts raw completion text into an Outcome of a Script.
func ParseScript(raw string) Outcome[Script] {
	if IsUnclear(raw) {
		return Unclear[Script](explanationOf(raw))
	}
	return Resolved(SplitScript(raw))
}

// SplitScript splits raw into a filename and a body.
// The first line, trimmed, is the filename; the remaining lines are the body, unmodified.
// When raw is unclear the filename is empty and the body holds the raw text.
func SplitScript(raw string) Script {
	if IsUnclear(raw) {
		return Script{Body: raw}
	}
	filenameLine, body, _ := strings.Cut(raw, newlineSeparator)
	return Script{
		Filename: strings.TrimSpace(filenameLine),
		Body:     body,
	}
}

// StripCodeFence removes a leading markdown fence and a trailing fence from text, then trims surrounding whitespace.
// A single word on the opening fence line is a language tag only when more lines follow it inside the fence.
func StripCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, codeFence) {
		withoutOpening := strings.TrimPrefix(trimmed, codeFence)
		firstLine, rest, found := strings.Cut(withoutOpening, newlineSeparator)
		if found && isLanguageTag(firstLine) && fencedContent(rest) != "" {
			withoutOpening = rest
		}
		trimmed = withoutOpening
	}
	return fencedContent(trimmed)
}

func isLanguageTag(line string) bool {
	tag := strings.TrimSpace(line)
	return tag != "" && !strings.ContainsAny(tag, " \t")
}

// fencedContent drops a trailing fence and the whitespace around it.
func fencedContent(text string) string {
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), codeFence))
}

const codeFence = "```"

func explanationOf(raw string) string {
	return strings.TrimSpace(strings.TrimPrefix(raw, UnclearSentinel))
}
