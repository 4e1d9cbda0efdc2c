// Package prompts renders the instruction text sent to the completion service for every task kind.
package prompts

import (
	"fmt"
	"strings"

	"github.com/temirov/hokuspokus/internal/response"
)

// Kind identifies a task category.
type Kind string

// Supported task kinds.
const (
	KindTranslateToCommand Kind = "translate-to-command"
	KindManualLookup       Kind = "manual-lookup"
	KindScriptGeneration   Kind = "script-generation"
	KindCodeSnippet        Kind = "code-snippet"
	KindBriefAnswer        Kind = "brief-answer"
	KindDetailedAnswer     Kind = "detailed-answer"
	KindCodeReview         Kind = "code-review"
	KindDebugAssistance    Kind = "debug-assistance"
	KindDevelopmentPlan    Kind = "development-plan"
)

// Kinds lists every task kind in catalog order.
var Kinds = []Kind{
	KindTranslateToCommand,
	KindManualLookup,
	KindScriptGeneration,
	KindCodeSnippet,
	KindBriefAnswer,
	KindDetailedAnswer,
	KindCodeReview,
	KindDebugAssistance,
	KindDevelopmentPlan,
}

// Request is a fully rendered prompt for one task kind.
type Request struct {
	kind Kind
	text string
}

// Kind returns the task kind the request was built for.
func (request Request) Kind() Kind {
	return request.kind
}

// Text returns the rendered prompt.
func (request Request) Text() string {
	return request.text
}

func newRequest(kind Kind, lines ...string) Request {
	return Request{kind: kind, text: strings.Join(lines, "\n")}
}

// unclearInstruction tells the model how to signal that it cannot answer.
// Every builder embeds it so the parser can apply a single detection rule.
func unclearInstruction(condition string, followUp string) string {
	return fmt.Sprintf("%s, begin your response with '%s' followed by %s.", condition, response.UnclearSentinel, followUp)
}

const (
	explanationFollowUp   = "an explanation or suggestions on how to accomplish the task"
	clarificationFollowUp = "a brief clarification"
	notSoftwareCondition  = "If the question is unclear, irrelevant to software engineering, or lacks a straightforward answer"
	contextFormatLine     = "Each file's content is prefixed with 'File: <filename.ext>', followed by the content of the file."
	defaultToolName       = "shell"
)

// TranslateToCommand renders a request that turns intent into a single-line command.
// tool narrows the command to a specific CLI (for example aws or git); empty means any shell command.
func TranslateToCommand(intent string, tool string) Request {
	targetTool := strings.TrimSpace(tool)
	if targetTool == "" {
		targetTool = defaultToolName
	}
	return newRequest(KindTranslateToCommand,
		fmt.Sprintf("Translate the following to a command for the %s CLI.", targetTool),
		"If you are able to find a corresponding CLI command, reply only with the command in one line and nothing else. Do not give further explanation, the CLI command is enough.",
		unclearInstruction("If you are not able to generate a command", explanationFollowUp),
		"Task: "+intent,
	)
}

// ManualLookup renders a request for the manual of a command, tool, or element.
func ManualLookup(description string) Request {
	return newRequest(KindManualLookup,
		"I need the manual or the documentation for the CLI command, the tool or the element mentioned in the following description.",
		"Please provide the complete manual if it is a command.",
		"If it is something else, provide the main documentation with only the essential explanations.",
		"If the version isn't specified in the description, provide the manual of the latest version.",
		unclearInstruction("If there's no specific manual or documentation, or the command is unclear", explanationFollowUp),
		"Description: "+description,
	)
}

// ScriptGeneration renders a request whose answer starts with a filename line followed by the script.
func ScriptGeneration(task string) Request {
	return newRequest(KindScriptGeneration,
		"Create a filename and a corresponding script for this task: "+task,
		"Respond only with the name of the file and the code of the script.",
		"The first line of your response should contain only the filename and nothing else.",
		"Starting from the second line, provide the script code and nothing else.",
		unclearInstruction("If you cannot generate a script", "an explanation or suggestions related to the task"),
	)
}

// CodeSnippet renders a request for a commented code snippet without prose.
func CodeSnippet(task string) Request {
	return newRequest(KindCodeSnippet,
		"Generate a very short and concise code snippet for the following task: "+task,
		"Respond only with the code snippet. Add comments within the code to explain key lines.",
		"I do not want an explanation of the code. I only want the code snippet.",
		"Be concise and respond with the most advanced and elegant way of writing the code, following the clean code, KISS, YAGNI, DRY, and SOLID principles.",
		unclearInstruction("If you cannot generate a snippet", "an explanation or suggestions related to the task"),
	)
}

// BriefAnswer renders a request for a minimal answer to a software engineering question.
func BriefAnswer(question string) Request {
	return newRequest(KindBriefAnswer,
		"Respond as a software engineering and programming expert with a concise, precise, and extremely brief answer.",
		unclearInstruction(notSoftwareCondition, clarificationFollowUp),
		"Otherwise, provide a direct answer without additional explanations or details.",
		"Question: "+question,
	)
}

// DetailedAnswer renders a follow-up request that elaborates on a brief answer.
func DetailedAnswer(question string, briefAnswer string) Request {
	return newRequest(KindDetailedAnswer,
		"Respond as a software engineering and programming expert. Here is a software engineering question and its brief answer.",
		"Please provide more detailed information on this topic, in the limit of a paragraph or two maximum.",
		unclearInstruction(notSoftwareCondition, clarificationFollowUp),
		"Question: "+question,
		"Initial Answer: "+briefAnswer,
	)
}

// reviewAreas are the fixed feedback categories of a code review.
var reviewAreas = []string{
	"Code Quality: Evaluate error handling, efficiency, scalability, and potential bugs or security vulnerabilities.",
	"Coding Style: Assess adherence to best practices, consistency, and the principles of clean code and clean architecture.",
	"SOLID and DRY Principles: Check for conformity to SOLID and DRY principles.",
	"Readability and Maintainability: Analyze the clarity of code structure and comments.",
	"Refactoring Needs: Suggest areas where the code could benefit from refactoring.",
	"Unit Testing: Evaluate the existing unit tests and suggest improvements or additional tests needed.",
}

// CodeReview renders a request for structured feedback on a diff.
func CodeReview(diff string) Request {
	lines := []string{
		"As a seasoned expert in software engineering and programming, conduct a thorough review of the following code changes.",
		"Focus on providing detailed feedback in the following areas:",
	}
	for areaIndex, area := range reviewAreas {
		lines = append(lines, fmt.Sprintf("%d. %s", areaIndex+1, area))
	}
	lines = append(lines,
		unclearInstruction("If the changes are empty or cannot be reviewed", clarificationFollowUp),
		"",
		"Code Changes:",
		diff,
	)
	return newRequest(KindCodeReview, lines...)
}

// DebugAssistance renders a request for a root-cause hypothesis given an error and aggregated project files.
func DebugAssistance(errorDescription string, projectContext string) Request {
	return newRequest(KindDebugAssistance,
		"I need a concise and brief explanation for debugging a coding issue. Here's the error encountered and the contents of the project files.",
		contextFormatLine,
		"Error encountered: "+errorDescription,
		"Project Files:",
		projectContext,
		unclearInstruction(notSoftwareCondition, clarificationFollowUp),
		"Otherwise, please provide a direct and succinct suggestion for identifying the cause of the error and how to fix it.",
	)
}

// DevelopmentPlan renders a request for an actionable feature plan given aggregated project files.
func DevelopmentPlan(feature string, projectContext string) Request {
	return newRequest(KindDevelopmentPlan,
		"I need a development plan and code changes for a new feature in a coding project.",
		"Feature description: "+feature,
		"Current Project Files:",
		contextFormatLine,
		projectContext,
		unclearInstruction(notSoftwareCondition, clarificationFollowUp),
		"Otherwise please provide a concise and actionable plan for developing this feature, including any necessary changes or additions to the code.",
	)
}
