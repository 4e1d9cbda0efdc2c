// Package assistant runs one task per call: it renders the prompt, sends it to the completion
// service exactly once, and classifies the answer as unclear or resolved.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/hokuspokus/internal/credentials"
	"github.com/temirov/hokuspokus/internal/projectcontext"
	"github.com/temirov/hokuspokus/internal/prompts"
	"github.com/temirov/hokuspokus/internal/response"
	"github.com/temirov/hokuspokus/internal/utils"
)

// ErrEmptyCompletion reports that the completion service answered with nothing but whitespace.
var ErrEmptyCompletion = errors.New("completion service returned an empty answer")

// Completer sends a prompt to the completion service.
type Completer interface {
	Complete(ctx context.Context, promptText string, apiKey string) (string, error)
}

// Config holds the collaborator settings of a Service.
type Config struct {
	// WorkingDirectory is walked when Debug or PlanDevelopment receive no explicit files.
	WorkingDirectory string
	// Context controls project context aggregation.
	Context projectcontext.Options
}

// Service is the task orchestrator. It holds no state between calls.
type Service struct {
	completer   Completer
	credentials credentials.Reader
	config      Config
	logger      *zap.Logger
}

// NewService wires a Service. A nil logger disables logging.
func NewService(completer Completer, credentialsReader credentials.Reader, config Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.WorkingDirectory == "" {
		config.WorkingDirectory = "."
	}
	return &Service{completer: completer, credentials: credentialsReader, config: config, logger: logger}
}

// TranslateToCommand turns intent into a single shell command. Markdown code fences around the command are removed.
func (service *Service) TranslateToCommand(ctx context.Context, intent string, tool string) (response.Outcome[string], error) {
	outcome, err := service.runText(ctx, func() prompts.Request { return prompts.TranslateToCommand(intent, tool) })
	if err != nil {
		return response.Outcome[string]{}, err
	}
	command, resolved := outcome.Value()
	if !resolved {
		return outcome, nil
	}
	command = response.StripCodeFence(command)
	if command == "" {
		return response.Outcome[string]{}, fmt.Errorf("%s: %w", prompts.KindTranslateToCommand, ErrEmptyCompletion)
	}
	return response.ParseText(command), nil
}

// LookupManual returns the manual or documentation of the described command or tool.
func (service *Service) LookupManual(ctx context.Context, description string) (response.Outcome[string], error) {
	return service.runText(ctx, func() prompts.Request { return prompts.ManualLookup(description) })
}

// GenerateScript returns a script together with the filename the model proposed for it.
func (service *Service) GenerateScript(ctx context.Context, task string) (response.Outcome[response.Script], error) {
	apiKey, err := service.apiKey()
	if err != nil {
		return response.Outcome[response.Script]{}, err
	}
	raw, err := service.complete(ctx, prompts.ScriptGeneration(task), apiKey)
	if err != nil {
		return response.Outcome[response.Script]{}, err
	}
	return response.ParseScript(raw), nil
}

// GenerateSnippet returns a short commented code snippet.
func (service *Service) GenerateSnippet(ctx context.Context, task string) (response.Outcome[string], error) {
	return service.runText(ctx, func() prompts.Request { return prompts.CodeSnippet(task) })
}

// AnswerBriefly returns a minimal answer to a software engineering question.
func (service *Service) AnswerBriefly(ctx context.Context, question string) (response.Outcome[string], error) {
	return service.runText(ctx, func() prompts.Request { return prompts.BriefAnswer(question) })
}

// AnswerInDetail elaborates on briefAnswer, the answer previously given to question.
func (service *Service) AnswerInDetail(ctx context.Context, question string, briefAnswer string) (response.Outcome[string], error) {
	return service.runText(ctx, func() prompts.Request { return prompts.DetailedAnswer(question, briefAnswer) })
}

// ReviewCode returns structured review feedback on diff.
func (service *Service) ReviewCode(ctx context.Context, diff string) (response.Outcome[string], error) {
	return service.runText(ctx, func() prompts.Request { return prompts.CodeReview(diff) })
}

// Debug suggests the cause of errorDescription. The project context is built from filePaths,
// or from the working directory when filePaths is empty.
func (service *Service) Debug(ctx context.Context, errorDescription string, filePaths []string) (response.Outcome[string], error) {
	return service.runWithContext(ctx, filePaths, func(projectContext string) prompts.Request {
		return prompts.DebugAssistance(errorDescription, projectContext)
	})
}

// PlanDevelopment returns a plan for feature. Context selection follows Debug.
func (service *Service) PlanDevelopment(ctx context.Context, feature string, filePaths []string) (response.Outcome[string], error) {
	return service.runWithContext(ctx, filePaths, func(projectContext string) prompts.Request {
		return prompts.DevelopmentPlan(feature, projectContext)
	})
}

func (service *Service) runText(ctx context.Context, build func() prompts.Request) (response.Outcome[string], error) {
	apiKey, err := service.apiKey()
	if err != nil {
		return response.Outcome[string]{}, err
	}
	raw, err := service.complete(ctx, build(), apiKey)
	if err != nil {
		return response.Outcome[string]{}, err
	}
	return response.ParseText(raw), nil
}

func (service *Service) runWithContext(ctx context.Context, filePaths []string, build func(string) prompts.Request) (response.Outcome[string], error) {
	apiKey, err := service.apiKey()
	if err != nil {
		return response.Outcome[string]{}, err
	}
	projectContext, err := projectcontext.Collect(ctx, service.config.WorkingDirectory, filePaths, service.config.Context)
	if err != nil {
		return response.Outcome[string]{}, fmt.Errorf("collect project context: %w", err)
	}
	service.logger.Debug("project context collected",
		zap.Int("files", len(projectContext.Entries)),
		zap.String("size", utils.FormatFileSize(projectContext.Bytes())),
		zap.Int("tokens", projectContext.Tokens),
	)
	raw, err := service.complete(ctx, build(projectContext.String()), apiKey)
	if err != nil {
		return response.Outcome[string]{}, err
	}
	return response.ParseText(raw), nil
}

func (service *Service) apiKey() (string, error) {
	loaded, err := service.credentials.Read()
	if err != nil {
		return "", err
	}
	return loaded.APIKey, nil
}

func (service *Service) complete(ctx context.Context, request prompts.Request, apiKey string) (string, error) {
	service.logger.Debug("sending task",
		zap.String("kind", string(request.Kind())),
		zap.Int("prompt_length", len(request.Text())),
	)
	raw, err := service.completer.Complete(ctx, request.Text(), apiKey)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%s: %w", request.Kind(), ErrEmptyCompletion)
	}
	service.logger.Debug("task answered",
		zap.String("kind", string(request.Kind())),
		zap.Bool("unclear", response.IsUnclear(raw)),
	)
	return raw, nil
}
