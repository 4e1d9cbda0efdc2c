// Package completion sends rendered prompts to an OpenAI-compatible chat completion endpoint.
package completion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = openai.GPT4o

// ErrEmptyResponse reports a successful response that carried no choices.
var ErrEmptyResponse = errors.New("completion response contains no choices")

// Config selects the model and endpoint.
type Config struct {
	Model       string
	Temperature float32
	// BaseURL points the client at an OpenAI-compatible endpoint. Empty means the public OpenAI API.
	BaseURL string
	// HTTPClient overrides the transport. Nil uses the library default.
	HTTPClient *http.Client
}

// Client sends one prompt per call as a single user message.
type Client struct {
	config Config
	logger *zap.Logger
}

// NewClient returns a Client. A nil logger disables logging.
func NewClient(config Config, logger *zap.Logger) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{config: config, logger: logger}
}

// Complete sends promptText and returns the first choice with surrounding whitespace removed.
// Transport and API failures are returned wrapped; *openai.APIError and *openai.RequestError stay reachable through errors.As.
func (client *Client) Complete(ctx context.Context, promptText string, apiKey string) (string, error) {
	clientConfig := openai.DefaultConfig(apiKey)
	if client.config.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(client.config.BaseURL, "/")
	}
	if client.config.HTTPClient != nil {
		clientConfig.HTTPClient = client.config.HTTPClient
	}
	apiClient := openai.NewClientWithConfig(clientConfig)

	request := openai.ChatCompletionRequest{
		Model:       client.config.Model,
		Temperature: client.config.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: promptText},
		},
	}
	client.logger.Debug("completion request",
		zap.String("model", request.Model),
		zap.Float32("temperature", request.Temperature),
		zap.Int("prompt_length", len(promptText)),
	)

	response, err := apiClient.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("chat completion with model %s: %w", request.Model, err)
	}
	if len(response.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	content := strings.TrimSpace(response.Choices[0].Message.Content)
	client.logger.Debug("completion response",
		zap.String("finish_reason", string(response.Choices[0].FinishReason)),
		zap.Int("total_tokens", response.Usage.TotalTokens),
		zap.Int("response_length", len(content)),
	)
	return content, nil
}
