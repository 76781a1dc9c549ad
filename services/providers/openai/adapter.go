package openai

import (
	"context"

	openaisdk "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/verdantweb/ai-router/models"
	"github.com/verdantweb/ai-router/services/providers"
)

// Adapter calls the OpenAI API through the official SDK
type Adapter struct {
	extraOptions []option.RequestOption
}

// NewAdapter creates a new OpenAI adapter. Extra request options are
// applied to every call, which tests use to point the SDK at a local
// server.
func NewAdapter(opts ...option.RequestOption) *Adapter {
	return &Adapter{extraOptions: opts}
}

// ID returns the registry id this adapter serves
func (a *Adapter) ID() string {
	return "openai"
}

// Generate performs one chat completion call
func (a *Adapter) Generate(ctx context.Context, provider models.ProviderConfig, req providers.Request) (string, error) {
	apiKey, err := providers.Credential(provider)
	if err != nil {
		return "", err
	}

	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if provider.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(provider.Endpoint))
	}
	opts = append(opts, a.extraOptions...)

	client := openaisdk.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openaisdk.ChatCompletionNewParams{
		Model: openaisdk.ChatModel(provider.Model),
		Messages: []openaisdk.ChatCompletionMessageParamUnion{
			openaisdk.UserMessage(req.Prompt),
		},
		MaxTokens:   openaisdk.Int(int64(req.MaxTokens)),
		Temperature: openaisdk.Float(req.Temperature),
	})
	if err != nil {
		return "", &providers.TransportError{Provider: a.ID(), Cause: err}
	}

	if len(resp.Choices) == 0 {
		return "", &providers.EmptyResponseError{Provider: a.ID()}
	}

	return providers.EnsureText(a.ID(), resp.Choices[0].Message.Content)
}
