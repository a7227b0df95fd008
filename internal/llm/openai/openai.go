package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/trace"
)

// Base URLs of OpenAI-compatible providers.
const (
	GroqBaseURL   = "https://api.groq.com/openai/v1/"
	GeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"
)

// BaseURLFor returns the preset endpoint of provider, or "" for OpenAI itself.
func BaseURLFor(provider string) string {
	switch strings.ToUpper(provider) {
	case "GROQ":
		return GroqBaseURL
	case "GEMINI":
		return GeminiBaseURL
	default:
		return ""
	}
}

// Client is a long-lived chat completion client shared by every role that
// points at the same endpoint and key.
type Client struct {
	client *openai.Client
}

// NewClient builds the SDK client once. SDK retries are disabled: a failed
// call degrades the perspective instead of being retried.
func NewClient(apiKey, baseURL string, opts ...option.RequestOption) *Client {
	all := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	client := openai.NewClient(all...)
	return &Client{client: &client}
}

// Backend binds a Client to a model name.
type Backend struct {
	client *Client
	model  string
}

var _ interfaces.Backend = (*Backend)(nil)

func NewBackend(client *Client, model string) *Backend {
	return &Backend{client: client, model: model}
}

func (b *Backend) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "openai-chat-completion")
	defer span.End()

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}
	messages = append(messages, openai.UserMessage(req.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(b.model),
		Messages: messages,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature > 0 {
		params.Temperature = openai.Float(req.Temperature)
	}
	if req.JSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := b.client.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
