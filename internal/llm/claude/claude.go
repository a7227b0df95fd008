package claude

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/trace"
)

const defaultMaxTokens = 1024

// Client wraps one Anthropic SDK client for the whole process.
type Client struct {
	client *anthropic.Client
}

func NewClient(apiKey, baseURL string, opts ...option.RequestOption) *Client {
	all := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		all = append(all, option.WithBaseURL(baseURL))
	}
	all = append(all, opts...)
	client := anthropic.NewClient(all...)
	return &Client{client: &client}
}

// Backend implements interfaces.Backend over the Messages API.
type Backend struct {
	client *Client
	model  string
}

var _ interfaces.Backend = (*Backend)(nil)

func NewBackend(client *Client, model string) *Backend {
	return &Backend{client: client, model: model}
}

func (b *Backend) Generate(ctx context.Context, req interfaces.GenerateRequest) (string, error) {
	ctx, span := trace.StartSpan(ctx, "claude-messages")
	defer span.End()

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	system := req.System
	if req.JSON {
		system = strings.TrimSpace(system + "\nRespond ONLY with a single JSON object.")
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}

	resp, err := b.client.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		sb.WriteString(block.Text)
	}
	if sb.Len() == 0 {
		return "", errors.New("no content")
	}
	return sb.String(), nil
}
