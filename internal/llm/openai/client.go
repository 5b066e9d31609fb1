package openai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"internship-ats/internal/llm"
)

const defaultModel = "gpt-4o-mini"

// Client implements llm.Client using OpenAI Chat Completions. Any
// OpenAI-compatible endpoint can be targeted through baseURL.
type Client struct {
	sdk     *sdk.Client
	model   string
	timeout time.Duration
}

// NewClient constructs a new OpenAI client.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		sdk:     sdk.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}, nil
}

// Complete sends prompt as a single user message and returns the raw reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.sdk.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Messages: sdk.F([]sdk.ChatCompletionMessageParamUnion{
			sdk.UserMessage(prompt),
		}),
		Model:       sdk.F(c.model),
		Temperature: sdk.F(0.0),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}
	log.Printf("llm response provider=openai model=%s prompt_tokens=%d completion_tokens=%d",
		c.model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	return resp.Choices[0].Message.Content, nil
}

var _ llm.Client = (*Client)(nil)
