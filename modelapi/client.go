// Package modelapi implements the chat-completion collaborator over any
// OpenAI-compatible endpoint. Credentials arrive per call as a
// spec.ModelConfig, so one Client serves every device and skill.
package modelapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/jieyou-io/phone-agent-xiaozhi/spec"
)

const defaultTimeout = 60 * time.Second

// Temperature is pinned low so action output stays near-deterministic.
const temperature = 0.2

type Client struct {
	logger  *slog.Logger
	timeout time.Duration
}

type Option func(*Client)

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTimeout sets the per-call request timeout. A timeout surfaces as an
// ordinary network failure, not a distinct error kind.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func New(opts ...Option) *Client {
	c := &Client{
		logger:  slog.Default(),
		timeout: defaultTimeout,
	}
	for _, o := range opts {
		if o != nil {
			o(c)
		}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Complete implements spec.ChatCompleter.
func (c *Client) Complete(
	ctx context.Context,
	cfg spec.ModelConfig,
	messages []spec.Message,
) (string, error) {
	if !cfg.Usable() {
		return "", spec.ErrInvalidModelConfig
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(NormalizeBaseURL(cfg.BaseURL)),
		option.WithRequestTimeout(c.timeout),
	)

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(cfg.Model),
		Messages:    convertMessages(messages),
		Temperature: openai.Float(temperature),
	}

	c.logger.Debug("chat completion request",
		"model", cfg.Model,
		"base_url", cfg.BaseURL,
		"messages", len(messages),
	)

	resp, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", spec.ErrNoModelContent
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", spec.ErrNoModelContent
	}
	return content, nil
}

func convertMessages(messages []spec.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case spec.RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case spec.RoleAssistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			if m.ImageB64 != "" {
				parts := []openai.ChatCompletionContentPartUnionParam{
					openai.TextContentPart(m.Content),
					openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
						URL: "data:image/jpeg;base64," + m.ImageB64,
					}),
				}
				out = append(out, openai.UserMessage(parts))
				continue
			}
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// NormalizeBaseURL makes a caller-supplied base URL usable as an
// OpenAI-compatible endpoint root: "/v1" is appended unless already present.
// open.bigmodel.cn exposes chat/completions directly under its base path and
// is left as-is.
func NormalizeBaseURL(base string) string {
	if strings.Contains(base, "open.bigmodel.cn") {
		return strings.TrimRight(base, "/") + "/"
	}
	if strings.HasSuffix(base, "/v1") {
		return base + "/"
	}
	if strings.HasSuffix(base, "/") {
		return base + "v1/"
	}
	return base + "/v1/"
}
