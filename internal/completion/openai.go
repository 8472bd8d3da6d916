package completion

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/edgard/commerce-agent/internal/config"
)

type openaiClient struct {
	api         *openai.Client
	log         *slog.Logger
	model       string
	temperature float32
	timeout     time.Duration
}

func newOpenAIClient(cfg config.AIConfig, log *slog.Logger) *openaiClient {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	log.Info("OpenAI client initialized successfully", "model", cfg.Model)
	return &openaiClient{
		api:         openai.NewClientWithConfig(clientCfg),
		log:         log,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
	}
}

func (c *openaiClient) Complete(ctx context.Context, systemPrompt, userMessage string) Result {
	c.log.DebugContext(ctx, "Requesting text completion", "message_length", len(userMessage))

	var messages []openai.ChatCompletionMessage
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: userMessage})

	return c.create(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	})
}

func (c *openaiClient) CompleteWithImage(ctx context.Context, instruction string, image ImageRef, maxOutputTokens int) Result {
	c.log.DebugContext(ctx, "Requesting image completion", "image_kind", image.Kind, "max_tokens", maxOutputTokens)

	return c.create(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: instruction},
					{Type: openai.ChatMessagePartTypeImageURL, ImageURL: &openai.ChatMessageImageURL{URL: image.URL()}},
				},
			},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: c.temperature,
	})
}

func (c *openaiClient) create(ctx context.Context, req openai.ChatCompletionRequest) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		c.log.ErrorContext(ctx, "OpenAI API call failed", "error", err, "duration", time.Since(startTime))
		return Failure(fmt.Errorf("openai API call failed: %w", err))
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.log.WarnContext(ctx, "OpenAI response missing choices or content", "choices", len(resp.Choices))
		return Failure(ErrEmptyCompletion)
	}

	c.log.DebugContext(ctx, "OpenAI completion received",
		"duration", time.Since(startTime),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens)
	return Success(resp.Choices[0].Message.Content)
}
