package completion

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"google.golang.org/genai"

	"github.com/edgard/commerce-agent/internal/config"
)

const maxImageDownloadSize = 10 * 1024 * 1024

type geminiClient struct {
	genaiClient   *genai.Client
	httpClient    *http.Client
	log           *slog.Logger
	contentConfig *genai.GenerateContentConfig
	modelName     string
	timeout       time.Duration
}

func newGeminiClient(ctx context.Context, cfg config.AIConfig, log *slog.Logger) (*geminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	gi, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	temperature := cfg.Temperature
	log.Info("Gemini client initialized successfully", "model", cfg.Model)
	return &geminiClient{
		genaiClient:   gi,
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		log:           log,
		contentConfig: &genai.GenerateContentConfig{Temperature: &temperature},
		modelName:     cfg.Model,
		timeout:       cfg.Timeout,
	}, nil
}

func (c *geminiClient) Complete(ctx context.Context, systemPrompt, userMessage string) Result {
	c.log.DebugContext(ctx, "Requesting text completion", "message_length", len(userMessage))

	copyCfg := *c.contentConfig
	if systemPrompt != "" {
		copyCfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(userMessage, genai.RoleUser)}
	return c.generate(ctx, contents, &copyCfg)
}

func (c *geminiClient) CompleteWithImage(ctx context.Context, instruction string, image ImageRef, maxOutputTokens int) Result {
	c.log.DebugContext(ctx, "Requesting image completion", "image_kind", image.Kind, "max_tokens", maxOutputTokens)

	data, mimeType, err := c.imageBytes(ctx, image)
	if err != nil {
		c.log.ErrorContext(ctx, "Failed to prepare image for Gemini", "error", err, "image_kind", image.Kind)
		return Failure(err)
	}

	copyCfg := *c.contentConfig
	//nolint:gosec // token limits are small positive numbers
	copyCfg.MaxOutputTokens = int32(maxOutputTokens)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(instruction),
			genai.NewPartFromBytes(data, mimeType),
		}, genai.RoleUser),
	}
	return c.generate(ctx, contents, &copyCfg)
}

// imageBytes resolves an image reference into raw bytes. The Gemini API only
// accepts inline data or uploaded files, so URL images are fetched here.
func (c *geminiClient) imageBytes(ctx context.Context, image ImageRef) ([]byte, string, error) {
	if image.Kind == ImageInlineBase64 {
		data, err := base64.StdEncoding.DecodeString(image.Value)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 image payload: %w", err)
		}
		return data, InlineMediaType, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, image.Value, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create image request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code %d downloading image", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageDownloadSize))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("received empty image data")
	}
	return data, http.DetectContentType(data), nil
}

func (c *geminiClient) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) Result {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	startTime := time.Now()
	resp, err := c.genaiClient.Models.GenerateContent(ctx, c.modelName, contents, cfg)
	if err != nil {
		c.log.ErrorContext(ctx, "Gemini API call failed", "error", err, "duration", time.Since(startTime))
		return Failure(fmt.Errorf("gemini API call failed: %w", err))
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != genai.BlockedReasonUnspecified {
		reasonMsg := fmt.Sprintf("%v", resp.PromptFeedback.BlockReason)
		if resp.PromptFeedback.BlockReasonMessage != "" {
			reasonMsg = resp.PromptFeedback.BlockReasonMessage
		}
		c.log.ErrorContext(ctx, "Gemini request blocked", "reason", reasonMsg)
		return Failure(fmt.Errorf("gemini request blocked by safety filter: %s", reasonMsg))
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		finishReason := "unknown"
		if len(resp.Candidates) > 0 && resp.Candidates[0].FinishReason != genai.FinishReasonUnspecified {
			finishReason = fmt.Sprintf("%v", resp.Candidates[0].FinishReason)
		}
		c.log.WarnContext(ctx, "Gemini response missing candidates or content", "finish_reason", finishReason)
		return Failure(fmt.Errorf("%w: finish reason %s", ErrEmptyCompletion, finishReason))
	}

	text := resp.Text()
	if text == "" {
		return Failure(ErrEmptyCompletion)
	}

	c.log.DebugContext(ctx, "Gemini completion received", "duration", time.Since(startTime))
	return Success(text)
}
