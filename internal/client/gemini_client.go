package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const DefaultGeminiModel = "gemini-1.5-pro-latest"

// GeminiClient generates completions with the Gemini API. A genai client is
// built per call because the credential is re-read for every completion.
type GeminiClient struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewGeminiClient(baseURL, model string, timeoutSec int, logger *zap.Logger) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiClient{
		BaseURL: baseURL,
		Model:   model,
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		logger: logger,
	}
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      req.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  c.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: c.BaseURL},
	})
	if err != nil {
		return "", fmt.Errorf("failed to create GenAI client: %w", err)
	}

	c.logger.Debug("sending completion request",
		zap.String("backend", c.Name()),
		zap.String("model", c.Model),
		zap.Int("prompt_bytes", len(req.Prompt)),
	)

	result, err := client.Models.GenerateContent(ctx, c.Model, genai.Text(req.Prompt), nil)
	if err != nil {
		return "", classifyGenAIError(err)
	}

	text := result.Text()
	c.logger.Debug("received completion", zap.String("backend", c.Name()), zap.Int("completion_bytes", len(text)))
	return text, nil
}

func classifyGenAIError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return fmt.Errorf("GenAI generate failed: %w", err)
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w (%s)", ErrRateLimited, apiErr.Message)
	case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden ||
		apiErr.Status == "UNAUTHENTICATED" || apiErr.Status == "PERMISSION_DENIED":
		return fmt.Errorf("%w (%s)", ErrUnauthorized, apiErr.Message)
	case apiErr.Code == http.StatusBadRequest && apiErr.Status == "INVALID_ARGUMENT" && isKeyInvalid(apiErr):
		return fmt.Errorf("%w (%s)", ErrUnauthorized, apiErr.Message)
	default:
		return fmt.Errorf("GenAI generate failed: %w", err)
	}
}

// Gemini answers a bad API key with 400 INVALID_ARGUMENT and reason
// API_KEY_INVALID in the error details.
func isKeyInvalid(apiErr genai.APIError) bool {
	for _, d := range apiErr.Details {
		if reason, ok := d["reason"].(string); ok && reason == "API_KEY_INVALID" {
			return true
		}
	}
	return false
}
