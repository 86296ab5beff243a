package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"academic-integrity-simulator/internal/model"
)

// OpenAIClient talks to any OpenAI-compatible /chat/completions endpoint.
type OpenAIClient struct {
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	logger     *zap.Logger
}

func NewOpenAIClient(baseURL, model string, timeoutSec int, logger *zap.Logger) *OpenAIClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAIClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		HTTPClient: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		logger: logger,
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	// The whole prompt goes out as a single user message, default decoding.
	payload := model.AIChatRequest{
		Model: c.Model,
		Messages: []model.Message{
			{Role: "user", Content: req.Prompt},
		},
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encoding chat request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("building chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)

	c.logger.Debug("sending completion request",
		zap.String("backend", c.Name()),
		zap.String("model", c.Model),
		zap.Int("prompt_bytes", len(req.Prompt)),
	)

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading chat response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyStatus(resp.StatusCode, resp.Status, errorMessage(bodyBytes))
	}

	var aiResponse model.AIChatResponse
	if err := json.Unmarshal(bodyBytes, &aiResponse); err != nil {
		c.logger.Warn("could not decode chat response", zap.ByteString("body", bodyBytes), zap.Error(err))
		return "", fmt.Errorf("decoding chat response: %w", err)
	}

	if len(aiResponse.Choices) == 0 {
		c.logger.Debug("chat response had no choices", zap.ByteString("body", bodyBytes))
		return "", nil
	}

	content := aiResponse.Choices[0].Message.Content
	c.logger.Debug("received completion", zap.String("backend", c.Name()), zap.Int("completion_bytes", len(content)))
	return content, nil
}

func errorMessage(body []byte) string {
	var errResp model.AIErrorResponse
	if json.Unmarshal(body, &errResp) == nil && errResp.Error.Message != "" {
		return errResp.Error.Message
	}
	return strings.TrimSpace(string(body))
}

// classifyStatus maps an HTTP failure status onto the backend error classes.
func classifyStatus(code int, status, message string) error {
	detail := status
	if message != "" {
		detail = fmt.Sprintf("%s: %s", status, message)
	}

	switch code {
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w (%s)", ErrRateLimited, detail)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w (%s)", ErrUnauthorized, detail)
	default:
		return fmt.Errorf("completion endpoint returned error status: %s", detail)
	}
}
