package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"academic-integrity-simulator/internal/client"
)

const (
	DefaultRetryBackoff = 30 * time.Second
	DefaultMaxRetries   = 1
)

// CredentialSource yields the API key. It is consulted on every completion.
type CredentialSource interface {
	APIKey() (string, error)
}

// CredentialFunc adapts a plain function to CredentialSource.
type CredentialFunc func() (string, error)

func (f CredentialFunc) APIKey() (string, error) { return f() }

type CompletionService struct {
	backend     client.Backend
	credentials CredentialSource
	backoff     time.Duration
	maxRetries  uint64
	newBackoff  func() retry.Backoff
	logger      *zap.Logger
}

type CompletionOption func(*CompletionService)

// WithRetryPolicy sets the fixed wait before a rate-limited request is
// retried and how many retries are allowed.
func WithRetryPolicy(backoff time.Duration, maxRetries uint64) CompletionOption {
	return func(s *CompletionService) {
		s.backoff = backoff
		s.maxRetries = maxRetries
	}
}

func WithCompletionLogger(logger *zap.Logger) CompletionOption {
	return func(s *CompletionService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewCompletionService(backend client.Backend, credentials CredentialSource, opts ...CompletionOption) *CompletionService {
	s := &CompletionService{
		backend:     backend,
		credentials: credentials,
		backoff:     DefaultRetryBackoff,
		maxRetries:  DefaultMaxRetries,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	// NewConstant panics on a non-positive wait.
	if s.backoff <= 0 {
		s.backoff = time.Nanosecond
	}
	s.newBackoff = func() retry.Backoff {
		return retry.WithMaxRetries(s.maxRetries, retry.NewConstant(s.backoff))
	}
	return s
}

// Complete sends prompt to the backend and returns the completion text.
// A rate-limited request is retried after the fixed backoff; failures come
// back wrapped in ErrConfig, ErrUnrecoverable or ErrEmptyResponse.
func (s *CompletionService) Complete(ctx context.Context, prompt string) (string, error) {
	apiKey, err := s.credentials.APIKey()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfig, err)
	}
	if err := validateAPIKey(apiKey); err != nil {
		return "", fmt.Errorf("%w: %w", ErrConfig, err)
	}

	attempts := 0
	text, err := retry.DoValue(ctx, s.newBackoff(), func(ctx context.Context) (string, error) {
		attempts++
		text, err := s.backend.Generate(ctx, client.GenerateRequest{APIKey: apiKey, Prompt: prompt})
		if errors.Is(err, client.ErrRateLimited) {
			s.logger.Warn("completion rate limited",
				zap.Int("attempt", attempts),
				zap.Duration("backoff", s.backoff),
				zap.Error(err),
			)
			return "", retry.RetryableError(err)
		}
		return text, err
	})
	if err != nil {
		return "", s.classify(err, attempts)
	}

	if strings.TrimSpace(text) == "" {
		s.logger.Warn("completion returned no text", zap.Int("attempts", attempts))
		return "", ErrEmptyResponse
	}

	s.logger.Debug("completion succeeded", zap.Int("attempts", attempts), zap.Int("completion_bytes", len(text)))
	return text, nil
}

func (s *CompletionService) classify(err error, attempts int) error {
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %w", ErrUnrecoverable, err)
	case attempts > 1:
		s.logger.Error("completion failed after retry", zap.Int("attempts", attempts), zap.Error(err))
		return fmt.Errorf("%w: retry failed: %w", ErrUnrecoverable, err)
	case errors.Is(err, client.ErrUnauthorized):
		return fmt.Errorf("%w: %w", ErrConfig, err)
	default:
		s.logger.Error("completion failed", zap.Error(err))
		return fmt.Errorf("%w: %w", ErrUnrecoverable, err)
	}
}

func validateAPIKey(key string) error {
	switch {
	case key == "":
		return errors.New("API key is not set")
	case strings.ContainsAny(key, " \t\r\n"):
		return errors.New("API key contains whitespace")
	default:
		return nil
	}
}
