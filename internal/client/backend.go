package client

import (
	"context"
	"errors"
)

//go:generate mockgen -destination=mock_backend.go -package=client . Backend

var (
	// ErrRateLimited reports that the endpoint rejected the request because
	// of request frequency or quota.
	ErrRateLimited = errors.New("request frequency is too fast")
	// ErrUnauthorized reports that the endpoint rejected the credential.
	ErrUnauthorized = errors.New("credential rejected by completion endpoint")
)

type GenerateRequest struct {
	APIKey string
	Prompt string
}

// Backend sends one prompt to a remote text-generation endpoint and returns
// the completion text. Implementations classify failures with ErrRateLimited
// and ErrUnauthorized; everything else is returned wrapped as-is.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}
