package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

//go:generate mockgen -source=./llm.go -package=llmmocks -destination=./mocks/client.mock.go

// Client sends a rendered prompt to a generative-language endpoint and
// returns the raw response text.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ErrNotConfigured is returned by the placeholder client.
var ErrNotConfigured = errors.New("llm provider not configured")

// PlaceholderClient stands in when no provider credentials are configured.
type PlaceholderClient struct{}

// Complete returns ErrNotConfigured.
func (PlaceholderClient) Complete(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// PromptHash returns a stable fingerprint of a prompt for logs.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
