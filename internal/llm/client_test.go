package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultGeminiConfig(t *testing.T) {
	cfg := DefaultGeminiConfig("key")
	assert.Equal(t, "key", cfg.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.Model)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
}

func TestNewGeminiClientRequiresKey(t *testing.T) {
	_, err := NewGeminiClient("")
	assert.Error(t, err)
}

// mockClient verifies the Client interface is satisfiable by test doubles the
// way pipeline tests use them.
type mockClient struct {
	completeFunc func(ctx context.Context, prompt string) (string, error)
}

func (m *mockClient) Complete(ctx context.Context, prompt string) (string, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, prompt)
	}
	return "ok", nil
}

func (m *mockClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if m.completeFunc != nil {
		return m.completeFunc(ctx, userPrompt)
	}
	return "ok", nil
}

func TestClientInterface(t *testing.T) {
	var c Client = &mockClient{}
	out, err := c.Complete(context.Background(), "hello")
	assert.NoError(t, err)
	assert.Equal(t, "ok", out)
}
