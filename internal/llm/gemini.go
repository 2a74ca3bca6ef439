package llm

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/krishnaji/testmozart/internal/logging"
)

// GeminiConfig holds configuration for the Gemini client.
type GeminiConfig struct {
	APIKey      string
	Model       string
	Timeout     time.Duration
	Temperature float32
}

// DefaultGeminiConfig returns sensible defaults.
func DefaultGeminiConfig(apiKey string) GeminiConfig {
	return GeminiConfig{
		APIKey:      apiKey,
		Model:       "gemini-2.5-pro",
		Timeout:     2 * time.Minute,
		Temperature: 0.2,
	}
}

// GeminiClient implements Client on top of the Google GenAI SDK.
type GeminiClient struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature float32

	mu          sync.Mutex
	lastRequest time.Time
}

// NewGeminiClient creates a new Gemini client with default config.
func NewGeminiClient(apiKey string) (*GeminiClient, error) {
	return NewGeminiClientWithConfig(DefaultGeminiConfig(apiKey))
}

// NewGeminiClientWithConfig creates a new Gemini client with custom config.
func NewGeminiClientWithConfig(config GeminiConfig) (*GeminiClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	model := strings.TrimSpace(config.Model)
	if model == "" {
		model = "gemini-2.5-pro"
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: config.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		timeout:     timeout,
		temperature: config.Temperature,
	}, nil
}

// Model returns the configured model name.
func (c *GeminiClient) Model() string {
	return c.model
}

// Complete sends a single-turn prompt and returns the completion text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, "", prompt)
}

// CompleteWithSystem sends a prompt with a separate system instruction.
func (c *GeminiClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return c.generate(ctx, systemPrompt, userPrompt)
}

func (c *GeminiClient) generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if systemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(systemPrompt, genai.RoleUser)
	}

	c.mu.Lock()
	c.lastRequest = time.Now()
	c.mu.Unlock()

	start := time.Now()
	logging.LLMDebug("Gemini request: model=%s promptLen=%d", c.model, len(userPrompt))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(userPrompt), cfg)
	if err != nil {
		logging.LLM("Gemini request failed after %v: %v", time.Since(start), err)
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyCompletion
	}

	logging.LLMDebug("Gemini response: %d chars in %v", len(text), time.Since(start))
	return text, nil
}
