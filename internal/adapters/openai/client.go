// Package openai provides an adapter for the OpenAI chat completion
// service. It implements both completion ports: compressing free text
// into a search phrase, and explaining why a picked song fits.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-3.5-turbo"

	// defaultResponseMarker is a metadata artifact some completion
	// responses leak after the content; everything from the first
	// occurrence on is stripped before display.
	defaultResponseMarker = "additional_kwargs"

	completionTemperature = 0.5
)

const (
	extractPromptFmt = "Analyze the input that the user gives to create a music recommendation that follows the prompt and return a short phrase or keywords suitable for searching: %s"
	explainPromptFmt = "In one sentence, explain why the song '%s' by %s fits the prompt '%s'. Focus on musical style/genre."
)

// Config carries the completion service settings.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	ResponseMarker string
}

// Client calls the chat completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var (
	_ ports.PhraseExtractor = (*Client)(nil)
	_ ports.Explainer       = (*Client)(nil)
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient constructs a Client, filling unset config fields with defaults.
func NewClient(cfg Config) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.ResponseMarker == "" {
		cfg.ResponseMarker = defaultResponseMarker
	}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ExtractPhrase compresses free-form text into a short, lowercased search
// phrase.
func (c *Client) ExtractPhrase(ctx context.Context, freeText string) (string, error) {
	content, err := c.complete(ctx, fmt.Sprintf(extractPromptFmt, freeText))
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(content)), nil
}

// ExplainPick produces a one-sentence rationale for an accepted song.
func (c *Client) ExplainPick(ctx context.Context, phrase, title, artist string) (string, error) {
	content, err := c.complete(ctx, fmt.Sprintf(explainPromptFmt, title, artist, phrase))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(stripMarker(content, c.cfg.ResponseMarker)), nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model:       c.cfg.Model,
		Temperature: completionTemperature,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("openai: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("openai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("openai: unexpected status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("openai: decode response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("openai: empty response")
	}

	return parsed.Choices[0].Message.Content, nil
}

// stripMarker drops everything from the first occurrence of marker on.
func stripMarker(s, marker string) string {
	if marker == "" {
		return s
	}
	if i := strings.Index(s, marker); i >= 0 {
		return s[:i]
	}
	return s
}
