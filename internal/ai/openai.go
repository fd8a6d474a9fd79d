package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-4"
	DefaultImageSize = "1024x1024"
)

// Config carries the static upstream parameters. Sampling values are fixed
// at startup and never user-controlled.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return errors.New("ai: api key is required")
	}
	if strings.TrimSpace(c.Model) == "" {
		return errors.New("ai: model is required")
	}
	if c.Timeout <= 0 {
		return errors.New("ai: timeout must be positive")
	}
	return nil
}

// OpenAIClient talks to the OpenAI-compatible completion and image
// generation endpoints over plain HTTP.
type OpenAIClient struct {
	cfg    Config
	client *http.Client
}

func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 90 * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &OpenAIClient{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

type chatCompletionReq struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type imageGenerationReq struct {
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, messages []Message) ([]byte, error) {
	body := chatCompletionReq{
		Model:       c.cfg.Model,
		Messages:    messages,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
	}
	return c.post(ctx, "/chat/completions", body)
}

func (c *OpenAIClient) GenerateImage(ctx context.Context, prompt string, n int, size string) ([]byte, error) {
	if n <= 0 {
		n = 1
	}
	if size == "" {
		size = DefaultImageSize
	}
	body := imageGenerationReq{
		Prompt:         prompt,
		N:              n,
		Size:           size,
		ResponseFormat: "url",
	}
	return c.post(ctx, "/images/generations", body)
}

// post serializes the payload, performs the bounded call and classifies the
// outcome. The raw body is returned untouched on success so callers can both
// re-serve it and ingest from it.
func (c *OpenAIClient) post(ctx context.Context, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("ai: encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("ai: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrAuthRejected
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = "no body"
		}
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: msg}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	return raw, nil
}
