// Package summarizer turns a week of commit activity into prose via the
// Anthropic messages API and reports the token usage of every call so the
// ledger can meter it.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultBaseURL   = "https://api.anthropic.com"
	defaultModel     = "claude-3-5-haiku-20241022"
	defaultMaxTokens = 1024
	apiVersion       = "2023-06-01"
)

type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log.Named("summarizer.client"),
	}
}

// TokenUsage identifies one metered API call. RequestID is the provider's
// message id when available, so a retried call carries the same key.
type TokenUsage struct {
	RequestID    string
	Model        string
	InputTokens  int64
	OutputTokens int64
}

// Summary is the model's text plus the usage that produced it.
type Summary struct {
	Text  string
	Usage TokenUsage
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int64 `json:"input_tokens"`
		OutputTokens int64 `json:"output_tokens"`
	} `json:"usage"`
}

// Summarize sends the prompt and returns the generated summary with its
// token usage.
func (c *Client) Summarize(ctx context.Context, prompt string) (Summary, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return Summary{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return Summary{}, err
	}
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Summary{}, fmt.Errorf("messages request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Summary{}, err
	}
	if resp.StatusCode != http.StatusOK {
		return Summary{}, fmt.Errorf("messages api: status %d: %s", resp.StatusCode, string(body))
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Summary{}, fmt.Errorf("decode messages response: %w", err)
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}

	requestID := parsed.ID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	model := parsed.Model
	if model == "" {
		model = c.cfg.Model
	}

	c.log.Info("summary generated",
		zap.String("request_id", requestID),
		zap.String("model", model),
		zap.Int64("input_tokens", parsed.Usage.InputTokens),
		zap.Int64("output_tokens", parsed.Usage.OutputTokens),
	)
	return Summary{
		Text: text,
		Usage: TokenUsage{
			RequestID:    requestID,
			Model:        model,
			InputTokens:  parsed.Usage.InputTokens,
			OutputTokens: parsed.Usage.OutputTokens,
		},
	}, nil
}
