package publisher

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	defaultNotionBaseURL = "https://api.notion.com"
	notionVersion        = "2022-06-28"
	notionBlockLimit     = 2000
)

type NotionConfig struct {
	APIKey     string
	DatabaseID string
	BaseURL    string
}

// NotionClient creates one page per weekly report in the configured
// database.
type NotionClient struct {
	cfg        NotionConfig
	httpClient *http.Client
	log        *zap.Logger
}

func NewNotionClient(cfg NotionConfig, log *zap.Logger) *NotionClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultNotionBaseURL
	}
	return &NotionClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log.Named("publisher.notion"),
	}
}

// Enabled reports whether credentials are configured. Publishing is skipped
// with a warning when they are not.
func (c *NotionClient) Enabled() bool {
	return c.cfg.APIKey != "" && c.cfg.DatabaseID != ""
}

type notionText struct {
	Content string `json:"content"`
}

type notionRichText struct {
	Type string     `json:"type"`
	Text notionText `json:"text"`
}

type notionParagraph struct {
	RichText []notionRichText `json:"rich_text"`
}

type notionBlock struct {
	Object    string           `json:"object"`
	Type      string           `json:"type"`
	Paragraph *notionParagraph `json:"paragraph,omitempty"`
}

// CreatePage publishes a titled markdown body as a database page.
func (c *NotionClient) CreatePage(ctx context.Context, title, body string) error {
	payload := map[string]interface{}{
		"parent": map[string]string{"database_id": c.cfg.DatabaseID},
		"properties": map[string]interface{}{
			"Name": map[string]interface{}{
				"title": []notionRichText{{Type: "text", Text: notionText{Content: title}}},
			},
		},
		"children": paragraphBlocks(body),
	}
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.BaseURL+"/v1/pages", bytes.NewReader(payloadJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Notion-Version", notionVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion create page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notion api: status %d: %s", resp.StatusCode, string(respBody))
	}

	c.log.Info("notion page created", zap.String("title", title))
	return nil
}

// paragraphBlocks splits text into paragraph blocks, respecting the API's
// per-block rich-text length limit. Splits never land inside a multibyte
// character.
func paragraphBlocks(text string) []notionBlock {
	var blocks []notionBlock
	for len(text) > 0 {
		chunk := text
		if len(chunk) > notionBlockLimit {
			cut := notionBlockLimit
			for cut > 0 && !utf8.RuneStart(text[cut]) {
				cut--
			}
			chunk = text[:cut]
		}
		text = text[len(chunk):]
		blocks = append(blocks, notionBlock{
			Object: "block",
			Type:   "paragraph",
			Paragraph: &notionParagraph{
				RichText: []notionRichText{{Type: "text", Text: notionText{Content: chunk}}},
			},
		})
	}
	return blocks
}
