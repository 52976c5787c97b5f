package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"pantry-chef/internal/infrastructure/config"
	"pantry-chef/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Client OpenAI 相容的 chat completions 客戶端
type Client struct {
	config config.LLMConfig
	client *resty.Client
}

// chatRequest chat completions 請求體
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// chatResponse chat completions 回應
type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
	Usage Usage `json:"usage"`
}

// apiError 服務端錯誤格式
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// NewProvider 依設定選擇生成能力；未設定 API Key 時回傳 nil，呼叫端改用固定範本
func NewProvider(cfg config.LLMConfig) Provider {
	if !cfg.Enabled() {
		return nil
	}
	return NewClient(cfg)
}

// NewClient 創建客戶端
func NewClient(cfg config.LLMConfig) *Client {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetAuthToken(cfg.APIKey).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("X-Title", "Pantry Chef")

	return &Client{
		config: cfg,
		client: client,
	}
}

// Model 目前使用的模型名稱
func (c *Client) Model() string {
	return c.config.Model
}

// Complete 發送單次請求，不重試
func (c *Client) Complete(ctx context.Context, req *Request) (*Response, error) {
	body := chatRequest{
		Model: c.config.Model,
		Messages: []Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: req.Temperature,
		MaxTokens:   c.config.MaxTokens,
	}

	common.LogDebug("Sending request to LLM",
		zap.String("model", body.Model),
		zap.Float64("temperature", body.Temperature),
		zap.Int("prompt_length", len(req.User)),
	)

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		Post("/chat/completions")
	if err != nil {
		common.LogLLMCall(body.Model, time.Since(start), err)
		return nil, fmt.Errorf("failed to send request to LLM: %w", err)
	}

	if resp.IsError() {
		err := fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode(), errorMessage(resp.Body()))
		common.LogLLMCall(body.Model, time.Since(start), err)
		return nil, err
	}

	var result chatResponse
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		common.LogLLMCall(body.Model, time.Since(start), err)
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	if len(result.Choices) == 0 {
		err := fmt.Errorf("no choices in LLM response")
		common.LogLLMCall(body.Model, time.Since(start), err)
		return nil, err
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		err := fmt.Errorf("empty content in LLM response")
		common.LogLLMCall(body.Model, time.Since(start), err)
		return nil, err
	}

	common.LogLLMCall(body.Model, time.Since(start), nil)

	model := result.Model
	if model == "" {
		model = body.Model
	}
	return &Response{
		Content: content,
		Model:   model,
		Usage:   result.Usage,
	}, nil
}

// errorMessage 從錯誤回應取出可讀訊息，過長時截斷
func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	msg := strings.TrimSpace(string(body))
	if len(msg) > 200 {
		msg = msg[:200] + "..."
	}
	return msg
}
