package llm

import (
	"context"
)

// Message 表示與模型的對話消息
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request 表示發送到文字生成服務的請求
type Request struct {
	System      string
	User        string
	Temperature float64
}

// Response 表示從文字生成服務收到的響應
type Response struct {
	Content string
	Model   string
	Usage   Usage
}

// Usage 使用量
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Provider 定義文字生成能力介面
type Provider interface {
	// Complete 發送一次請求並回傳模型的文字回覆
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Model 目前使用的模型名稱
	Model() string
}
