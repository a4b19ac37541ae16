// Package aiprovider генерирует текст через OpenAI-совместимый API.
package aiprovider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/magabrotheeeer/grant-matching/internal/config"
)

// ErrEmptyCompletion — провайдер вернул ответ без текста.
var ErrEmptyCompletion = errors.New("empty completion")

// Client вызывает chat completions. Таймауты задаются HTTP клиентом go-openai.
type Client struct {
	api       *openai.Client
	model     string
	maxTokens int
}

// New создаёт клиента по конфигурации. Пустой BaseURL означает api.openai.com.
func New(cfg config.AI) *Client {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}
	return &Client{
		api:       openai.NewClientWithConfig(oc),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}
}

// Generate возвращает ответ модели на prompt с системной инструкцией system.
func (c *Client) Generate(ctx context.Context, system, prompt string) (string, error) {
	const op = "aiprovider.Generate"

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyCompletion)
	}
	return text, nil
}
