package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	config "github.com/DRSN-tech/storefront-backend/internal/cfg"
	"github.com/DRSN-tech/storefront-backend/internal/usecase"
	"github.com/DRSN-tech/storefront-backend/pkg/e"
	"github.com/DRSN-tech/storefront-backend/pkg/jitter"
	"github.com/DRSN-tech/storefront-backend/pkg/logger"
	openai "github.com/sashabaranov/go-openai"
)

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
)

// Client обслуживает оба обращения к OpenAI-совместимому API:
// векторизацию текста и генерацию пояснений к рекомендациям.
type Client struct {
	client *openai.Client
	cfg    *config.OpenAICfg
	logger logger.Logger
}

func NewClient(cfg *config.OpenAICfg, logger logger.Logger) *Client {
	conf := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		conf.BaseURL = cfg.BaseURL
	}
	conf.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &Client{
		client: openai.NewClientWithConfig(conf),
		cfg:    cfg,
		logger: logger,
	}
}

// EmbedText возвращает семантический вектор текста и версию модели, которой он построен.
func (c *Client) EmbedText(ctx context.Context, text string) (*usecase.EmbedTextRes, error) {
	const op = "openai.Client.EmbedText"

	var res openai.EmbeddingResponse
	err := c.withRetry(ctx, op, func() error {
		var err error
		res, err = c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(c.cfg.EmbeddingModel),
		})
		return err
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(res.Data) == 0 || len(res.Data[0].Embedding) == 0 {
		return nil, e.Wrap(op, e.ErrEmptyVector)
	}

	return usecase.NewEmbedTextRes(res.Data[0].Embedding, c.cfg.EmbeddingModel), nil
}

// GenerateInsights возвращает сырой текст генеративной модели по промпту.
// Ответ запрашивается в JSON-режиме; разбор остаётся на вызывающей стороне.
func (c *Client) GenerateInsights(ctx context.Context, prompt string) (string, error) {
	const op = "openai.Client.GenerateInsights"

	var res openai.ChatCompletionResponse
	err := c.withRetry(ctx, op, func() error {
		var err error
		res, err = c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: c.cfg.ChatModel,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are a helpful product recommendation expert. Always respond with valid JSON.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Temperature: 0.7,
		})
		return err
	})
	if err != nil {
		return "", e.Wrap(op, err)
	}

	if len(res.Choices) == 0 {
		return "", e.Wrap(op, errors.New("empty completion response"))
	}

	return res.Choices[0].Message.Content, nil
}

// withRetry повторяет вызов при временных ошибках API
// с экспоненциальным отступлением и джиттером.
func (c *Client) withRetry(ctx context.Context, op string, call func() error) error {
	var err error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := jitter.ExponentialBackoff(retryBaseDelay, retryMaxDelay, attempt-1, jitter.DefaultJitter)
			c.logger.Warnf("%s: attempt %d failed, retrying in %v: %v", op, attempt, backoff, err)

			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err = call(); err == nil {
			return nil
		}

		if !isRetryable(err) {
			return err
		}
	}

	return err
}

// isRetryable отличает временные ошибки API (rate limit, 5xx) от постоянных.
func isRetryable(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests || reqErr.HTTPStatusCode >= 500
	}

	return errors.Is(err, context.DeadlineExceeded)
}
