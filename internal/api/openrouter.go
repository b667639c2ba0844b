// Package api contains the hosted-service collaborators: LLM completion via
// OpenRouter and AI image upscaling via Replicate.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/modforge/uprez/config"
	"github.com/modforge/uprez/internal/logger"
)

// CompletionClient talks to OpenRouter, which speaks the OpenAI wire format.
type CompletionClient struct {
	client  *openai.Client
	http    *http.Client
	baseURL string
	apiKey  string
	model   string
}

// NewCompletionClient creates a completion client from configuration.
func NewCompletionClient(cfg config.OpenRouterConfig) (*CompletionClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenRouter API key is not configured (set OPENROUTER_API_KEY)")
	}
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL

	return &CompletionClient{
		client:  openai.NewClientWithConfig(clientConfig),
		http:    &http.Client{},
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}, nil
}

// Complete sends prompt to the model and returns the completion text plus a
// formatted cost estimate. An empty model falls back to the configured one.
// Cost lookup failures are logged, not fatal.
func (c *CompletionClient) Complete(ctx context.Context, prompt, model string, stream bool) (string, string, error) {
	if model == "" {
		model = c.model
	}

	req := openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: 500,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	var text, completionID string
	var err error
	if stream {
		text, completionID, err = c.completeStreaming(ctx, req)
	} else {
		text, completionID, err = c.completeBlocking(ctx, req)
	}
	if err != nil {
		return "", "", err
	}

	cost, err := c.queryCost(ctx, completionID)
	if err != nil {
		logger.L(ctx).Warn("failed to query completion cost",
			zap.String("completion_id", completionID), zap.Error(err))
		cost = ""
	}
	return text, cost, nil
}

func (c *CompletionClient) completeBlocking(ctx context.Context, req openai.ChatCompletionRequest) (string, string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("completion returned no choices")
	}
	return resp.Choices[0].Message.Content, resp.ID, nil
}

func (c *CompletionClient) completeStreaming(ctx context.Context, req openai.ChatCompletionRequest) (string, string, error) {
	req.Stream = true
	stream, err := c.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", "", fmt.Errorf("completion stream failed: %w", err)
	}
	defer func() { _ = stream.Close() }()

	var b strings.Builder
	var completionID string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("completion stream failed: %w", err)
		}
		if completionID == "" {
			completionID = chunk.ID
		}
		if len(chunk.Choices) > 0 {
			b.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	return b.String(), completionID, nil
}

// queryCost asks OpenRouter's generation endpoint what a completion cost.
func (c *CompletionClient) queryCost(ctx context.Context, completionID string) (string, error) {
	if completionID == "" {
		return "", errors.New("no completion id")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/generation?id=%s", c.baseURL, completionID), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation query returned %s", resp.Status)
	}

	var payload struct {
		Data struct {
			TotalCost float64 `json:"total_cost"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	return fmt.Sprintf("$%.10f", payload.Data.TotalCost), nil
}
