package core

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

	"github.com/davidspringean12/ai-mazed/internal/config"
)

// LLM is what the chat service needs from a language model provider.
type LLM interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// LLMService talks to an OpenAI-compatible API for embeddings and chat
// completions. One attempt per call; retries are the caller's decision.
type LLMService struct {
	baseURL        string
	apiKey         string
	embeddingModel string
	chatModel      string

	embedClient *http.Client
	chatClient  *http.Client
}

func NewLLMService(cfg config.Config) *LLMService {
	return &LLMService{
		baseURL:        strings.TrimRight(cfg.OpenAIBaseURL, "/"),
		apiKey:         cfg.OpenAIAPIKey,
		embeddingModel: cfg.EmbeddingModel,
		chatModel:      cfg.ChatModel,
		embedClient:    &http.Client{Timeout: 30 * time.Second},
		chatClient:     &http.Client{Timeout: 90 * time.Second},
	}
}

type embeddingRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Embed converts text to an embedding vector.
func (s *LLMService) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &UpstreamError{Op: "embeddings", Err: errors.New("input text is empty")}
	}

	body, err := s.post(ctx, s.embedClient, "/embeddings", embeddingRequest{
		Model: s.embeddingModel,
		Input: text,
	})
	if err != nil {
		return nil, &UpstreamError{Op: "embeddings", Err: err}
	}

	var decoded embeddingResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &UpstreamError{Op: "embeddings", Err: fmt.Errorf("malformed payload: %w", err)}
	}
	if len(decoded.Data) == 0 || len(decoded.Data[0].Embedding) == 0 {
		return nil, &UpstreamError{Op: "embeddings", Err: errors.New("no embedding data in response")}
	}
	return decoded.Data[0].Embedding, nil
}

// Complete sends exactly two messages (system, user) and returns the
// assistant's reply. No prior turns are included: every request is
// retrieval-grounded but conversationally stateless.
func (s *LLMService) Complete(ctx context.Context, sysPrompt, userPrompt string) (string, error) {
	body, err := s.post(ctx, s.chatClient, "/chat/completions", chatRequest{
		Model: s.chatModel,
		Messages: []chatMessage{
			{Role: "system", Content: sysPrompt},
			{Role: "user", Content: userPrompt},
		},
	})
	if err != nil {
		return "", &UpstreamError{Op: "chat completion", Err: err}
	}

	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", &UpstreamError{Op: "chat completion", Err: fmt.Errorf("malformed payload: %w", err)}
	}
	if len(decoded.Choices) == 0 || decoded.Choices[0].Message.Content == "" {
		return "", &UpstreamError{Op: "chat completion", Err: errors.New("no completion content in response")}
	}
	return decoded.Choices[0].Message.Content, nil
}

func (s *LLMService) post(ctx context.Context, client *http.Client, path string, payload interface{}) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(snippet))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s", msg)
	}

	return io.ReadAll(resp.Body)
}
