package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"resume-builder/internal/llm"
	"resume-builder/internal/shared/telemetry"
)

const defaultAPIURL = "https://api.openai.com/v1/chat/completions"

// Client implements llm.Gateway using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	apiURL     string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI gateway.
func NewClient(apiKey, model string) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("LLM_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	timeout := 120 * time.Second
	if raw := strings.TrimSpace(os.Getenv("OPENAI_TIMEOUT_SECONDS")); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			timeout = time.Duration(parsed) * time.Second
		}
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		apiURL: defaultAPIURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    *float32       `json:"temperature,omitempty"`
	ResponseFormat responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// OptimizeContent asks the model to improve a text fragment.
func (c *Client) OptimizeContent(ctx context.Context, content string) (llm.OptimizeResult, error) {
	raw, err := c.completeJSON(ctx, "optimize", llm.OptimizePrompt(), "Resume Content:\n"+content)
	if err != nil {
		return llm.OptimizeResult{}, err
	}

	var result llm.OptimizeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return llm.OptimizeResult{}, fmt.Errorf("openai optimize result parse: %w", err)
	}
	if strings.TrimSpace(result.OptimizedContent) == "" {
		return llm.OptimizeResult{}, fmt.Errorf("openai optimize result missing optimizedContent")
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result, nil
}

// EnhanceResume asks the model to rewrite the whole resume document.
func (c *Client) EnhanceResume(ctx context.Context, resumeJSON json.RawMessage, prompt string) (llm.EnhanceResult, error) {
	var user strings.Builder
	if strings.TrimSpace(prompt) != "" {
		user.WriteString("Follow these instructions from the user:\n")
		user.WriteString(prompt)
		user.WriteString("\n\n")
	}
	user.WriteString("Here is the resume data in JSON format:\n")
	user.Write(resumeJSON)

	raw, err := c.completeJSON(ctx, "enhance", llm.EnhancePrompt(), user.String())
	if err != nil {
		return llm.EnhanceResult{}, err
	}

	var result llm.EnhanceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return llm.EnhanceResult{}, fmt.Errorf("openai enhance result parse: %w", err)
	}
	if len(result.EnhancedResume) == 0 {
		return llm.EnhanceResult{}, fmt.Errorf("openai enhance result missing enhancedResume")
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result, nil
}

// completeJSON performs one chat completion expecting a JSON object, with a
// single fix pass when the model returns invalid JSON anyway.
func (c *Client) completeJSON(ctx context.Context, op, system, user string) (json.RawMessage, error) {
	messages := []chatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: user},
	}
	raw, usage, err := c.completeOnce(ctx, messages)
	if err != nil {
		return nil, err
	}
	logUsage(c.model, op, usage)

	if json.Valid(raw) {
		return raw, nil
	}

	fixMessages := []chatMessage{
		{Role: "system", Content: "You repair malformed JSON. Return ONLY the corrected JSON object, nothing else."},
		{Role: "user", Content: string(raw)},
	}
	raw, usage, err = c.completeOnce(ctx, fixMessages)
	if err != nil {
		return nil, err
	}
	logUsage(c.model, op, usage)
	if !json.Valid(raw) {
		return nil, fmt.Errorf("invalid JSON from OpenAI")
	}
	return raw, nil
}

func (c *Client) completeOnce(ctx context.Context, messages []chatMessage) (json.RawMessage, *chatUsage, error) {
	temp := float32(0)
	reqBody := chatRequest{
		Model:    c.model,
		Messages: messages,
		ResponseFormat: responseFormat{
			Type: "json_object",
		},
	}
	reqBody.Temperature = &temp
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, nil, fmt.Errorf("openai request timeout: %w", err)
		}
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, nil, fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return nil, nil, fmt.Errorf("openai error: %s (%s)", parsed.Error.Message, parsed.Error.Type)
	}
	if len(parsed.Choices) == 0 {
		return nil, nil, fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return nil, nil, fmt.Errorf("openai response empty content")
	}
	return json.RawMessage(content), toUsage(parsed.Usage), nil
}

type chatUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

func toUsage(raw *struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}) *chatUsage {
	if raw == nil {
		return nil
	}
	return &chatUsage{
		PromptTokens:     raw.PromptTokens,
		CompletionTokens: raw.CompletionTokens,
		TotalTokens:      raw.TotalTokens,
	}
}

func logUsage(model, op string, usage *chatUsage) {
	if usage == nil {
		return
	}
	telemetry.Info("openai.usage", map[string]any{
		"model":             model,
		"op":                op,
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	})
}
