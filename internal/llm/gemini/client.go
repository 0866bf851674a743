package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"resume-builder/internal/llm"
)

const defaultModel = "gemini-2.0-flash"

// Client implements llm.Gateway using the Gemini API.
type Client struct {
	client *genai.Client
	model  string
}

// NewClient constructs a new Gemini gateway.
func NewClient(ctx context.Context, apiKey, model string) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = defaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Client{client: client, model: model}, nil
}

// OptimizeContent asks the model to improve a text fragment.
func (c *Client) OptimizeContent(ctx context.Context, content string) (llm.OptimizeResult, error) {
	raw, err := c.generateJSON(ctx, llm.OptimizePrompt(), "Resume Content:\n"+content)
	if err != nil {
		return llm.OptimizeResult{}, err
	}

	var result llm.OptimizeResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return llm.OptimizeResult{}, fmt.Errorf("gemini optimize result parse: %w", err)
	}
	if strings.TrimSpace(result.OptimizedContent) == "" {
		return llm.OptimizeResult{}, fmt.Errorf("gemini optimize result missing optimizedContent")
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

	raw, err := c.generateJSON(ctx, llm.EnhancePrompt(), user.String())
	if err != nil {
		return llm.EnhanceResult{}, err
	}

	var result llm.EnhanceResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return llm.EnhanceResult{}, fmt.Errorf("gemini enhance result parse: %w", err)
	}
	if len(result.EnhancedResume) == 0 {
		return llm.EnhanceResult{}, fmt.Errorf("gemini enhance result missing enhancedResume")
	}
	if result.Suggestions == nil {
		result.Suggestions = []string{}
	}
	return result, nil
}

func (c *Client) generateJSON(ctx context.Context, system, user string) (json.RawMessage, error) {
	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr[float32](0),
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, fmt.Errorf("gemini response empty content")
	}

	// The JSON response type usually holds, but strip fences if the model
	// wrapped its output anyway.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	if !json.Valid([]byte(text)) {
		return nil, fmt.Errorf("invalid JSON from Gemini")
	}
	return json.RawMessage(text), nil
}
