package generator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	ollama "github.com/ollama/ollama/api"
	"google.golang.org/genai"
)

// Model turns a prompt into raw completion text.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeminiModel calls the Gemini generateContent API.
type GeminiModel struct {
	client *genai.Client
	model  string
}

// NewGeminiModel creates a Gemini client against the public API endpoint.
func NewGeminiModel(ctx context.Context, apiKey, model string) (*GeminiModel, error) {
	return NewGeminiModelWithConfig(ctx, &genai.ClientConfig{APIKey: apiKey}, model)
}

// NewGeminiModelWithConfig creates a Gemini client from an explicit client
// config. The backend is always the Gemini API.
func NewGeminiModelWithConfig(ctx context.Context, cc *genai.ClientConfig, model string) (*GeminiModel, error) {
	cc.Backend = genai.BackendGeminiAPI
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiModel{client: client, model: model}, nil
}

func (g *GeminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates returned")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}

// OllamaModel calls a local Ollama server. The host comes from OLLAMA_HOST.
type OllamaModel struct {
	client *ollama.Client
	model  string
}

func NewOllamaModel(model string) (*OllamaModel, error) {
	client, err := ollama.ClientFromEnvironment()
	if err != nil {
		return nil, fmt.Errorf("ollama client: %w", err)
	}
	return &OllamaModel{client: client, model: model}, nil
}

// NewOllamaModelWithClient wraps an existing client.
func NewOllamaModelWithClient(client *ollama.Client, model string) *OllamaModel {
	return &OllamaModel{client: client, model: model}
}

func (o *OllamaModel) Generate(ctx context.Context, prompt string) (string, error) {
	var response strings.Builder
	err := o.client.Generate(ctx, &ollama.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Options: map[string]interface{}{
			"temperature": 0.7,
		},
	}, func(res ollama.GenerateResponse) error {
		response.WriteString(res.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return removeThinkBlock(response.String()), nil
}

// reasoning models prefix their answer with <think>...</think>
var thinkBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

func removeThinkBlock(s string) string {
	return strings.TrimSpace(thinkBlock.ReplaceAllString(s, ""))
}
