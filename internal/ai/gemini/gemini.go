package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var ErrEmptyResponse = errors.New("no content returned from AI")

// ImagePart is a decoded image sent along with a prompt.
type ImagePart struct {
	MIMEType string
	Data     []byte
}

// Generator produces a JSON object from a prompt and optional images.
type Generator interface {
	GenerateJSON(ctx context.Context, prompt string, images []ImagePart) (map[string]any, error)
}

type GeminiClient struct {
	Client     *genai.Client
	FlashModel *genai.GenerativeModel
	ProModel   *genai.GenerativeModel
}

func NewGenAIClient(ctx context.Context, apiKey, flashModelName, proModelName string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client init failed: %w", err)
	}

	flash := client.GenerativeModel(flashModelName)
	flash.ResponseMIMEType = "application/json"
	pro := client.GenerativeModel(proModelName)
	pro.ResponseMIMEType = "application/json"

	return &GeminiClient{
		Client:     client,
		FlashModel: flash,
		ProModel:   pro,
	}, nil
}

// NewClientsFromKeys builds one client per API key. Keys that fail to
// initialize are skipped; an error is returned only when none succeed.
func NewClientsFromKeys(ctx context.Context, keys []string, flashModelName, proModelName string) ([]Generator, error) {
	clients := make([]Generator, 0, len(keys))
	var lastErr error
	for i, key := range keys {
		c, err := NewGenAIClient(ctx, key, flashModelName, proModelName)
		if err != nil {
			slog.Warn("Skipping Gemini client", "index", i, "error", err)
			lastErr = err
			continue
		}
		clients = append(clients, c)
	}
	if len(clients) == 0 {
		if lastErr == nil {
			lastErr = errors.New("no API keys configured")
		}
		return nil, fmt.Errorf("no Gemini client could be created: %w", lastErr)
	}
	return clients, nil
}

func (g *GeminiClient) Close() error {
	return g.Client.Close()
}

// GenerateJSON uses the flash model for text-only prompts and the pro model
// when images are attached.
func (g *GeminiClient) GenerateJSON(ctx context.Context, prompt string, images []ImagePart) (map[string]any, error) {
	parts := []genai.Part{genai.Text(prompt)}
	for _, img := range images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}

	model := g.FlashModel
	if len(images) > 0 {
		model = g.ProModel
	}

	slog.Info("Sending AI request",
		"prompt_length", len(prompt),
		"image_count", len(images))

	resp, err := model.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, ErrEmptyResponse
	}

	textPart, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("response part is not text, received %T", resp.Candidates[0].Content.Parts[0])
	}
	return ExtractJSON(string(textPart))
}

// ExtractJSON parses a model reply into a JSON object. Markdown fences and
// any prose around the outermost braces are dropped.
func ExtractJSON(text string) (map[string]any, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start, end := strings.Index(cleaned, "{"), strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("no JSON object in AI response: %q", truncate(text, 200))
	}
	cleaned = cleaned[start : end+1]

	var result map[string]any
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal AI response to JSON: %w. \nRaw response was: %s", err, truncate(text, 200))
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
