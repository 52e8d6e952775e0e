package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"layer-backend/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrNoCandidates is returned when the model answers without any content
var ErrNoCandidates = errors.New("generation returned no candidates")

// GeminiCompleter implements Completer on the Gemini API
type GeminiCompleter struct {
	client *genai.Client
	model  string
}

// NewGeminiCompleter creates a Gemini-backed completer
func NewGeminiCompleter(ctx context.Context, apiKey, model string) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiCompleter{client: client, model: model}, nil
}

// Close releases the underlying client
func (g *GeminiCompleter) Close() error {
	return g.client.Close()
}

// Complete sends one request. Schema-bearing requests ask for JSON output.
func (g *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	model := g.client.GenerativeModel(g.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Schema != nil {
		model.ResponseMIMEType = "application/json"
		model.ResponseSchema = req.Schema
	}

	parts := make([]genai.Part, 0, 2)
	if req.Image != nil {
		parts = append(parts, genai.ImageData(req.Image.Format, req.Image.Data))
	}
	parts = append(parts, genai.Text(req.Prompt))

	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	if len(req.History) > 0 {
		cs := model.StartChat()
		cs.History = historyContents(req.History)
		resp, err = cs.SendMessage(ctx, parts...)
	} else {
		resp, err = model.GenerateContent(ctx, parts...)
	}
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return responseText(resp)
}

func historyContents(turns []models.ChatTurn) []*genai.Content {
	out := make([]*genai.Content, 0, len(turns))
	for _, t := range turns {
		out = append(out, &genai.Content{
			Role:  t.Role,
			Parts: []genai.Part{genai.Text(t.Text)},
		})
	}
	return out
}

// responseText concatenates the text parts of the first candidate
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoCandidates
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}
	return b.String(), nil
}
