package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"stockmeta/internal/config"
)

// Gemini calls the Gemini generateContent endpoint with the image inline.
type Gemini struct {
	settings Settings
	retry    retrier
}

// NewGemini builds a Gemini gateway.
func NewGemini(settings Settings) *Gemini {
	return &Gemini{settings: settings, retry: newRetrier(settings.MaxRetries)}
}

// Name implements Gateway.
func (g *Gemini) Name() string { return config.ProviderGemini }

// Generate implements Gateway.
func (g *Gemini) Generate(ctx context.Context, key, model, imagePath string) (string, error) {
	data, err := readImage(imagePath)
	if err != nil {
		return "", callError(g.Name(), err)
	}
	if strings.TrimSpace(model) == "" {
		model = config.DefaultModel(config.ProviderGemini)
	}

	clientConfig := &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	}
	if g.settings.BaseURL != "" {
		clientConfig.HTTPOptions.BaseURL = g.settings.BaseURL
	}
	if g.settings.Timeout > 0 {
		timeout := g.settings.Timeout
		clientConfig.HTTPOptions.Timeout = &timeout
	}
	client, err := genai.NewClient(ctx, clientConfig)
	if err != nil {
		return "", callError(g.Name(), fmt.Errorf("create client: %w", err))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(data, "image/jpeg"),
		}, genai.RoleUser),
	}
	generateConfig := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(Prompt(), genai.RoleUser),
	}

	var resp *genai.GenerateContentResponse
	err = g.retry.do(ctx, func() error {
		var callErr error
		resp, callErr = client.Models.GenerateContent(ctx, model, contents, generateConfig)
		return callErr
	})
	if err != nil {
		return "", callError(g.Name(), err)
	}
	text, err := firstCandidateText(resp)
	if err != nil {
		return "", callError(g.Name(), err)
	}
	return text, nil
}

// firstCandidateText joins the non-thought text parts of the first candidate.
func firstCandidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		if resp != nil && resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return "", errors.New("no candidates in response")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil {
		return "", fmt.Errorf("empty candidate (finish_reason=%q)", candidate.FinishReason)
	}
	var b strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String(), nil
}
