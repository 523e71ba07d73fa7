package generator

import (
	"context"
	"errors"
	"net/http"
	"strings"

	genai "google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("llm: empty response")

// GeminiSubmitter calls the Gemini API through the official genai client.
// A client is built per call because the credential belongs to the request.
type GeminiSubmitter struct {
	HTTPClient *http.Client
	BaseURL    string
}

func NewGeminiSubmitter(cfg *LLMSettings) *GeminiSubmitter {
	g := &GeminiSubmitter{}
	if cfg != nil {
		g.BaseURL = cfg.BaseURL
	}
	return g
}

func (g *GeminiSubmitter) Submit(ctx context.Context, model, prompt, credential string) (string, error) {
	cc := &genai.ClientConfig{
		APIKey:     credential,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: g.HTTPClient,
	}
	if g.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.BaseURL}
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", err
	}

	resp, err := cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		nil,
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p == nil || p.Thought {
			continue
		}
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return sb.String(), nil
}
