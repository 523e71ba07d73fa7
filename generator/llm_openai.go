package generator

import (
	"context"
	"errors"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAISubmitter implements Submitter using the official openai-go SDK (chat completions).
// Works against any OpenAI-compatible endpoint, e.g. DeepSeek via BaseURL.
type OpenAISubmitter struct {
	Opts []option.RequestOption
}

func NewOpenAISubmitterFromConfig(cfg *LLMSettings) (*OpenAISubmitter, error) {
	if cfg == nil {
		return nil, errors.New("llm config is nil")
	}
	var opts []option.RequestOption
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	// the candidate loop owns retries
	opts = append(opts, option.WithMaxRetries(0))
	return &OpenAISubmitter{Opts: opts}, nil
}

func (o *OpenAISubmitter) Submit(ctx context.Context, model, prompt, credential string) (string, error) {
	opts := append([]option.RequestOption{option.WithAPIKey(credential)}, o.Opts...)
	client := openai.NewClient(opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, nil
}
