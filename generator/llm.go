package generator

import "context"

// Submitter sends one instruction document to one model, replaceable/mockable.
type Submitter interface {
	Submit(ctx context.Context, model, prompt, credential string) (string, error)
}

// LLMSettings is the provider configuration handed to concrete submitters.
type LLMSettings struct {
	Provider string
	BaseURL  string
}

// DefaultModels is the candidate order used when none is configured; cheapest first.
var DefaultModels = []string{
	"gemini-2.5-flash-preview-04-17",
	"gemini-2.0-flash-lite",
	"gemini-2.0-flash",
}
