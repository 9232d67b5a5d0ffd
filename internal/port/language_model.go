package port

import "context"

// GenerateRequest carries a single prompt sent to a hosted language model.
type GenerateRequest struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// GenerateResponse contains the raw text produced by a language model.
type GenerateResponse struct {
	Text      string
	ModelUsed string
}

// LanguageModel abstracts a hosted text-generation API.
type LanguageModel interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}
