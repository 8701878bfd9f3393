package advisory

import "context"

// Message is one role-tagged entry in a generation request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces text from a role-tagged message list with a bounded
// output length.
type Generator interface {
	Generate(ctx context.Context, messages []Message, maxTokens int) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, messages []Message, maxTokens int) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, messages []Message, maxTokens int) (string, error) {
	if f == nil {
		return "", nil
	}
	return f(ctx, messages, maxTokens)
}
