package llm

import "context"

type Message struct {
	Role    string
	Content string
}

type Response struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// Client is the generation provider. Implementations classify their
// failures with the gateway package so the retryer can tell transient
// errors from terminal ones.
type Client interface {
	Generate(ctx context.Context, messages []Message) (Response, error)
}
