package ai

import "context"

// Message is one {role, content} pair of the assembled context.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client dispatches generation requests upstream. A nil error always comes
// with the raw response body of a successful call; every failure is
// classified (ErrAuthRejected, *RejectedError, *TransportError).
type Client interface {
	ChatCompletion(ctx context.Context, messages []Message) ([]byte, error)
	GenerateImage(ctx context.Context, prompt string, n int, size string) ([]byte, error)
}
