package ai

import "context"

type Message struct {
	Role    string
	Content string
}

// Provider generates one assistant reply from the conversation so far.
type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
