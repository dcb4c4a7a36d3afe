package ai

import (
	"context"
	"errors"
	"fmt"
)

// EchoProvider is the stand-in inference backend. There is no real model
// behind it: it acknowledges the newest user turn so the reply pipeline can
// be exercised end to end without any external service.
type EchoProvider struct {
	Prefix string
}

func NewEchoProvider(prefix string) *EchoProvider {
	if prefix == "" {
		prefix = "You said: "
	}
	return &EchoProvider{Prefix: prefix}
}

func (p *EchoProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" && messages[i].Content != "" {
			return fmt.Sprintf("%s%s", p.Prefix, messages[i].Content), nil
		}
	}
	return "", errors.New("echo: no user message to reply to")
}
