// Package llmtest provides a scripted llm.TextGenerator for tests.
package llmtest

import (
	"context"
	"sync"

	"weekly-menu/internal/llm"
	"weekly-menu/internal/shared"
)

// Stub returns Content (or Err) for every prompt and remembers the prompts.
type Stub struct {
	Content string
	Usage   shared.TokenUsage
	Err     error

	mu      sync.Mutex
	prompts []string
}

// GenerateContent implements llm.TextGenerator.
func (s *Stub) GenerateContent(ctx context.Context, prompt string) (llm.ContentResponse, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.Err != nil {
		return llm.ContentResponse{}, s.Err
	}
	return llm.ContentResponse{Content: s.Content, Usage: s.Usage}, nil
}

// Prompts returns the prompts received so far.
func (s *Stub) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}
