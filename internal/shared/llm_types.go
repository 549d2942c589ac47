package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by a request.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// AgentMeta holds operational metadata for an LLM-backed operation
// (recipe generation, price comparison, recipe import).
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}

// NewAgentMeta stamps the latency since start.
func NewAgentMeta(agent string, usage TokenUsage, start time.Time) AgentMeta {
	return AgentMeta{
		AgentName: agent,
		Usage:     usage,
		Latency:   time.Since(start),
	}
}

// Empty reports whether no tokens were accounted, e.g. when the call failed
// before the provider answered.
func (m AgentMeta) Empty() bool {
	return m.Usage.PromptTokens == 0 && m.Usage.CompletionTokens == 0
}
