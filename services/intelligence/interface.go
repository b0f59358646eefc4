// File: services/intelligence/interface.go
package ai

import (
	"context"
	"strings"

	"tripmate/config"
)

// Capability is the optional text-understanding dependency. Implementations
// take a prompt and return raw model text. Every caller treats any error,
// timeout, or malformed reply as "no answer" and falls back to its
// deterministic path; a Capability failure must never reach the end user.
type Capability interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// NewCapabilityFromConfig builds the configured provider, or returns nil
// when no provider is configured or its API key is missing. A nil
// Capability is a supported mode, not an error.
func NewCapabilityFromConfig() Capability {
	cfg := config.AppConfig
	switch strings.ToLower(cfg.AIProvider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			return nil
		}
		return NewOpenAIClient(cfg.OpenAIAPIKey, cfg.AIModel)
	case "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil
		}
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.AIModel)
	default:
		return nil
	}
}

// ExtractJSON strips a fenced code block wrapper from model output, if any,
// leaving the raw JSON payload. Models routinely wrap JSON replies in
// ```json fences despite instructions not to.
func ExtractJSON(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	return strings.TrimSpace(s)
}
