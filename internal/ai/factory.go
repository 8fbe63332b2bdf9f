package ai

import (
	"time"

	"github.com/fdg312/bmi-planner/internal/config"
)

// NewProvider builds the rule-based provider with the configured reply latency.
func NewProvider(cfg *config.Config) Provider {
	base := NewRuleProvider()
	if cfg == nil || cfg.ChatReplyDelayMs <= 0 {
		return base
	}
	return NewDelayedProvider(base, time.Duration(cfg.ChatReplyDelayMs)*time.Millisecond)
}
