package ai

import (
	"context"
	"time"

	"github.com/fdg312/bmi-planner/internal/metrics"
)

// RuleProvider answers from the keyword rule table.
type RuleProvider struct{}

func NewRuleProvider() *RuleProvider {
	return &RuleProvider{}
}

func (p *RuleProvider) Reply(_ context.Context, req ReplyRequest) (ReplyResponse, error) {
	text, rule := Answer(req.Query, req.Profile, req.Hydration)
	metrics.IncChatQuery(rule)
	return ReplyResponse{AssistantText: text, Rule: rule}, nil
}

// DelayedProvider waits a fixed latency before delegating.
// The wait ends early only if ctx is cancelled.
type DelayedProvider struct {
	next  Provider
	delay time.Duration
}

func NewDelayedProvider(next Provider, delay time.Duration) *DelayedProvider {
	return &DelayedProvider{next: next, delay: delay}
}

func (p *DelayedProvider) Reply(ctx context.Context, req ReplyRequest) (ReplyResponse, error) {
	if p.delay > 0 {
		timer := time.NewTimer(p.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ReplyResponse{}, ctx.Err()
		}
	}
	return p.next.Reply(ctx, req)
}
