package ai

import (
	"context"

	"github.com/fdg312/bmi-planner/internal/intakes"
	"github.com/fdg312/bmi-planner/internal/profiles"
)

// Provider produces the assistant's answer for one query.
type Provider interface {
	Reply(ctx context.Context, req ReplyRequest) (ReplyResponse, error)
}

type ReplyRequest struct {
	UserID    string
	Query     string
	Profile   *profiles.HealthProfile
	Hydration intakes.HydrationState
}

type ReplyResponse struct {
	AssistantText string
	Rule          string
}
