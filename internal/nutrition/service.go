package nutrition

import (
	"context"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

type profileSource interface {
	Current(ctx context.Context) (*profiles.HealthProfile, error)
}

// Service builds the energy plan from the caller's current profile.
type Service struct {
	profiles profileSource
}

// NewService creates a new nutrition service.
func NewService(profiles profileSource) *Service {
	return &Service{profiles: profiles}
}

// GetPlan returns profiles.ErrProfileRequired when no BMI was calculated yet.
func (s *Service) GetPlan(ctx context.Context) (*GetPlanResponse, error) {
	p, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, err
	}
	plan := NewPlan(*p)
	return &GetPlanResponse{
		Plan: plan,
		Text: RenderPlan(*p, plan),
	}, nil
}
