package schedules

import (
	"context"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

type profileSource interface {
	Current(ctx context.Context) (*profiles.HealthProfile, error)
}

type Service struct {
	profiles profileSource
}

func NewService(profiles profileSource) *Service {
	return &Service{profiles: profiles}
}

func (s *Service) Get(ctx context.Context) (*GetScheduleResponse, error) {
	p, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &GetScheduleResponse{
		Category: p.Category,
		Goal:     p.Goal,
		Schedule: Compose(p.Category, p.Goal),
	}, nil
}
