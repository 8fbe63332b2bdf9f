package mealplans

import (
	"context"

	"github.com/fdg312/bmi-planner/internal/profiles"
)

type profileSource interface {
	Current(ctx context.Context) (*profiles.HealthProfile, error)
}

// Service builds meal suggestions for the caller's current profile.
type Service struct {
	profiles profileSource
}

func NewService(profiles profileSource) *Service {
	return &Service{profiles: profiles}
}

// Get returns profiles.ErrProfileRequired when nothing was calculated yet.
func (s *Service) Get(ctx context.Context) (*GetMealsResponse, error) {
	p, err := s.profiles.Current(ctx)
	if err != nil {
		return nil, err
	}
	return &GetMealsResponse{
		Diet:  p.Diet,
		Goal:  p.Goal,
		Slots: Suggest(p.Diet, p.Goal),
		Text:  RenderMeals(p.Diet, p.Goal),
	}, nil
}
