package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

var ErrProfileRequired = errors.New("profile required")

// MsgProfileRequired is shown wherever a feature needs a calculated profile.
const MsgProfileRequired = "Please calculate your BMI first in the Calculator tab."

// HydrationResetter clears today's water log as part of "clear inputs".
type HydrationResetter interface {
	ResetToday(ctx context.Context) error
}

// Service хранит текущий профиль пользователя (snapshot последнего расчёта)
type Service struct {
	storage   storage.ProfilesStorage
	hydration HydrationResetter
}

func NewService(st storage.ProfilesStorage) *Service {
	return &Service{storage: st}
}

func (s *Service) WithHydrationResetter(r HydrationResetter) *Service {
	s.hydration = r
	return s
}

// Current returns the caller's snapshot or ErrProfileRequired.
func (s *Service) Current(ctx context.Context) (*HealthProfile, error) {
	snap, err := s.storage.GetCurrentProfile(ctx, userctx.OwnerID(ctx))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("load profile: %w", err)
	}
	p := fromSnapshot(*snap)
	return &p, nil
}

// Save replaces the caller's snapshot wholesale.
func (s *Service) Save(ctx context.Context, p HealthProfile) error {
	snap := toSnapshot(userctx.OwnerID(ctx), p)
	if err := s.storage.SaveCurrentProfile(ctx, &snap); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// Clear drops the snapshot and resets today's hydration.
func (s *Service) Clear(ctx context.Context) error {
	owner := userctx.OwnerID(ctx)
	if err := s.storage.DeleteCurrentProfile(ctx, owner); err != nil {
		return fmt.Errorf("delete profile: %w", err)
	}
	if s.hydration != nil {
		if err := s.hydration.ResetToday(ctx); err != nil {
			return fmt.Errorf("reset hydration: %w", err)
		}
	}
	log.Printf("INFO profiles: cleared inputs owner=%s", owner)
	return nil
}

func toSnapshot(owner string, p HealthProfile) storage.ProfileSnapshot {
	return storage.ProfileSnapshot{
		OwnerUserID:   owner,
		Name:          p.Name,
		Weight:        p.Weight,
		Height:        p.Height,
		Unit:          string(p.Unit),
		Age:           p.Age,
		Gender:        string(p.Gender),
		ActivityLevel: string(p.ActivityLevel),
		Goal:          string(p.Goal),
		Diet:          string(p.Diet),
		BMI:           p.BMI,
		Category:      string(p.Category),
		CalculatedAt:  p.CalculatedAt,
	}
}

func fromSnapshot(s storage.ProfileSnapshot) HealthProfile {
	return HealthProfile{
		Name:          s.Name,
		Weight:        s.Weight,
		Height:        s.Height,
		Unit:          Unit(s.Unit),
		Age:           s.Age,
		Gender:        Gender(s.Gender),
		ActivityLevel: ActivityLevel(s.ActivityLevel),
		Goal:          Goal(s.Goal),
		Diet:          Diet(s.Diet),
		BMI:           s.BMI,
		Category:      Category(s.Category),
		CalculatedAt:  s.CalculatedAt,
	}
}
