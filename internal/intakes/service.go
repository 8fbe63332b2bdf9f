package intakes

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/fdg312/bmi-planner/internal/config"
	"github.com/fdg312/bmi-planner/internal/metrics"
	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

const dateLayout = "2006-01-02"

var (
	ErrInvalidAmount      = errors.New("invalid water amount")
	ErrDailyLimitExceeded = errors.New("daily water limit exceeded")
)

// MsgInvalidAmount is the user-facing message for ErrInvalidAmount.
const MsgInvalidAmount = "Please enter a valid positive number for water intake (ml)."

// maxListedEntries caps the entries returned with the daily state.
const maxListedEntries = 50

type Service struct {
	intakes storage.IntakesStorage
	config  *config.Config
	now     func() time.Time
}

func NewService(intakes storage.IntakesStorage, cfg *config.Config) *Service {
	return &Service{
		intakes: intakes,
		config:  cfg,
		now:     time.Now,
	}
}

// WithClock overrides the clock used to pick "today".
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// AddWater logs amountMl for today. nil means the configured default portion.
func (s *Service) AddWater(ctx context.Context, amountMl *int) (HydrationState, error) {
	amount := s.defaultAddMl()
	if amountMl != nil {
		amount = *amountMl
	}
	if amount <= 0 {
		return HydrationState{}, ErrInvalidAmount
	}

	owner := userctx.OwnerID(ctx)
	now := s.now()
	date := now.Format(dateLayout)

	current, err := s.intakes.GetWaterDaily(ctx, owner, date)
	if err != nil {
		return HydrationState{}, fmt.Errorf("get water daily: %w", err)
	}
	if limit := s.maxPerDayMl(); limit > 0 && current+amount > limit {
		return HydrationState{}, ErrDailyLimitExceeded
	}

	if err := s.intakes.AddWater(ctx, owner, now, amount); err != nil {
		return HydrationState{}, fmt.Errorf("add water: %w", err)
	}
	metrics.AddWaterLogged(amount)
	log.Printf("INFO intakes: water logged owner=%s amount_ml=%d total_ml=%d", owner, amount, current+amount)

	return NewHydrationState(current+amount, s.goalMl()), nil
}

// Status returns today's progress for the caller.
func (s *Service) Status(ctx context.Context) (HydrationState, error) {
	current, err := s.intakes.GetWaterDaily(ctx, userctx.OwnerID(ctx), s.now().Format(dateLayout))
	if err != nil {
		return HydrationState{}, fmt.Errorf("get water daily: %w", err)
	}
	return NewHydrationState(current, s.goalMl()), nil
}

// Entries lists today's log, newest first.
func (s *Service) Entries(ctx context.Context) ([]WaterIntakeDTO, error) {
	rows, err := s.intakes.ListWaterIntakes(ctx, userctx.OwnerID(ctx), s.now().Format(dateLayout), maxListedEntries)
	if err != nil {
		return nil, fmt.Errorf("list water intakes: %w", err)
	}
	out := make([]WaterIntakeDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, WaterIntakeDTO{
			ID:        r.ID,
			TakenAt:   r.TakenAt,
			AmountMl:  r.AmountMl,
			CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

// ResetToday drops today's log. Used by "clear inputs".
func (s *Service) ResetToday(ctx context.Context) error {
	if err := s.intakes.DeleteWaterDaily(ctx, userctx.OwnerID(ctx), s.now().Format(dateLayout)); err != nil {
		return fmt.Errorf("delete water daily: %w", err)
	}
	return nil
}

func (s *Service) Today() string {
	return s.now().Format(dateLayout)
}

func (s *Service) goalMl() int {
	if s.config == nil || s.config.WaterGoalMl <= 0 {
		return 2500
	}
	return s.config.WaterGoalMl
}

// maxPerDayMl is 0 when no daily cap is configured.
func (s *Service) maxPerDayMl() int {
	if s.config == nil {
		return 0
	}
	return s.config.IntakesMaxWaterMlPerDay
}

func (s *Service) defaultAddMl() int {
	if s.config == nil || s.config.IntakesWaterDefaultAddMl <= 0 {
		return 250
	}
	return s.config.IntakesWaterDefaultAddMl
}

// NewHydrationState computes progress capped at 100%.
func NewHydrationState(currentMl, goalMl int) HydrationState {
	pct := 0.0
	if goalMl > 0 {
		pct = math.Min(100, float64(currentMl)/float64(goalMl)*100)
	}
	return HydrationState{
		CurrentMl:       currentMl,
		GoalMl:          goalMl,
		ProgressPercent: pct,
		Display:         fmt.Sprintf("%dml / %dml (%.0f%%)", currentMl, goalMl, pct),
	}
}
