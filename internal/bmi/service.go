package bmi

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/fdg312/bmi-planner/internal/metrics"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

type profileStore interface {
	Save(ctx context.Context, p profiles.HealthProfile) error
}

type historyRecorder interface {
	Record(ctx context.Context, p profiles.HealthProfile) (storage.HistoryRecord, []string)
}

// Result is the outcome of one calculation.
type Result struct {
	Profile      profiles.HealthProfile `json:"profile"`
	BMI          float64                `json:"bmi"`
	BMIDisplay   string                 `json:"bmi_display"`
	Assessment   Assessment             `json:"assessment"`
	IdealWeight  IdealRange             `json:"ideal_weight"`
	IdealDisplay string                 `json:"ideal_display"`
	History      storage.HistoryRecord  `json:"history_record"`
	Warnings     []string               `json:"warnings,omitempty"`
}

// Service runs the calculation flow:
// validate → compute → categorize → ideal range → snapshot profile → history.
type Service struct {
	profiles profileStore
	history  historyRecorder
	now      func() time.Time
}

func NewService(profiles profileStore, history historyRecorder) *Service {
	return &Service{
		profiles: profiles,
		history:  history,
		now:      time.Now,
	}
}

// Calculate validates the form and runs the flow. A *profiles.ValidationError
// stops it before anything is computed or stored. History problems come back
// as warnings.
func (s *Service) Calculate(ctx context.Context, in profiles.FormInput) (*Result, error) {
	p, err := profiles.Validate(in)
	if err != nil {
		var verr *profiles.ValidationError
		if errors.As(err, &verr) {
			metrics.IncValidationFailure(verr.Field)
		}
		return nil, err
	}

	value, err := Calculate(p.Weight, p.Height, p.Unit)
	if err != nil {
		return nil, err
	}
	assessment := Categorize(value, p.Gender, p.Age)
	ideal := IdealWeight(p.Height, p.Unit)

	p.BMI = value
	p.Category = assessment.Category
	p.CalculatedAt = s.now().UTC()

	if err := s.profiles.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("save profile: %w", err)
	}

	res := &Result{
		Profile:      p,
		BMI:          math.Round(value*100) / 100,
		BMIDisplay:   fmt.Sprintf("%.2f", value),
		Assessment:   assessment,
		IdealWeight:  ideal,
		IdealDisplay: ideal.String(),
	}
	if s.history != nil {
		res.History, res.Warnings = s.history.Record(ctx, p)
	}

	metrics.IncCalculation(string(assessment.Category), assessment.Severe)
	log.Printf("INFO bmi: calculated owner=%s bmi=%.2f category=%q severe=%t",
		userctx.OwnerID(ctx), value, assessment.Category, assessment.Severe)

	return res, nil
}
