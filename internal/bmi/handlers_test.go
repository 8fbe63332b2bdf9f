package bmi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fdg312/bmi-planner/internal/history"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/storage/memory"
)

func setupService() (*Service, *profiles.Service, *history.Service) {
	mem := memory.New()
	profileSvc := profiles.NewService(mem.Profiles())
	historySvc := history.NewService(mem.History(), history.DefaultMaxRecords)
	return NewService(profileSvc, historySvc), profileSvc, historySvc
}

func TestServiceCalculateFlow(t *testing.T) {
	svc, profileSvc, historySvc := setupService()
	ctx := context.Background()

	res, err := svc.Calculate(ctx, profiles.FormInput{
		Name:   "Alex",
		Unit:   "metric",
		Weight: "70",
		Height: "1.75",
		Age:    "30",
		Goal:   "Lose Weight",
	})
	if err != nil {
		t.Fatalf("Calculate: %v", err)
	}

	if res.BMIDisplay != "22.86" || res.BMI != 22.86 {
		t.Errorf("bmi = %v (%s), want 22.86", res.BMI, res.BMIDisplay)
	}
	if res.Assessment.Category != profiles.CategoryNormal {
		t.Errorf("category = %s", res.Assessment.Category)
	}
	if res.IdealDisplay != "56.7 - 76.3 kg" {
		t.Errorf("ideal = %q", res.IdealDisplay)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings %v", res.Warnings)
	}

	current, err := profileSvc.Current(ctx)
	if err != nil {
		t.Fatalf("profile not saved: %v", err)
	}
	if current.Category != profiles.CategoryNormal || current.Goal != profiles.GoalLoseWeight {
		t.Errorf("unexpected snapshot %+v", current)
	}

	entries, _ := historySvc.List(ctx)
	if len(entries) != 1 || entries[0].BMI != 22.86 {
		t.Fatalf("unexpected history %+v", entries)
	}
}

func TestServiceCalculateValidationStopsFlow(t *testing.T) {
	svc, profileSvc, historySvc := setupService()
	ctx := context.Background()

	_, err := svc.Calculate(ctx, profiles.FormInput{Name: "Alex", Weight: "70", Height: "1.75", Age: "12"})
	var verr *profiles.ValidationError
	if !errors.As(err, &verr) || verr.Message != profiles.MsgAgeOutOfRange {
		t.Fatalf("expected age validation error, got %v", err)
	}

	if _, err := profileSvc.Current(ctx); !errors.Is(err, profiles.ErrProfileRequired) {
		t.Errorf("profile must not be saved on validation failure, got %v", err)
	}
	if entries, _ := historySvc.List(ctx); len(entries) != 0 {
		t.Errorf("history must stay empty, got %d", len(entries))
	}
}

func TestHandleCalculate(t *testing.T) {
	svc, _, _ := setupService()
	h := NewHandler(svc)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "imperial ok",
			body:       `{"name":"Sam","unit":"imperial","weight":160,"height_feet":5,"height_inches":9,"age":45,"gender":"Female"}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "empty name",
			body:       `{"name":" ","weight":"70","height":"1.75","age":"30"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    profiles.MsgNameRequired,
		},
		{
			name:       "non numeric weight",
			body:       `{"name":"Alex","weight":"abc","height":"1.75","age":"30"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    profiles.MsgNotNumeric,
		},
		{
			name:       "NaN weight",
			body:       `{"name":"Alex","weight":"NaN","height":1.7,"age":30}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    profiles.MsgNotNumeric,
		},
		{
			name:       "infinite weight",
			body:       `{"name":"Alex","weight":"Inf","height":1.7,"age":30}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    profiles.MsgNotNumeric,
		},
		{
			name:       "zero height",
			body:       `{"name":"Alex","weight":"70","height":"0","age":"30"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    profiles.MsgNotPositive,
		},
		{
			name:       "broken json",
			body:       `{"name":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/bmi/calculate", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()
			h.HandleCalculate(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantMsg != "" {
				var resp ErrorResponse
				json.NewDecoder(w.Body).Decode(&resp)
				if resp.Error.Message != tt.wantMsg {
					t.Errorf("message = %q, want %q", resp.Error.Message, tt.wantMsg)
				}
			}
			if tt.wantStatus == http.StatusOK {
				var res Result
				json.NewDecoder(w.Body).Decode(&res)
				if res.History.Height != "5 ft 9 in" || !strings.HasSuffix(res.History.Weight, " lbs") {
					t.Errorf("unexpected history record %+v", res.History)
				}
			}
		})
	}
}

type brokenProfiles struct{}

func (brokenProfiles) Save(ctx context.Context, p profiles.HealthProfile) error {
	return errors.New("connection refused")
}

func TestHandleCalculateStoreFailure(t *testing.T) {
	mem := memory.New()
	h := NewHandler(NewService(brokenProfiles{}, history.NewService(mem.History(), history.DefaultMaxRecords)))

	req := httptest.NewRequest(http.MethodPost, "/v1/bmi/calculate", bytes.NewBufferString(`{"name":"Alex","weight":70,"height":1.75,"age":30}`))
	w := httptest.NewRecorder()
	h.HandleCalculate(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var resp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Error.Code != "internal_error" || resp.Error.Field != "" {
		t.Errorf("unexpected error %+v", resp.Error)
	}
}
