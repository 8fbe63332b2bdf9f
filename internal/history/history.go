// Package history keeps the capped log of past BMI results.
package history

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fdg312/bmi-planner/internal/metrics"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/units"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

const (
	DefaultMaxRecords = 20
	DateLayout        = "2006-01-02 15:04"

	WarnLoad = "Could not load or parse BMI history file."
	WarnSave = "Could not save BMI history."
)

// ErrCorrupt is returned by stores whose persisted history cannot be parsed.
var ErrCorrupt = errors.New("history is corrupt")

// Entry is a record as shown to the user.
type Entry struct {
	storage.HistoryRecord
	Line string `json:"line"`
}

// Service appends records and evicts the oldest beyond the cap.
// Storage failures become warnings and never abort the caller.
type Service struct {
	store storage.HistoryStorage
	max   int
	now   func() time.Time

	// load-append-save runs under the owner's lock
	owners sync.Map // owner -> *sync.Mutex
}

func NewService(store storage.HistoryStorage, maxRecords int) *Service {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Service{store: store, max: maxRecords, now: time.Now}
}

// NewRecord formats a calculated profile the way it is persisted.
func NewRecord(p profiles.HealthProfile, at time.Time) storage.HistoryRecord {
	r := storage.HistoryRecord{
		Date:     at.Format(DateLayout),
		BMI:      math.Round(p.BMI*100) / 100,
		Category: string(p.Category),
	}

	w := strconv.FormatFloat(p.Weight, 'f', -1, 64)
	if p.Unit == profiles.UnitImperial {
		ft, in := units.SplitInches(p.Height)
		r.Weight = w + " lbs"
		r.Height = fmt.Sprintf("%d ft %d in", ft, in)
	} else {
		r.Weight = w + " kg"
		r.Height = fmt.Sprintf("%.2f m", p.Height)
	}
	return r
}

// Record appends the profile's result and returns it with any warnings.
func (s *Service) Record(ctx context.Context, p profiles.HealthProfile) (storage.HistoryRecord, []string) {
	owner := userctx.OwnerID(ctx)
	rec := NewRecord(p, s.now())

	unlock := s.lockOwner(owner)
	defer unlock()

	var warnings []string
	records, err := s.store.LoadHistory(ctx, owner)
	if err != nil {
		log.Printf("WARN history: load failed owner=%s: %v", owner, err)
		metrics.IncHistoryWarning("load")
		warnings = append(warnings, WarnLoad)
		records = nil
	}

	records = Append(records, rec, s.max)

	if err := s.store.SaveHistory(ctx, owner, records); err != nil {
		log.Printf("WARN history: save failed owner=%s: %v", owner, err)
		metrics.IncHistoryWarning("save")
		warnings = append(warnings, WarnSave)
	}

	return rec, warnings
}

func (s *Service) lockOwner(owner string) func() {
	v, _ := s.owners.LoadOrStore(owner, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// List returns the history most recent first.
func (s *Service) List(ctx context.Context) ([]Entry, []string) {
	owner := userctx.OwnerID(ctx)

	records, err := s.store.LoadHistory(ctx, owner)
	if err != nil {
		log.Printf("WARN history: load failed owner=%s: %v", owner, err)
		metrics.IncHistoryWarning("load")
		return []Entry{}, []string{WarnLoad}
	}

	entries := make([]Entry, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		entries = append(entries, Entry{HistoryRecord: records[i], Line: Line(records[i])})
	}
	return entries, nil
}

// Append adds rec and drops the oldest records so at most max remain.
func Append(records []storage.HistoryRecord, rec storage.HistoryRecord, max int) []storage.HistoryRecord {
	records = append(records, rec)
	if len(records) > max {
		records = records[len(records)-max:]
	}
	out := make([]storage.HistoryRecord, len(records))
	copy(out, records)
	return out
}

// Line renders "date | bmi | category | weight" for list views.
func Line(r storage.HistoryRecord) string {
	day, _, _ := strings.Cut(r.Date, " ")
	weight, _, _ := strings.Cut(r.Weight, " ")
	return fmt.Sprintf("%s | %.2f | %-14s | %-6s", day, r.BMI, r.Category, weight)
}
