package reports

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fdg312/bmi-planner/internal/blob"
	"github.com/fdg312/bmi-planner/internal/chat"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/storage/memory"
	"github.com/fdg312/bmi-planner/internal/userctx"
	"github.com/google/uuid"
)

type mockProfiles struct {
	profile *profiles.HealthProfile
}

func (m mockProfiles) Current(ctx context.Context) (*profiles.HealthProfile, error) {
	if m.profile == nil {
		return nil, profiles.ErrProfileRequired
	}
	return m.profile, nil
}

type mockTranscript struct {
	turns []chat.Turn
}

func (m mockTranscript) Turns(ctx context.Context) ([]chat.Turn, error) {
	return m.turns, nil
}

func sampleProfile() *profiles.HealthProfile {
	return &profiles.HealthProfile{
		Name:          "Alex",
		Weight:        70,
		Height:        1.75,
		Unit:          profiles.UnitMetric,
		Age:           30,
		Gender:        profiles.GenderMale,
		ActivityLevel: profiles.ModeratelyActive,
		Goal:          profiles.GoalLoseWeight,
		Diet:          profiles.DietOmnivore,
		BMI:           22.86,
		Category:      profiles.CategoryNormal,
	}
}

func setupHandlers(p *profiles.HealthProfile, turns []chat.Turn) *Handlers {
	svc := NewService(memory.NewExportsMemoryStorage(), mockProfiles{profile: p}, mockTranscript{turns: turns}, blob.NewMemoryStore())
	return NewHandlers(svc)
}

func create(t *testing.T, h *Handlers, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.HandleCreate(w, httptest.NewRequest(http.MethodPost, "/v1/exports", bytes.NewBufferString(body)))
	return w
}

func TestChatText(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 5, 0, 0, time.UTC)

	if _, err := ChatText(nil, at); err != ErrEmptyConversation {
		t.Fatalf("expected ErrEmptyConversation, got %v", err)
	}

	text, err := ChatText([]chat.Turn{
		{Role: chat.RoleBot, Text: "Hello!"},
		{Role: chat.RoleUser, Text: " water? "},
	}, at)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Health Chatbot Conversation History (2026-03-04 09:05)\n" + chatRule + "\n\n[BOT]: Hello!\n\n[USER]: water?"
	if text != want {
		t.Errorf("got %q, want %q", text, want)
	}
}

func TestPdfSafe(t *testing.T) {
	got := pdfSafe("**Bold** 💧 water")
	if got != "Bold  water" {
		t.Errorf("got %q", got)
	}
}

func TestHandleCreate(t *testing.T) {
	turns := []chat.Turn{{Role: chat.RoleBot, Text: "Hi there"}}

	tests := []struct {
		name     string
		profile  *profiles.HealthProfile
		turns    []chat.Turn
		body     string
		wantCode int
		wantErr  string
	}{
		{"plan txt", sampleProfile(), nil, `{"kind":"plan","format":"txt"}`, http.StatusCreated, ""},
		{"plan pdf", sampleProfile(), nil, `{"kind":"plan","format":"pdf"}`, http.StatusCreated, ""},
		{"chat default format", nil, turns, `{"kind":"chat"}`, http.StatusCreated, ""},
		{"plan without profile", nil, nil, `{"kind":"plan","format":"txt"}`, http.StatusConflict, "profile_required"},
		{"empty conversation", nil, nil, `{"kind":"chat","format":"txt"}`, http.StatusConflict, "empty_conversation"},
		{"bad kind", nil, nil, `{"kind":"csv"}`, http.StatusBadRequest, "invalid_kind"},
		{"bad format", sampleProfile(), nil, `{"kind":"plan","format":"docx"}`, http.StatusBadRequest, "invalid_format"},
		{"bad json", nil, nil, `{`, http.StatusBadRequest, "invalid_request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := setupHandlers(tt.profile, tt.turns)
			w := create(t, h, tt.body)

			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantErr != "" {
				var resp struct {
					Error struct {
						Code string `json:"code"`
					} `json:"error"`
				}
				json.NewDecoder(w.Body).Decode(&resp)
				if resp.Error.Code != tt.wantErr {
					t.Errorf("expected code %s, got %s", tt.wantErr, resp.Error.Code)
				}
				return
			}

			var dto ExportDTO
			json.NewDecoder(w.Body).Decode(&dto)
			if dto.Status != StatusReady || dto.SizeBytes == 0 {
				t.Errorf("unexpected export %+v", dto)
			}
			if !strings.HasSuffix(dto.DownloadURL, "/v1/exports/"+dto.ID.String()+"/download") {
				t.Errorf("unexpected download url %s", dto.DownloadURL)
			}
		})
	}
}

func TestDownloadStreamsFromMemoryStore(t *testing.T) {
	h := setupHandlers(sampleProfile(), nil)

	for _, format := range []string{FormatTXT, FormatPDF} {
		t.Run(format, func(t *testing.T) {
			w := create(t, h, `{"kind":"plan","format":"`+format+`"}`)
			var dto ExportDTO
			json.NewDecoder(w.Body).Decode(&dto)

			req := httptest.NewRequest(http.MethodGet, "/v1/exports/"+dto.ID.String()+"/download", nil)
			req.SetPathValue("id", dto.ID.String())
			w = httptest.NewRecorder()
			h.HandleDownload(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			if !strings.Contains(w.Header().Get("Content-Disposition"), dto.Filename) {
				t.Errorf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
			}
			body := w.Body.String()
			switch format {
			case FormatPDF:
				if !strings.HasPrefix(body, "%PDF") {
					t.Errorf("expected a PDF document")
				}
			default:
				if !strings.Contains(body, "**DAILY NUTRITION TARGETS:**") {
					t.Errorf("plan text missing targets: %q", body)
				}
				if !strings.Contains(body, "Meal Suggestions for: **Omnivore** Diet") {
					t.Errorf("plan text missing meals: %q", body)
				}
			}
		})
	}
}

func TestExportsAreOwnerScoped(t *testing.T) {
	h := setupHandlers(sampleProfile(), nil)

	aliceCtx := userctx.WithUserID(context.Background(), "alice")
	req := httptest.NewRequest(http.MethodPost, "/v1/exports", bytes.NewBufferString(`{"kind":"plan"}`)).WithContext(aliceCtx)
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var dto ExportDTO
	json.NewDecoder(w.Body).Decode(&dto)

	// list as alice
	w = httptest.NewRecorder()
	h.HandleList(w, httptest.NewRequest(http.MethodGet, "/v1/exports", nil).WithContext(aliceCtx))
	var list ExportsResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Exports) != 1 {
		t.Fatalf("expected 1 export for alice, got %d", len(list.Exports))
	}

	// default owner sees nothing
	w = httptest.NewRecorder()
	h.HandleList(w, httptest.NewRequest(http.MethodGet, "/v1/exports", nil))
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Exports) != 0 {
		t.Errorf("expected no exports for default owner, got %d", len(list.Exports))
	}

	// default owner cannot delete
	req = httptest.NewRequest(http.MethodDelete, "/v1/exports/"+dto.ID.String(), nil)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	h.HandleDelete(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	// alice deletes
	req = httptest.NewRequest(http.MethodDelete, "/v1/exports/"+dto.ID.String(), nil).WithContext(aliceCtx)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	h.HandleDelete(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
}

func TestHandleDownloadErrors(t *testing.T) {
	h := setupHandlers(nil, nil)

	tests := []struct {
		name     string
		id       string
		wantCode int
	}{
		{"invalid id", "not-a-uuid", http.StatusBadRequest},
		{"unknown id", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/v1/exports/"+tt.id+"/download", nil)
			req.SetPathValue("id", tt.id)
			w := httptest.NewRecorder()
			h.HandleDownload(w, req)
			if w.Code != tt.wantCode {
				t.Errorf("expected %d, got %d", tt.wantCode, w.Code)
			}
		})
	}
}

// presigningStore records uploads and hands out direct links like the S3 store.
type presigningStore struct {
	*blob.MemoryStore
	puts   []blob.File
	putErr error
}

func (p *presigningStore) Put(ctx context.Context, f blob.File) (int64, error) {
	p.puts = append(p.puts, f)
	if p.putErr != nil {
		return 0, p.putErr
	}
	return p.MemoryStore.Put(ctx, f)
}

func (p *presigningStore) DownloadURL(ctx context.Context, key, filename string) (string, error) {
	return "https://objects.example/" + key + "?filename=" + filename, nil
}

func TestDownloadRedirectsToPresignedURL(t *testing.T) {
	store := &presigningStore{MemoryStore: blob.NewMemoryStore()}
	svc := NewService(memory.NewExportsMemoryStorage(), mockProfiles{profile: sampleProfile()}, mockTranscript{}, store)
	h := NewHandlers(svc)

	aliceCtx := userctx.WithUserID(context.Background(), "alice")
	req := httptest.NewRequest(http.MethodPost, "/v1/exports", bytes.NewBufferString(`{"kind":"plan","format":"pdf"}`)).WithContext(aliceCtx)
	w := httptest.NewRecorder()
	h.HandleCreate(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var dto ExportDTO
	json.NewDecoder(w.Body).Decode(&dto)

	if len(store.puts) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(store.puts))
	}
	put := store.puts[0]
	wantKey := "exports/alice/" + dto.ID.String() + ".pdf"
	if put.Key != wantKey {
		t.Errorf("expected key %s, got %s", wantKey, put.Key)
	}
	if put.Filename != dto.Filename || !strings.HasPrefix(put.Filename, "health_plan_") {
		t.Errorf("expected filename %s, got %s", dto.Filename, put.Filename)
	}
	if put.ContentType != "application/pdf" {
		t.Errorf("expected application/pdf, got %s", put.ContentType)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/exports/"+dto.ID.String()+"/download", nil).WithContext(aliceCtx)
	req.SetPathValue("id", dto.ID.String())
	w = httptest.NewRecorder()
	h.HandleDownload(w, req)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	want := "https://objects.example/" + wantKey + "?filename=" + dto.Filename
	if loc := w.Header().Get("Location"); loc != want {
		t.Errorf("expected Location %s, got %s", want, loc)
	}
}

func TestCreateRecordsFailedUpload(t *testing.T) {
	store := &presigningStore{MemoryStore: blob.NewMemoryStore(), putErr: errors.New("bucket unavailable")}
	svc := NewService(memory.NewExportsMemoryStorage(), mockProfiles{profile: sampleProfile()}, mockTranscript{}, store)
	h := NewHandlers(svc)

	w := create(t, h, `{"kind":"plan"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	h.HandleList(w, httptest.NewRequest(http.MethodGet, "/v1/exports", nil))
	var list ExportsResponse
	json.NewDecoder(w.Body).Decode(&list)
	if len(list.Exports) != 1 || list.Exports[0].Status != StatusFailed {
		t.Fatalf("expected one failed export, got %+v", list.Exports)
	}
	if list.Exports[0].Error == nil || !strings.Contains(*list.Exports[0].Error, "bucket unavailable") {
		t.Errorf("expected upload error recorded, got %v", list.Exports[0].Error)
	}
}
