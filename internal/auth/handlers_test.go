package auth

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/bmi-planner/internal/config"
	"github.com/fdg312/bmi-planner/internal/userctx"
	"github.com/golang-jwt/jwt/v5"
)

func testConfig(mode string, required bool) *config.Config {
	return &config.Config{
		AuthMode:      mode,
		AuthRequired:  required,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "bmi-planner-test",
		JWTTTLMinutes: 60,
	}
}

func TestHandleDevAuth(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		body     string
		wantCode int
		wantUser string
	}{
		{"EmptyBody", "dev", "", http.StatusOK, DevUserID},
		{"NamedUser", "dev", `{"user_id":"alice"}`, http.StatusOK, "alice"},
		{"InvalidUser", "dev", `{"user_id":"a/b"}`, http.StatusBadRequest, ""},
		{"InvalidJSON", "dev", `{`, http.StatusBadRequest, ""},
		{"Disabled", "none", "", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHandlers(NewService(testConfig(tt.mode, false)))
			req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewBufferString(tt.body))
			w := httptest.NewRecorder()

			handler.HandleDevAuth(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d. Body: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantUser == "" {
				return
			}

			var resp DevAuthResponse
			json.NewDecoder(w.Body).Decode(&resp)
			if resp.AccessToken == "" || resp.TokenType != "Bearer" {
				t.Errorf("unexpected response %+v", resp)
			}
			if resp.ExpiresIn != 3600 {
				t.Errorf("expected expires_in 3600, got %d", resp.ExpiresIn)
			}
			if resp.UserID != tt.wantUser {
				t.Errorf("expected user %q, got %q", tt.wantUser, resp.UserID)
			}
		})
	}
}

func TestJWTRoundTrip(t *testing.T) {
	service := NewService(testConfig("dev", true))

	token, err := service.generateJWTWithTTL("test_user_123", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	sub, err := service.VerifyJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if sub != "test_user_123" {
		t.Errorf("expected sub 'test_user_123', got '%s'", sub)
	}

	other := func(mutate func(*config.Config)) *Service {
		cfg := testConfig("dev", true)
		mutate(cfg)
		return NewService(cfg)
	}
	sign := func(svc *Service, sub string, ttl time.Duration) string {
		tok, err := svc.generateJWTWithTTL(sub, ttl)
		if err != nil {
			t.Fatal(err)
		}
		return tok
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "test_user_123",
		Issuer:    "bmi-planner-test",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"Expired", sign(service, "test_user_123", -time.Minute)},
		{"WrongSecret", sign(other(func(c *config.Config) { c.JWTSecret = "another-secret" }), "test_user_123", time.Hour)},
		{"WrongIssuer", sign(other(func(c *config.Config) { c.JWTIssuer = "someone-else" }), "test_user_123", time.Hour)},
		{"NoneAlgorithm", unsigned},
		{"SubjectWithSlash", sign(service, "../etc", time.Hour)},
		{"Garbage", "not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := service.VerifyJWT(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("expected ErrInvalidToken, got %v", err)
			}
		})
	}

	t.Run("ClockDrivesExpiry", func(t *testing.T) {
		svc := NewService(testConfig("dev", true))
		start := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return start }
		tok := sign(svc, "test_user_123", time.Hour)

		svc.now = func() time.Time { return start.Add(59 * time.Minute) }
		if _, err := svc.VerifyJWT(tok); err != nil {
			t.Fatalf("expected valid token before expiry, got %v", err)
		}
		svc.now = func() time.Time { return start.Add(61 * time.Minute) }
		if _, err := svc.VerifyJWT(tok); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected expiry, got %v", err)
		}
	})
}

func TestRequireAuth(t *testing.T) {
	cfg := testConfig("dev", true)
	service := NewService(cfg)
	middleware := NewMiddleware(cfg, service)

	token, err := service.generateJWTWithTTL("bob", time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		path     string
		header   string
		wantCode int
		wantSub  string
	}{
		{"ValidToken", "/v1/profile", "Bearer " + token, http.StatusOK, "bob"},
		{"MissingToken", "/v1/profile", "", http.StatusUnauthorized, ""},
		{"WrongScheme", "/v1/profile", "Basic " + token, http.StatusUnauthorized, ""},
		{"InvalidToken", "/v1/profile", "Bearer invalid", http.StatusUnauthorized, ""},
		{"HealthzIsPublic", "/healthz", "", http.StatusOK, userctx.DefaultOwner},
		{"AuthPathIsPublic", "/v1/auth/dev", "", http.StatusOK, userctx.DefaultOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			var gotSub string
			handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSub = userctx.OwnerID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if gotSub != tt.wantSub {
				t.Errorf("expected owner %q, got %q", tt.wantSub, gotSub)
			}
		})
	}
}

func TestMiddlewareHandlerPolicy(t *testing.T) {
	tests := []struct {
		name     string
		mode     string
		required bool
		header   string
		wantCode int
		wantSub  string
	}{
		{"NoneIgnoresToken", "none", true, "Bearer invalid", http.StatusOK, userctx.DefaultOwner},
		{"RequiredWithoutToken", "dev", true, "", http.StatusUnauthorized, ""},
		{"OptionalWithoutToken", "dev", false, "", http.StatusOK, userctx.DefaultOwner},
		{"OptionalInvalidToken", "dev", false, "Bearer invalid", http.StatusUnauthorized, ""},
		{"OptionalValidToken", "dev", false, "valid", http.StatusOK, "carol"},
		{"LowercaseScheme", "dev", true, "lowercase", http.StatusOK, "carol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.mode, tt.required)
			service := NewService(cfg)
			middleware := NewMiddleware(cfg, service)

			token, err := service.generateJWTWithTTL("carol", time.Hour)
			if err != nil {
				t.Fatal(err)
			}
			header := tt.header
			switch header {
			case "valid":
				header = "Bearer " + token
			case "lowercase":
				header = "bearer " + token
			}

			req := httptest.NewRequest("GET", "/v1/plan", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			var gotSub string
			middleware.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSub = userctx.OwnerID(r.Context())
				w.WriteHeader(http.StatusOK)
			})).ServeHTTP(w, req)

			if w.Code != tt.wantCode {
				t.Fatalf("expected status %d, got %d", tt.wantCode, w.Code)
			}
			if gotSub != tt.wantSub {
				t.Errorf("expected owner %q, got %q", tt.wantSub, gotSub)
			}
			if w.Code == http.StatusUnauthorized {
				var resp ErrorResponse
				if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if resp.Error.Code != "unauthorized" {
					t.Errorf("expected code unauthorized, got %q", resp.Error.Code)
				}
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	cfg := testConfig("dev", false)
	service := NewService(cfg)
	middleware := NewMiddleware(cfg, service)

	t.Run("NoTokenPasses", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/profile", nil)
		w := httptest.NewRecorder()

		var called bool
		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !called || w.Code != http.StatusOK {
			t.Fatalf("expected passthrough with 200, got called=%v status=%d", called, w.Code)
		}
	})

	t.Run("ValidTokenAddsContext", func(t *testing.T) {
		token, err := service.generateJWTWithTTL("test_user_123", time.Hour)
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/profile", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		var gotSub string
		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSub, _ = userctx.GetUserID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotSub != "test_user_123" {
			t.Fatalf("expected sub in context, got %q", gotSub)
		}
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/profile", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()

		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})
}
