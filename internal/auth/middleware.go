package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/fdg312/bmi-planner/internal/config"
	"github.com/fdg312/bmi-planner/internal/userctx"
)

// Middleware привязывает запрос к владельцу данных по Bearer-токену.
type Middleware struct {
	config  *config.Config
	service *Service
}

func NewMiddleware(cfg *config.Config, service *Service) *Middleware {
	return &Middleware{
		config:  cfg,
		service: service,
	}
}

// Handler applies the policy selected by AUTH_MODE and AUTH_REQUIRED:
//
//	AUTH_MODE=none       no token is read, everything belongs to the default owner
//	AUTH_REQUIRED=true   every non-public request needs a valid token
//	otherwise            a token is optional, but an invalid one is rejected
func (m *Middleware) Handler(next http.Handler) http.Handler {
	if m.config.AuthMode == "none" {
		return next
	}
	if m.config.AuthRequired {
		return m.RequireAuth(next)
	}
	return m.OptionalAuth(next)
}

// RequireAuth rejects non-public requests without a valid token.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Unauthorized")
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithUserID(r.Context(), userID)))
	})
}

// OptionalAuth scopes requests that carry a token; anonymous ones fall to the default owner.
func (m *Middleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) || strings.TrimSpace(r.Header.Get("Authorization")) == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticate(r)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
			return
		}

		next.ServeHTTP(w, r.WithContext(userctx.WithUserID(r.Context(), userID)))
	})
}

func (m *Middleware) authenticate(r *http.Request) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrInvalidToken
	}

	userID, err := m.service.VerifyJWT(strings.TrimSpace(token))
	if err != nil {
		log.Printf("WARN auth: token rejected method=%s path=%s: %v", r.Method, r.URL.Path, err)
		return "", err
	}
	log.Printf("INFO auth: token accepted sub=%s method=%s path=%s", userID, r.Method, r.URL.Path)
	return userID, nil
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

// Probes, metrics scraping and token issuance never need a token.
func isPublicPath(path string) bool {
	return path == "/healthz" || path == "/metrics" || strings.HasPrefix(path, "/v1/auth/")
}
