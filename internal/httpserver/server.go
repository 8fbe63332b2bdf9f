package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/fdg312/bmi-planner/internal/ai"
	"github.com/fdg312/bmi-planner/internal/auth"
	"github.com/fdg312/bmi-planner/internal/blob"
	"github.com/fdg312/bmi-planner/internal/bmi"
	"github.com/fdg312/bmi-planner/internal/chat"
	"github.com/fdg312/bmi-planner/internal/config"
	"github.com/fdg312/bmi-planner/internal/history"
	"github.com/fdg312/bmi-planner/internal/intakes"
	"github.com/fdg312/bmi-planner/internal/mealplans"
	"github.com/fdg312/bmi-planner/internal/metrics"
	"github.com/fdg312/bmi-planner/internal/nutrition"
	"github.com/fdg312/bmi-planner/internal/profiles"
	"github.com/fdg312/bmi-planner/internal/reports"
	"github.com/fdg312/bmi-planner/internal/schedules"
	"github.com/fdg312/bmi-planner/internal/storage"
	"github.com/fdg312/bmi-planner/internal/storage/memory"
	"github.com/fdg312/bmi-planner/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	postgres       bool
	authMiddleware *auth.Middleware
	chatRegistry   *chat.Registry
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) (*Server, error) {
	s := &Server{
		config: cfg,
		mux:    http.NewServeMux(),
	}

	// Инициализируем storage
	s.initStorage()

	// Регистрируем маршруты
	if err := s.routes(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// initStorage инициализирует storage (Memory или Postgres)
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: mode=memory")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL...")
	pgStorage, err := postgres.New(context.Background(), s.config.DatabaseURL)
	if err != nil {
		log.Printf("WARN storage: postgres unavailable: %v", err)
		log.Println("INFO storage: mode=memory (fallback)")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: mode=postgres")
	s.storage = pgStorage
	s.postgres = true
}

// historyStore picks the history backend for HISTORY_MODE.
func (s *Server) historyStore() storage.HistoryStorage {
	mode := s.config.EffectiveHistoryMode()
	switch mode {
	case config.HistoryModeMemory:
		log.Println("INFO history: mode=memory")
		if s.postgres {
			return memory.NewHistoryMemoryStorage()
		}
		return s.storage.History()
	case config.HistoryModePostgres:
		if s.postgres {
			log.Println("INFO history: mode=postgres")
			return s.storage.History()
		}
		log.Println("WARN history: mode=postgres requested without database, fallback=file")
	}

	path := s.config.HistoryFile
	if path == "" {
		path = config.DefaultHistoryFile
	}
	log.Printf("INFO history: mode=file path=%s", path)
	return history.NewFileStore(path)
}

// routes регистрирует маршруты
func (s *Server) routes() error {
	// Health check (no auth required)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", metrics.Handler())

	// Auth API (no auth required)
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)

	// POST /v1/auth/dev - local dev token
	s.mux.HandleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)

	// Hydration and profile
	intakesService := intakes.NewService(s.storage.Intakes(), s.config)
	intakesHandler := intakes.NewHandlers(intakesService)

	profileService := profiles.NewService(s.storage.Profiles()).WithHydrationResetter(intakesService)
	profileHandler := profiles.NewHandler(profileService)

	s.mux.HandleFunc("GET /v1/profile", profileHandler.HandleGet)
	s.mux.HandleFunc("DELETE /v1/profile", profileHandler.HandleClear)
	s.mux.HandleFunc("GET /v1/activity-levels", profileHandler.HandleActivityLevels)

	s.mux.HandleFunc("POST /v1/intakes/water", intakesHandler.HandleAddWater)
	s.mux.HandleFunc("GET /v1/intakes/water", intakesHandler.HandleGetWater)

	// Calculator and history
	historyService := history.NewService(s.historyStore(), s.config.HistoryMaxRecords)
	historyHandler := history.NewHandler(historyService)
	bmiHandler := bmi.NewHandler(bmi.NewService(profileService, historyService))

	s.mux.HandleFunc("POST /v1/bmi/calculate", bmiHandler.HandleCalculate)
	s.mux.HandleFunc("GET /v1/bmi/history", historyHandler.HandleList)

	// Plans
	planHandler := nutrition.NewHandler(nutrition.NewService(profileService))
	mealsHandler := mealplans.NewHandler(mealplans.NewService(profileService))
	scheduleHandler := schedules.NewHandler(schedules.NewService(profileService))

	s.mux.HandleFunc("GET /v1/plan", planHandler.HandleGetPlan)
	s.mux.HandleFunc("GET /v1/plan/meals", mealsHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/plan/schedule", scheduleHandler.HandleGet)

	// Chat API
	s.chatRegistry = chat.NewRegistry(ai.NewProvider(s.config), s.storage.Chat())
	chatService := chat.NewService(s.chatRegistry, profileService, intakesService)
	chatHandler := chat.NewHandler(chatService)

	s.mux.HandleFunc("GET /v1/chat/messages", chatHandler.HandleListMessages)
	s.mux.HandleFunc("POST /v1/chat/messages", chatHandler.HandleSendMessage)
	s.mux.HandleFunc("DELETE /v1/chat/messages", chatHandler.HandleReset)
	s.mux.HandleFunc("GET /v1/chat/suggestions", chatHandler.HandleSuggestions)

	// Exports API
	blobStore, blobMode, err := blob.NewBlobStore(context.Background(), s.config.Blob, log.Default())
	if err != nil {
		return fmt.Errorf("init blob store: %w", err)
	}
	log.Printf("INFO exports: blob_mode=%s", blobMode)

	exportsService := reports.NewService(
		s.storage.Exports(),
		profileService,
		chatService,
		blobStore,
	)
	exportsHandler := reports.NewHandlers(exportsService)

	// POST /v1/exports - create export
	s.mux.HandleFunc("POST /v1/exports", exportsHandler.HandleCreate)

	// GET /v1/exports - list exports
	s.mux.HandleFunc("GET /v1/exports", exportsHandler.HandleList)

	// GET /v1/exports/{id}/download - download export
	s.mux.HandleFunc("GET /v1/exports/{id}/download", exportsHandler.HandleDownload)

	// DELETE /v1/exports/{id} - delete export
	s.mux.HandleFunc("DELETE /v1/exports/{id}", exportsHandler.HandleDelete)

	return nil
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Handler builds the middleware chain (outermost first): CORS → Rate Limit → Auth → Metrics → Router
func (s *Server) Handler() http.Handler {
	var handler http.Handler = metrics.Middleware(s.mux)
	if s.authMiddleware != nil {
		handler = s.authMiddleware.Handler(handler)
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	log.Printf("Сервер запущен на http://localhost%s\n", addr)
	log.Printf("Health check: http://localhost%s/healthz\n", addr)
	log.Printf("Calculator API: http://localhost%s/v1/bmi/calculate\n", addr)

	return http.ListenAndServe(addr, s.Handler())
}

// Close останавливает чат-сессии и закрывает storage
func (s *Server) Close() error {
	if s.chatRegistry != nil {
		s.chatRegistry.Close()
	}
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
