package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/fdg312/diet-planner/internal/auth"
	"github.com/fdg312/diet-planner/internal/blob"
	"github.com/fdg312/diet-planner/internal/config"
	"github.com/fdg312/diet-planner/internal/dailyplans"
	"github.com/fdg312/diet-planner/internal/foods"
	"github.com/fdg312/diet-planner/internal/mealtypes"
	"github.com/fdg312/diet-planner/internal/profiles"
	"github.com/fdg312/diet-planner/internal/reports"
	"github.com/fdg312/diet-planner/internal/storage"
	"github.com/fdg312/diet-planner/internal/storage/memory"
	"github.com/fdg312/diet-planner/internal/storage/postgres"
)

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	storage        storage.Storage
	catalog        *foods.Catalog
	authMiddleware *auth.Middleware
}

// New создаёт новый HTTP сервер
func New(cfg *config.Config) *Server {
	s := &Server{
		config:  cfg,
		mux:     http.NewServeMux(),
		catalog: foods.MustLoad(),
	}

	s.initStorage()
	s.routes()
	return s
}

// initStorage picks Postgres when a database URL is configured, otherwise memory.
// Outside production a failed connection falls back to memory.
func (s *Server) initStorage() {
	if s.config.DatabaseURL == "" {
		log.Println("INFO storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: connecting to PostgreSQL...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		if s.config.Env == "production" {
			log.Fatalf("FATAL storage: PostgreSQL unreachable: %v", err)
		}
		log.Printf("WARN storage: PostgreSQL unreachable: %v", err)
		log.Println("WARN storage: falling back to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Println("INFO storage: PostgreSQL connected")
	s.storage = pgStorage
}

// routes регистрирует маршруты
func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealthz)

	// Auth
	authService := auth.NewService(s.config)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	s.mux.HandleFunc("POST /v1/auth/anonymous", authHandler.HandleAnonymous)

	// Catalog
	foodsHandler := foods.NewHandler(s.catalog)
	s.mux.HandleFunc("GET /v1/foods", foodsHandler.HandleSearch)
	s.mux.HandleFunc("GET /v1/foods/{id}", foodsHandler.HandleGet)
	s.mux.HandleFunc("GET /v1/activity-levels", foodsHandler.HandleActivityLevels)

	// Profiles
	profileService := profiles.NewService(s.storage, s.config.Now)
	profileHandler := profiles.NewHandler(profileService)
	s.mux.HandleFunc("POST /v1/profiles/identify", profileHandler.HandleIdentify)
	s.mux.HandleFunc("GET /v1/profiles/{handle}", profileHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/profiles/{handle}/profile", profileHandler.HandleUpdateProfile)
	s.mux.HandleFunc("PUT /v1/profiles/{handle}/goals", profileHandler.HandleUpdateGoals)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/goals/suggested", profileHandler.HandleSuggestedGoals)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/metrics", profileHandler.HandleMetrics)

	plansStorage := s.getDailyPlansStorage()

	// Meal types
	mealTypesService := mealtypes.NewService(profileService, plansStorage, s.config.MealTypesMax)
	mealTypesHandler := mealtypes.NewHandler(mealTypesService)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/meal-types", mealTypesHandler.HandleList)
	s.mux.HandleFunc("POST /v1/profiles/{handle}/meal-types", mealTypesHandler.HandleCreate)
	s.mux.HandleFunc("PATCH /v1/profiles/{handle}/meal-types/{key}", mealTypesHandler.HandleUpdate)
	s.mux.HandleFunc("DELETE /v1/profiles/{handle}/meal-types/{key}", mealTypesHandler.HandleDelete)

	// Daily plans
	plansService := dailyplans.NewService(profileService, plansStorage, s.catalog, s.config.PlanMaxEntriesPerMeal)
	plansHandler := dailyplans.NewHandler(plansService)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/plans/{date}", plansHandler.HandleGet)
	s.mux.HandleFunc("PUT /v1/profiles/{handle}/plans/{date}", plansHandler.HandleSave)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/plans/{date}/summary", plansHandler.HandleSummary)
	s.mux.HandleFunc("POST /v1/profiles/{handle}/plans/{date}/entries", plansHandler.HandleAddEntry)
	s.mux.HandleFunc("PATCH /v1/profiles/{handle}/plans/{date}/entries/{entryID}", plansHandler.HandleUpdateEntry)
	s.mux.HandleFunc("DELETE /v1/profiles/{handle}/plans/{date}/entries/{entryID}", plansHandler.HandleDeleteEntry)
	s.mux.HandleFunc("POST /v1/profiles/{handle}/plans/{date}/entries/{entryID}/move", plansHandler.HandleMoveEntry)

	// Reports
	reportsStore := s.initReportsBlobStore()
	reportsService := reports.NewService(
		profileService,
		plansStorage,
		s.getReportsStorage(),
		reportsStore,
		s.config.ReportsMaxRangeDays,
		s.config.Blob.S3.PresignTTLSeconds,
		s.config.Blob.S3.PublicBaseURL,
		s.config.Blob.S3.PreferPublicURL,
	)
	reportsHandler := reports.NewHandlers(reportsService)
	s.mux.HandleFunc("POST /v1/profiles/{handle}/reports", reportsHandler.HandleCreate)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/reports", reportsHandler.HandleList)
	s.mux.HandleFunc("GET /v1/profiles/{handle}/reports/{id}/download", reportsHandler.HandleDownload)
	s.mux.HandleFunc("DELETE /v1/profiles/{handle}/reports/{id}", reportsHandler.HandleDelete)
}

// Handler returns the router wrapped in the middleware chain
// (outermost first): CORS → Rate Limit → Auth → Router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	if s.authMiddleware != nil && s.config.AuthMode != config.AuthModeNone {
		if s.config.AuthRequired {
			handler = s.authMiddleware.RequireAuth(handler)
		} else {
			handler = s.authMiddleware.OptionalAuth(handler)
		}
	}
	handler = RateLimitMiddleware(s.config, handler)
	handler = CORSMiddleware(s.config, handler)
	return handler
}

// Start запускает HTTP сервер
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("INFO httpserver: listening on http://localhost%s", addr)
	log.Printf("INFO httpserver: health check http://localhost%s/healthz", addr)
	log.Printf("INFO httpserver: foods catalog loaded (%d items)", s.catalog.Len())

	return srv.ListenAndServe()
}

// Close releases the storage connection.
func (s *Server) Close() error {
	if s.storage == nil {
		return nil
	}
	return s.storage.Close()
}

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

// getDailyPlansStorage returns the daily plans storage based on storage type.
func (s *Server) getDailyPlansStorage() storage.DailyPlansStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetDailyPlansStorage()
	case *postgres.PostgresStorage:
		return st.GetDailyPlansStorage()
	default:
		log.Fatal("FATAL storage: unknown storage type")
		return nil
	}
}

// getReportsStorage returns the reports storage based on storage type.
func (s *Server) getReportsStorage() storage.ReportsStorage {
	switch st := s.storage.(type) {
	case *memory.MemoryStorage:
		return st.GetReportsStorage()
	case *postgres.PostgresStorage:
		return st.GetReportsStorage()
	default:
		log.Fatal("FATAL storage: unknown storage type")
		return nil
	}
}

// initReportsBlobStore resolves BLOB_MODE; a nil store keeps reports inline.
func (s *Server) initReportsBlobStore() blob.Store {
	rs, err := blob.OpenReportStore(context.Background(), s.config.Blob, log.Default())
	if err != nil {
		log.Fatalf("FATAL reports.blob: failed to initialize reports store: %v", err)
	}
	return rs.Store
}
