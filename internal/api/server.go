// Package api serves the coach over JSON HTTP for browser clients.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-fitness-coach/internal/auth"
	"ai-fitness-coach/internal/dashboard"
	"ai-fitness-coach/internal/logging"
	"ai-fitness-coach/internal/storage"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// Coach is everything the API needs from the AI pipelines.
// *planner.Planner satisfies it.
type Coach interface {
	dashboard.PlanSource
	AnalyzePosture(ctx context.Context, exerciseName string) string
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	kv          storage.KV
	coach       Coach
	issuer      *auth.Issuer
	corsOrigins []string
	logger      *zap.Logger
}

func NewServer(kv storage.KV, coach Coach, issuer *auth.Issuer, corsOrigins []string, logger *zap.Logger) *Server {
	return &Server{
		kv:          kv,
		coach:       coach,
		issuer:      issuer,
		corsOrigins: corsOrigins,
		logger:      logging.OrNop(logger),
	}
}

// Register mounts the API routes on r under /api.
func (s *Server) Register(r *mux.Router) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/profile", s.getProfile).Methods(http.MethodGet)
	api.HandleFunc("/profile", s.putProfile).Methods(http.MethodPut)
	api.HandleFunc("/profile", s.deleteProfile).Methods(http.MethodDelete)
	api.HandleFunc("/plans", s.createPlans).Methods(http.MethodPost)
	api.HandleFunc("/plans/workout", s.createWorkout).Methods(http.MethodPost)
	api.HandleFunc("/posture", s.analyzePosture).Methods(http.MethodPost)
	api.HandleFunc("/progress", s.getProgress).Methods(http.MethodGet)
}

// Handler returns a standalone router with the API, /health, request
// logging and CORS.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	s.Register(r)
	return s.Wrap(r)
}

// Wrap adds CORS and request logging around next.
func (s *Server) Wrap(next http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	})
	return c.Handler(s.loggingMiddleware(next))
}

// Health reports that the process is up.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type ownerKey struct{}

func ownerFrom(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey{}).(string)
	return owner
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		owner, err := s.issuer.Parse(token)
		if err != nil {
			s.logger.Warn("rejected API token", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey{}, owner)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decodeBody decodes an optional JSON body into v. An empty body is allowed.
func decodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
