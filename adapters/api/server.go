package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"gohstat/app"
	"gohstat/domain/core"
	"gohstat/internal/errors"
	"gohstat/internal/report"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes the interaction service over HTTP
type Server struct {
	service *app.InteractionService
	config  Config
	router  *chi.Mux
}

// NewServer creates the API server and its routes
func NewServer(service *app.InteractionService, config Config) *Server {
	if config.Logger == nil {
		config.Logger = DefaultConfig().Logger
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultConfig().MaxBodyBytes
	}

	s := &Server{
		service: service,
		config:  config,
		router:  chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures HTTP middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	if s.config.RequestLogging {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/interactions", s.handleCompute)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Persistence: s.service.PersistenceEnabled()})
}

// handleCompute runs the engine on the posted data. ?format=text|markdown|html
// returns a rendered report instead of JSON.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}
	if r.URL.Query().Get("format") == "" {
		format = report.FormatJSON
	}

	var req InteractionRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, errors.InvalidInput("invalid request body: "+err.Error()))
		return
	}

	computeReq, err := req.toComputeRequest()
	if err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.service.Compute(r.Context(), computeReq)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if format == report.FormatJSON {
		writeJSON(w, http.StatusOK, resp)
		return
	}

	meta := report.Meta{Source: computeReq.Source, RowCount: resp.Run.RowCount}
	if resp.Persisted {
		meta.RunID = resp.Run.ID.String()
	}
	switch format {
	case report.FormatHTML:
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	case report.FormatMarkdown:
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}
	if err := report.Render(w, format, resp.Result, meta); err != nil {
		s.config.Logger.Error("failed to render report: %v", err)
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.writeError(w, errors.InvalidInput("limit must be a positive integer"))
			return
		}
		limit = n
	}

	runs, err := s.service.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RunListResponse{Runs: runs})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := core.ParseRunID(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, errors.InvalidInput(err.Error()))
		return
	}

	run, err := s.service.GetRun(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	if code == "UNKNOWN" {
		code = errors.CodeInternalError
	}
	if status >= http.StatusInternalServerError {
		s.config.Logger.Error("request failed: %v", err)
	}
	writeJSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: err.Error()}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
