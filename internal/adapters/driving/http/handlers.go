package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/swaggo/swag"

	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// maxScoreBody limits ad-hoc scoring requests
const maxScoreBody = 4 << 20

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// ReadyResponse lists the health of each configured backend
// @Description Readiness response
type ReadyResponse struct {
	Status   string            `json:"status" example:"ready"`
	Backends map[string]string `json:"backends"`
}

// VersionResponse represents the API version response
// @Description API version response
type VersionResponse struct {
	Version string `json:"version" example:"1.0.0"`
}

// ScoreRequest carries text to score
// @Description Ad-hoc scoring request
type ScoreRequest struct {
	Text string `json:"text" example:"the state power grid needs new energy storage"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Pings every configured backend (cache, lock, store)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  ReadyResponse
// @Failure      503  {object}  ReadyResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	resp := ReadyResponse{Status: "ready", Backends: make(map[string]string, len(s.pingers))}
	status := http.StatusOK

	for name, p := range s.pingers {
		if err := p.Ping(r.Context()); err != nil {
			resp.Backends[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Backends[name] = "ok"
	}

	writeJSON(w, status, resp)
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  VersionResponse
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionResponse{Version: s.version})
}

// handleSwaggerDoc serves the generated OpenAPI document
func (s *Server) handleSwaggerDoc(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "api documentation unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(doc))
}

// Auth endpoints

// handleLogin godoc
// @Summary      Login
// @Description  Authenticate with username and password to receive a JWT token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      domain.LoginRequest  true  "Login credentials"
// @Success      200      {object}  domain.LoginResponse
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Failure      401      {object}  ErrorResponse  "Invalid credentials"
// @Failure      500      {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp, err := s.authService.Authenticate(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "username and password required")
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		default:
			s.logger.Error("authentication failed", "error", err)
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Report endpoints

// handleGetReport godoc
// @Summary      Get index report
// @Description  Returns the latest Energy Policy Index report of a corpus
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Param        corpus  path      string  true  "Corpus name"
// @Success      200     {object}  domain.PolicyIndexReport
// @Failure      401     {object}  ErrorResponse  "Unauthorized"
// @Failure      404     {object}  ErrorResponse  "No report for corpus"
// @Router       /reports/{corpus} [get]
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reportService.GetReport(r.Context(), r.PathValue("corpus"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleGetFrequencies godoc
// @Summary      Get n-gram frequencies
// @Description  Returns the latest n-gram frequency table of a corpus
// @Tags         Reports
// @Produce      json
// @Security     BearerAuth
// @Param        corpus  path      string  true   "Corpus name"
// @Param        n       query     int     false  "N-gram size"  default(1)
// @Param        top     query     int     false  "Keep only the most frequent entries (0 = all)"  default(0)
// @Success      200     {object}  domain.FrequencyTable
// @Failure      400     {object}  ErrorResponse  "Invalid query"
// @Failure      404     {object}  ErrorResponse  "No table for corpus"
// @Router       /frequencies/{corpus} [get]
func (s *Server) handleGetFrequencies(w http.ResponseWriter, r *http.Request) {
	n, err := queryInt(r, "n", 1)
	if err != nil {
		writeError(w, http.StatusBadRequest, "n must be an integer")
		return
	}
	top, err := queryInt(r, "top", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "top must be an integer")
		return
	}

	table, err := s.reportService.GetFrequencies(r.Context(), r.PathValue("corpus"), n, top)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, table)
}

// handleGetRun godoc
// @Summary      Get run
// @Description  Returns a persisted analysis run
// @Tags         Runs
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Run ID"
// @Success      200  {object}  domain.Run
// @Failure      404  {object}  ErrorResponse  "Run not found"
// @Router       /runs/{id} [get]
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	run, err := s.reportService.GetRun(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleTriggerRun godoc
// @Summary      Run analysis
// @Description  Runs the full analysis of a configured corpus and waits for the result (admin only)
// @Tags         Runs
// @Produce      json
// @Security     BearerAuth
// @Param        corpus  path      string  true  "Configured corpus name"
// @Success      200     {object}  domain.RunResult
// @Failure      403     {object}  ErrorResponse  "Admin access required"
// @Failure      404     {object}  ErrorResponse  "Corpus not configured"
// @Failure      409     {object}  ErrorResponse  "Run already in progress"
// @Failure      500     {object}  domain.RunResult
// @Router       /runs/{corpus} [post]
func (s *Server) handleTriggerRun(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs[r.PathValue("corpus")]
	if !ok || s.orchestrator == nil {
		writeError(w, http.StatusNotFound, "corpus not configured")
		return
	}

	result, err := s.orchestrator.Run(r.Context(), job)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) || result == nil {
			s.writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusInternalServerError, result)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleScore godoc
// @Summary      Score text
// @Description  Computes the Energy Policy Index of ad-hoc text with the configured keywords
// @Tags         Analysis
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ScoreRequest  true  "Text to score"
// @Success      200      {object}  domain.DensityResult
// @Failure      400      {object}  ErrorResponse  "Invalid request body"
// @Router       /score [post]
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var req ScoreRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxScoreBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.analysis.ScoreText(r.Context(), req.Text)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Helpers

// writeServiceError maps domain errors to status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrRunInProgress):
		writeError(w, http.StatusConflict, "run already in progress")
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func queryInt(r *http.Request, key string, defaultValue int) (int, error) {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue, nil
	}
	return strconv.Atoi(value)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
