package http

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

	_ "github.com/custodia-labs/energy-index/docs"
	"github.com/custodia-labs/energy-index/internal/core/domain"
)

// Mock services for testing

type mockAuthService struct {
	authenticateFn  func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error)
	validateTokenFn func(ctx context.Context, token string) (*domain.AuthContext, error)
}

func (m *mockAuthService) Authenticate(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
	if m.authenticateFn != nil {
		return m.authenticateFn(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if m.validateTokenFn != nil {
		return m.validateTokenFn(ctx, token)
	}
	switch token {
	case "admin-token":
		return &domain.AuthContext{Subject: "admin", Role: domain.RoleAdmin}, nil
	case "viewer-token":
		return &domain.AuthContext{Subject: "viewer", Role: domain.RoleViewer}, nil
	}
	return nil, domain.ErrTokenInvalid
}

type mockAnalysisService struct {
	scoreTextFn func(ctx context.Context, text string) (*domain.DensityResult, error)
}

func (m *mockAnalysisService) Tokenize(text string) domain.TokenSequence {
	return domain.TokenSequence(strings.Fields(text))
}

func (m *mockAnalysisService) ScoreText(ctx context.Context, text string) (*domain.DensityResult, error) {
	if m.scoreTextFn != nil {
		return m.scoreTextFn(ctx, text)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAnalysisService) CountNGrams(ctx context.Context, corpus *domain.Corpus, n, topK int) (*domain.FrequencyTable, error) {
	return nil, errors.New("not implemented")
}

func (m *mockAnalysisService) BuildIndex(ctx context.Context, corpus *domain.Corpus) (*domain.PolicyIndexReport, error) {
	return nil, errors.New("not implemented")
}

type mockReportService struct {
	getReportFn      func(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error)
	getFrequenciesFn func(ctx context.Context, corpus string, n, top int) (*domain.FrequencyTable, error)
	getRunFn         func(ctx context.Context, id string) (*domain.Run, error)
}

func (m *mockReportService) GetReport(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error) {
	if m.getReportFn != nil {
		return m.getReportFn(ctx, corpus)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportService) GetFrequencies(ctx context.Context, corpus string, n, top int) (*domain.FrequencyTable, error) {
	if m.getFrequenciesFn != nil {
		return m.getFrequenciesFn(ctx, corpus, n, top)
	}
	return nil, domain.ErrNotFound
}

func (m *mockReportService) GetRun(ctx context.Context, id string) (*domain.Run, error) {
	if m.getRunFn != nil {
		return m.getRunFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

type mockOrchestrator struct {
	runFn func(ctx context.Context, job domain.Job) (*domain.RunResult, error)
	jobs  []domain.Job
}

func (m *mockOrchestrator) Run(ctx context.Context, job domain.Job) (*domain.RunResult, error) {
	m.jobs = append(m.jobs, job)
	if m.runFn != nil {
		return m.runFn(ctx, job)
	}
	return &domain.RunResult{RunID: "run-1", Corpus: job.Corpus, Success: true}, nil
}

type mockPinger struct {
	err error
}

func (m mockPinger) Ping(ctx context.Context) error {
	return m.err
}

// Helpers

func newTestServer(svc Services) *Server {
	if svc.Auth == nil {
		svc.Auth = &mockAuthService{}
	}
	if svc.Analysis == nil {
		svc.Analysis = &mockAnalysisService{}
	}
	if svc.Reports == nil {
		svc.Reports = &mockReportService{}
	}
	cfg := DefaultConfig()
	cfg.Version = "1.2.3"
	return NewServer(cfg, svc)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp.Error
}

// Health endpoints

func TestHandleHealth(t *testing.T) {
	rr := doRequest(t, newTestServer(Services{}), "GET", "/health", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp StatusResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestHandleVersion(t *testing.T) {
	rr := doRequest(t, newTestServer(Services{}), "GET", "/version", "", nil)

	var resp VersionResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Version != "1.2.3" {
		t.Errorf("expected version 1.2.3, got %q", resp.Version)
	}
}

func TestHandleReady(t *testing.T) {
	s := newTestServer(Services{Pingers: map[string]Pinger{"cache": mockPinger{}}})
	rr := doRequest(t, s, "GET", "/ready", "", nil)
	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	s = newTestServer(Services{Pingers: map[string]Pinger{
		"cache": mockPinger{},
		"store": mockPinger{err: errors.New("connection refused")},
	}})
	rr = doRequest(t, s, "GET", "/ready", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, rr.Code)
	}

	var resp ReadyResponse
	_ = json.NewDecoder(rr.Body).Decode(&resp)
	if resp.Backends["cache"] != "ok" || resp.Backends["store"] != "connection refused" {
		t.Errorf("unexpected backends %v", resp.Backends)
	}
}

func TestHandleSwaggerDoc(t *testing.T) {
	rr := doRequest(t, newTestServer(Services{}), "GET", "/swagger/doc.json", "", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var doc map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&doc); err != nil {
		t.Fatalf("expected valid JSON document: %v", err)
	}
	if doc["basePath"] != "/api/v1" {
		t.Errorf("expected basePath /api/v1, got %v", doc["basePath"])
	}
}

// Auth endpoints

func TestHandleLogin(t *testing.T) {
	expires := time.Now().Add(time.Hour)
	auth := &mockAuthService{
		authenticateFn: func(ctx context.Context, req domain.LoginRequest) (*domain.LoginResponse, error) {
			switch {
			case req.Username == "" || req.Password == "":
				return nil, domain.ErrInvalidInput
			case req.Password == "s3cret":
				return &domain.LoginResponse{Token: "jwt", ExpiresAt: expires}, nil
			case req.Password == "crash":
				return nil, errors.New("signing failed")
			}
			return nil, domain.ErrInvalidCredentials
		},
	}
	s := newTestServer(Services{Auth: auth})

	tests := []struct {
		name       string
		body       any
		wantStatus int
	}{
		{name: "success", body: domain.LoginRequest{Username: "admin", Password: "s3cret"}, wantStatus: http.StatusOK},
		{name: "wrong password", body: domain.LoginRequest{Username: "admin", Password: "nope"}, wantStatus: http.StatusUnauthorized},
		{name: "missing fields", body: domain.LoginRequest{Username: "admin"}, wantStatus: http.StatusBadRequest},
		{name: "malformed body", body: "{not json", wantStatus: http.StatusBadRequest},
		{name: "internal error", body: domain.LoginRequest{Username: "admin", Password: "crash"}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, s, "POST", "/api/v1/auth/login", "", tt.body)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantStatus == http.StatusOK {
				var resp domain.LoginResponse
				_ = json.NewDecoder(rr.Body).Decode(&resp)
				if resp.Token != "jwt" {
					t.Errorf("expected token jwt, got %q", resp.Token)
				}
			}
		})
	}
}

// Report endpoints

func TestHandleGetReport(t *testing.T) {
	reports := &mockReportService{
		getReportFn: func(ctx context.Context, corpus string) (*domain.PolicyIndexReport, error) {
			if corpus != "texas" {
				return nil, domain.ErrNotFound
			}
			return domain.NewPolicyIndexReport("texas", []domain.IndexRecord{{BillID: "HB 1", Score: 40}}, 1, 0), nil
		},
	}
	s := newTestServer(Services{Reports: reports})

	rr := doRequest(t, s, "GET", "/api/v1/reports/texas", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d without token, got %d", http.StatusUnauthorized, rr.Code)
	}

	rr = doRequest(t, s, "GET", "/api/v1/reports/texas", "viewer-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var report domain.PolicyIndexReport
	_ = json.NewDecoder(rr.Body).Decode(&report)
	if len(report.Records) != 1 || report.Records[0].Score != 40 {
		t.Errorf("unexpected report %+v", report)
	}

	rr = doRequest(t, s, "GET", "/api/v1/reports/ohio", "viewer-token", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestHandleGetFrequencies(t *testing.T) {
	var gotN, gotTop int
	reports := &mockReportService{
		getFrequenciesFn: func(ctx context.Context, corpus string, n, top int) (*domain.FrequencyTable, error) {
			gotN, gotTop = n, top
			if n < 1 || top < 0 {
				return nil, domain.ErrInvalidInput
			}
			return &domain.FrequencyTable{Corpus: corpus, N: n, Entries: []domain.FrequencyEntry{{NGram: "power grid", Count: 3}}}, nil
		},
	}
	s := newTestServer(Services{Reports: reports})

	rr := doRequest(t, s, "GET", "/api/v1/frequencies/texas", "admin-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if gotN != 1 || gotTop != 0 {
		t.Errorf("expected defaults n=1 top=0, got n=%d top=%d", gotN, gotTop)
	}

	doRequest(t, s, "GET", "/api/v1/frequencies/texas?n=2&top=10", "admin-token", nil)
	if gotN != 2 || gotTop != 10 {
		t.Errorf("expected n=2 top=10, got n=%d top=%d", gotN, gotTop)
	}

	rr = doRequest(t, s, "GET", "/api/v1/frequencies/texas?n=two", "admin-token", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for bad n, got %d", http.StatusBadRequest, rr.Code)
	}

	rr = doRequest(t, s, "GET", "/api/v1/frequencies/texas?n=0", "admin-token", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for n=0, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestHandleGetRun(t *testing.T) {
	reports := &mockReportService{
		getRunFn: func(ctx context.Context, id string) (*domain.Run, error) {
			if id == "run-1" {
				return &domain.Run{ID: id, Corpus: "texas", Status: domain.RunStatusCompleted}, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	s := newTestServer(Services{Reports: reports})

	rr := doRequest(t, s, "GET", "/api/v1/runs/run-1", "viewer-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	rr = doRequest(t, s, "GET", "/api/v1/runs/missing", "viewer-token", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestHandleTriggerRun(t *testing.T) {
	orchestrator := &mockOrchestrator{}
	job := domain.Job{Corpus: "texas", Source: domain.CorpusSourceFile, Path: "texas.json"}
	s := newTestServer(Services{Orchestrator: orchestrator, Jobs: []domain.Job{job}})

	rr := doRequest(t, s, "POST", "/api/v1/runs/texas", "viewer-token", nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d for viewer, got %d", http.StatusForbidden, rr.Code)
	}

	rr = doRequest(t, s, "POST", "/api/v1/runs/texas", "admin-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if len(orchestrator.jobs) != 1 || orchestrator.jobs[0] != job {
		t.Errorf("expected configured job to run, got %+v", orchestrator.jobs)
	}

	rr = doRequest(t, s, "POST", "/api/v1/runs/ohio", "admin-token", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status %d for unknown corpus, got %d", http.StatusNotFound, rr.Code)
	}

	orchestrator.runFn = func(ctx context.Context, job domain.Job) (*domain.RunResult, error) {
		return &domain.RunResult{Corpus: job.Corpus, Error: domain.ErrRunInProgress.Error()}, domain.ErrRunInProgress
	}
	rr = doRequest(t, s, "POST", "/api/v1/runs/texas", "admin-token", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}

	orchestrator.runFn = func(ctx context.Context, job domain.Job) (*domain.RunResult, error) {
		return &domain.RunResult{Corpus: job.Corpus, Error: "disk full"}, errors.New("disk full")
	}
	rr = doRequest(t, s, "POST", "/api/v1/runs/texas", "admin-token", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, rr.Code)
	}
	var result domain.RunResult
	_ = json.NewDecoder(rr.Body).Decode(&result)
	if result.Error != "disk full" {
		t.Errorf("expected run result with error, got %+v", result)
	}
}

func TestHandleScore(t *testing.T) {
	var scored string
	analysis := &mockAnalysisService{
		scoreTextFn: func(ctx context.Context, text string) (*domain.DensityResult, error) {
			scored = text
			return &domain.DensityResult{Score: 40, Hits: 2, Windows: 5, Tokens: 10}, nil
		},
	}
	s := newTestServer(Services{Analysis: analysis})

	rr := doRequest(t, s, "POST", "/api/v1/score", "viewer-token", ScoreRequest{Text: "the power grid"})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if scored != "the power grid" {
		t.Errorf("expected text to be scored, got %q", scored)
	}
	var result domain.DensityResult
	_ = json.NewDecoder(rr.Body).Decode(&result)
	if result.Score != 40 {
		t.Errorf("expected score 40, got %v", result.Score)
	}

	rr = doRequest(t, s, "POST", "/api/v1/score", "viewer-token", ScoreRequest{Text: "   "})
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for blank text, got %d", http.StatusBadRequest, rr.Code)
	}

	rr = doRequest(t, s, "POST", "/api/v1/score", "viewer-token", "[]")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d for bad body, got %d", http.StatusBadRequest, rr.Code)
	}
}
