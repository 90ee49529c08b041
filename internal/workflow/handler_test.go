package workflow

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"parish-registry/registry-backend/internal/auth"
	"parish-registry/registry-backend/internal/documents"
)

const testSecret = "test-secret"

// stubService returns canned values so handler tests only exercise the
// request parsing and error mapping.
type stubService struct {
	step    *WorkflowStep
	result  *ResolveResult
	history *History
	err     error
}

func (s *stubService) RouteDocument(context.Context, RouteRequest) (*WorkflowStep, error) {
	return s.step, s.err
}

func (s *stubService) ResolveDocument(context.Context, ResolveRequest) (*ResolveResult, error) {
	return s.result, s.err
}

func (s *stubService) GetWorkflowHistory(context.Context, uuid.UUID) (*History, error) {
	return s.history, s.err
}

func newTestRouter(service Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	api.Use(auth.Middleware(testSecret))
	NewHandler(service, zap.NewNop()).RegisterRoutes(api)
	return router
}

func doRequest(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.IssueToken(testSecret, uuid.New(), time.Minute)
	assert.NoError(t, err)

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRouteEndpointCreatesStep(t *testing.T) {
	target := uuid.New()
	stub := &stubService{step: &WorkflowStep{ID: uuid.New(), ToUserID: &target, StepStatus: StepPending}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodPost,
		"/api/v1/documents/"+uuid.NewString()+"/workflow",
		`{"action":"sent","to_user_id":"`+target.String()+`"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), stub.step.ID.String())
}

func TestResolveEndpointReturnsSummary(t *testing.T) {
	stub := &stubService{result: &ResolveResult{ResolutionStatus: ResolutionApproved, StepsUpdated: 2}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodPost,
		"/api/v1/documents/"+uuid.NewString()+"/resolve",
		`{"resolution_status":"approved"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"steps_updated":2`)
}

func TestHistoryEndpoint(t *testing.T) {
	docID := uuid.New()
	stub := &stubService{history: &History{
		DocumentID:     docID,
		DocumentStatus: documents.StatusInWork,
		Steps:          []WorkflowStep{},
		Tree:           []*StepTreeNode{},
	}}
	router := newTestRouter(stub)

	w := doRequest(t, router, http.MethodGet,
		"/api/v1/documents/"+docID.String()+"/workflow", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), docID.String())
}

func TestErrorKindMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", &NotFoundError{Resource: "document", ID: "x"}, http.StatusNotFound},
		{"validation", &ValidationError{Reason: "bad input"}, http.StatusBadRequest},
		{"authorization", &AuthorizationError{Reason: "nope"}, http.StatusForbidden},
		{"conflict", &ConflictError{Reason: "raced"}, http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&stubService{err: tt.err})
			w := doRequest(t, router, http.MethodPost,
				"/api/v1/documents/"+uuid.NewString()+"/resolve",
				`{"resolution_status":"approved"}`)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestEndpointsRequireBearerToken(t *testing.T) {
	router := newTestRouter(&stubService{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/documents/"+uuid.NewString()+"/workflow", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
