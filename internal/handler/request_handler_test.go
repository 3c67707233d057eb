package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"campushub/internal/middleware"
	"campushub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRequestService returns canned values and records the arguments it saw.
type stubRequestService struct {
	createResp  *service.RequestResponse
	decideResp  *service.RequestResponse
	detailResp  *service.RequestDetailResponse
	listResp    []service.RequestResponse
	err         error
	lastComment string
	lastReason  string
	lastUserID  uuid.UUID
}

func (s *stubRequestService) Create(_ context.Context, authorID uuid.UUID, _ service.CreateRequestDTO) (*service.RequestResponse, error) {
	s.lastUserID = authorID
	return s.createResp, s.err
}

func (s *stubRequestService) Approve(_ context.Context, _ int64, approverID uuid.UUID, comment string) (*service.RequestResponse, error) {
	s.lastUserID = approverID
	s.lastComment = comment
	return s.decideResp, s.err
}

func (s *stubRequestService) Reject(_ context.Context, _ int64, approverID uuid.UUID, reason string) (*service.RequestResponse, error) {
	s.lastUserID = approverID
	s.lastReason = reason
	return s.decideResp, s.err
}

func (s *stubRequestService) ListForAuthor(_ context.Context, _ uuid.UUID) ([]service.RequestResponse, error) {
	return s.listResp, s.err
}

func (s *stubRequestService) ListForApprover(_ context.Context, _ uuid.UUID) ([]service.RequestResponse, error) {
	return s.listResp, s.err
}

func (s *stubRequestService) Detail(_ context.Context, _ int64, _ uuid.UUID) (*service.RequestDetailResponse, error) {
	return s.detailResp, s.err
}

type stubDocumentService struct {
	uploadResp   *service.DocumentResponse
	listResp     []service.DocumentResponse
	err          error
	lastFilename string
	lastContent  []byte
}

func (s *stubDocumentService) Upload(_ context.Context, _ int64, _ uuid.UUID, filename, _ string, content []byte) (*service.DocumentResponse, error) {
	s.lastFilename = filename
	s.lastContent = content
	return s.uploadResp, s.err
}

func (s *stubDocumentService) List(_ context.Context, _ int64, _ uuid.UUID) ([]service.DocumentResponse, error) {
	return s.listResp, s.err
}

func setupRequestRouter(t *testing.T, reqSvc service.RequestService, docSvc service.DocumentService) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewRequestHandler(reqSvc, docSvc).RegisterRoutes(router.Group(""))
	return router
}

func bearerToken(t *testing.T, userID uuid.UUID, role string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(middleware.GetJWTSecret())
	require.NoError(t, err)
	return "Bearer " + signed
}

func doJSON(router *gin.Engine, method, path, auth string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateRequestEndpoint(t *testing.T) {
	userID := uuid.New()
	svc := &stubRequestService{createResp: &service.RequestResponse{
		ID: 1, RequestType: "transfer", Status: "pending", AuthorUserID: userID.String(),
	}}
	router := setupRequestRouter(t, svc, &stubDocumentService{})

	w := doJSON(router, http.MethodPost, "/api/requests", bearerToken(t, userID, "student"),
		gin.H{"request_type": "transfer", "content": "to applied math"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, userID, svc.lastUserID)

	var body struct {
		Status string                  `json:"status"`
		Data   service.RequestResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "success", body.Status)
	assert.Equal(t, int64(1), body.Data.ID)
}

func TestCreateRequestRejectsUnknownType(t *testing.T) {
	router := setupRequestRouter(t, &stubRequestService{}, &stubDocumentService{})

	// The binding layer rejects types outside the routing table.
	w := doJSON(router, http.MethodPost, "/api/requests", bearerToken(t, uuid.New(), "student"),
		gin.H{"request_type": "expulsion"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRequestEndpointsRequireAuth(t *testing.T) {
	router := setupRequestRouter(t, &stubRequestService{}, &stubDocumentService{})

	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/requests"},
		{http.MethodGet, "/api/requests/my"},
		{http.MethodGet, "/api/requests/approval"},
		{http.MethodGet, "/api/requests/1"},
		{http.MethodPost, "/api/requests/1/approve"},
		{http.MethodPost, "/api/requests/1/reject"},
		{http.MethodGet, "/api/requests/1/documents"},
	} {
		w := doJSON(router, tc.method, tc.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", tc.method, tc.path)
	}
}

func TestApproveAllowsEmptyBody(t *testing.T) {
	svc := &stubRequestService{decideResp: &service.RequestResponse{ID: 7, Status: "approved"}}
	router := setupRequestRouter(t, svc, &stubDocumentService{})

	w := doJSON(router, http.MethodPost, "/api/requests/7/approve", bearerToken(t, uuid.New(), "staff"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, svc.lastComment)
}

func TestApprovePassesComment(t *testing.T) {
	svc := &stubRequestService{decideResp: &service.RequestResponse{ID: 7, Status: "pending"}}
	router := setupRequestRouter(t, svc, &stubDocumentService{})

	w := doJSON(router, http.MethodPost, "/api/requests/7/approve", bearerToken(t, uuid.New(), "staff"),
		gin.H{"comment": "looks good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "looks good", svc.lastComment)
}

func TestRejectRequiresReason(t *testing.T) {
	router := setupRequestRouter(t, &stubRequestService{}, &stubDocumentService{})

	w := doJSON(router, http.MethodPost, "/api/requests/7/reject", bearerToken(t, uuid.New(), "staff"),
		gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRejectPassesReason(t *testing.T) {
	svc := &stubRequestService{decideResp: &service.RequestResponse{ID: 7, Status: "rejected"}}
	router := setupRequestRouter(t, svc, &stubDocumentService{})

	w := doJSON(router, http.MethodPost, "/api/requests/7/reject", bearerToken(t, uuid.New(), "staff"),
		gin.H{"reason": "missing documents"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "missing documents", svc.lastReason)
}

func TestWorkflowErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"not found", service.ErrRequestNotFound, http.StatusNotFound},
		{"access denied hides existence", service.ErrRequestAccessDenied, http.StatusNotFound},
		{"wrong approver", service.ErrNotCurrentApprover, http.StatusBadRequest},
		{"already finalized", service.ErrAlreadyFinalized, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupRequestRouter(t, &stubRequestService{err: tt.err}, &stubDocumentService{})
			w := doJSON(router, http.MethodPost, "/api/requests/7/approve", bearerToken(t, uuid.New(), "staff"), nil)
			assert.Equal(t, tt.code, w.Code)
		})
	}
}

func TestAccessDeniedLooksLikeNotFound(t *testing.T) {
	router := setupRequestRouter(t, &stubRequestService{err: service.ErrRequestAccessDenied}, &stubDocumentService{})

	w := doJSON(router, http.MethodGet, "/api/requests/7", bearerToken(t, uuid.New(), "student"), nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), service.ErrRequestNotFound.Error())
	assert.NotContains(t, w.Body.String(), "access")
}

func TestInvalidRequestID(t *testing.T) {
	router := setupRequestRouter(t, &stubRequestService{}, &stubDocumentService{})

	w := doJSON(router, http.MethodGet, "/api/requests/abc", bearerToken(t, uuid.New(), "student"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadDocumentEndpoint(t *testing.T) {
	docSvc := &stubDocumentService{uploadResp: &service.DocumentResponse{
		ID: uuid.NewString(), RequestID: 7, Filename: "scan.pdf",
	}}
	router := setupRequestRouter(t, &stubRequestService{}, docSvc)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "scan.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake pdf bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/requests/7/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), "student"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "scan.pdf", docSvc.lastFilename)
	assert.Equal(t, []byte("fake pdf bytes"), docSvc.lastContent)
}

func TestUploadDocumentRequiresFile(t *testing.T) {
	router := setupRequestRouter(t, &stubRequestService{}, &stubDocumentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/requests/7/documents", strings.NewReader(""))
	req.Header.Set("Authorization", bearerToken(t, uuid.New(), "student"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDocumentsEndpoint(t *testing.T) {
	docSvc := &stubDocumentService{listResp: []service.DocumentResponse{
		{ID: uuid.NewString(), RequestID: 7, Filename: "scan.pdf"},
	}}
	router := setupRequestRouter(t, &stubRequestService{}, docSvc)

	w := doJSON(router, http.MethodGet, "/api/requests/7/documents", bearerToken(t, uuid.New(), "staff"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "scan.pdf")
}
