package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"campushub/internal/middleware"
	"campushub/internal/service"
	"campushub/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService  service.RequestService
	documentService service.DocumentService
}

func NewRequestHandler(requestService service.RequestService, documentService service.DocumentService) *RequestHandler {
	return &RequestHandler{
		requestService:  requestService,
		documentService: documentService,
	}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests", middleware.RequireAuth())
	{
		requests.POST("", h.CreateRequest)
		requests.GET("/my", h.GetMyRequests)
		requests.GET("/approval", h.GetApprovalRequests)
		requests.GET("/:id", h.GetRequestDetail)
		requests.POST("/:id/approve", h.ApproveRequest)
		requests.POST("/:id/reject", h.RejectRequest)
		requests.POST("/:id/documents", h.UploadDocument)
		requests.GET("/:id/documents", h.ListDocuments)
	}
}

// CreateRequest creates a new request and routes it to its first approver
// @Summary      Create request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.CreateRequestDTO  true  "Request payload"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	var req service.CreateRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.requestService.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// GetMyRequests lists the caller's own requests, newest first
// @Summary      My requests
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/requests/my [get]
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	result, err := h.requestService.ListForAuthor(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetApprovalRequests lists pending requests awaiting the caller's decision
// @Summary      Requests awaiting my approval
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /api/requests/approval [get]
func (h *RequestHandler) GetApprovalRequests(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	result, err := h.requestService.ListForApprover(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// GetRequestDetail returns a request with its approval chain and documents.
// Only the author and the current approver can see it.
// @Summary      Request detail
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [get]
func (h *RequestHandler) GetRequestDetail(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	result, err := h.requestService.Detail(c.Request.Context(), requestID, userID)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// ApproveRequest approves the current step of a pending request
// @Summary      Approve request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                        true   "Request ID"
// @Param        body  body      service.ApproveRequestDTO  false  "Optional comment"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/requests/{id}/approve [post]
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	var req service.ApproveRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		// Comment is optional — allow an empty body
		req.Comment = ""
	}

	result, err := h.requestService.Approve(c.Request.Context(), requestID, userID, req.Comment)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// RejectRequest rejects a pending request with a reason; rejection is terminal
// @Summary      Reject request
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      int                       true  "Request ID"
// @Param        body  body      service.RejectRequestDTO  true  "Rejection reason"
// @Success      200   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/requests/{id}/reject [post]
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	var req service.RejectRequestDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.requestService.Reject(c.Request.Context(), requestID, userID, req.Reason)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// UploadDocument attaches a file to a request (author only)
// @Summary      Upload request document
// @Tags         requests
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      int   true  "Request ID"
// @Param        file  formData  file  true  "Document file"
// @Success      201   {object}  response.Response
// @Failure      400   {object}  response.Response
// @Router       /api/requests/{id}/documents [post]
func (h *RequestHandler) UploadDocument(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read file"))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "failed to read file"))
		return
	}

	filename := fileHeader.Filename
	if filename == "" {
		filename = "document"
	}

	result, err := h.documentService.Upload(
		c.Request.Context(), requestID, userID,
		filename, fileHeader.Header.Get("Content-Type"), content,
	)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

// ListDocuments lists a request's attachments (author or current approver)
// @Summary      List request documents
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  response.Response
// @Router       /api/requests/{id}/documents [get]
func (h *RequestHandler) ListDocuments(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	requestID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "invalid request id"))
		return
	}

	result, err := h.documentService.List(c.Request.Context(), requestID, userID)
	if err != nil {
		h.writeWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

// writeWorkflowError maps the workflow error taxonomy to HTTP statuses.
// Access denials on detail views surface as not-found so request ids cannot
// be probed.
func (h *RequestHandler) writeWorkflowError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrRequestNotFound.Error()))
	case errors.Is(err, service.ErrRequestAccessDenied):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, service.ErrRequestNotFound.Error()))
	case errors.Is(err, service.ErrNotRequestAuthor):
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, err.Error()))
	case errors.Is(err, service.ErrNotCurrentApprover),
		errors.Is(err, service.ErrAlreadyFinalized),
		errors.Is(err, service.ErrUnknownRequestType):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
	}
}
