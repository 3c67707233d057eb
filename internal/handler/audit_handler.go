package handler

import (
	"net/http"

	"campushub/internal/middleware"
	"campushub/internal/model"
	"campushub/internal/service"
	"campushub/pkg/pagination"
	"campushub/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	audit := router.Group("/api/audit")
	{
		audit.GET("", middleware.RequireRole(model.RoleAdmin), h.GetAuditLogs)
	}
}

// GetAuditLogs returns paginated audit entries, newest first
// @Summary      List audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default: 1)"
// @Param        limit   query     int     false  "Items per page (default: 20)"
// @Param        action  query     string  false  "Filter by action code"
// @Success      200     {object}  response.Response
// @Router       /api/audit [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	params := pagination.Parse(c)

	logs, total, err := h.auditService.GetAuditLogs(c.Request.Context(), c.Query("action"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}

	c.JSON(http.StatusOK, pagination.Envelope(logs, total, params))
}
