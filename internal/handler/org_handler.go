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

// OrgHandler exposes the admin-gated directory CRUD: the org chart data the
// approval hierarchy is resolved against.
type OrgHandler struct {
	orgService service.OrgService
}

func NewOrgHandler(orgService service.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

func (h *OrgHandler) RegisterRoutes(router *gin.RouterGroup) {
	directory := router.Group("/api/directory")
	{
		directory.GET("/universities", middleware.RequireAuth(), h.ListUniversities)
		directory.GET("/faculties", middleware.RequireAuth(), h.ListFaculties)
		directory.GET("/departments", middleware.RequireAuth(), h.ListDepartments)
		directory.GET("/groups", middleware.RequireAuth(), h.ListGroups)

		admin := directory.Group("", middleware.RequireRole(model.RoleAdmin))
		{
			admin.POST("/universities", h.CreateUniversity)
			admin.POST("/faculties", h.CreateFaculty)
			admin.POST("/departments", h.CreateDepartment)
			admin.POST("/groups", h.CreateGroup)
			admin.PUT("/groups/:id/curator", h.AssignCurator)
			admin.POST("/students", h.CreateStudentProfile)
			admin.POST("/teachers", h.CreateTeacherProfile)
			admin.POST("/staff", h.CreateStaffProfile)
		}
	}
}

// CreateUniversity registers a university
// @Summary      Create university
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        body  body      service.CreateUniversityDTO  true  "University payload"
// @Success      201   {object}  response.Response
// @Router       /api/directory/universities [post]
func (h *OrgHandler) CreateUniversity(c *gin.Context) {
	var req service.CreateUniversityDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.orgService.CreateUniversity(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

func (h *OrgHandler) ListUniversities(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.orgService.ListUniversities(c.Request.Context(), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, err.Error()))
		return
	}
	writePaged(c, items, total, params)
}

func (h *OrgHandler) CreateFaculty(c *gin.Context) {
	var req service.CreateFacultyDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.orgService.CreateFaculty(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

func (h *OrgHandler) ListFaculties(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.orgService.ListFaculties(c.Request.Context(), c.Query("university_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	writePaged(c, items, total, params)
}

func (h *OrgHandler) CreateDepartment(c *gin.Context) {
	var req service.CreateDepartmentDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.orgService.CreateDepartment(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

func (h *OrgHandler) ListDepartments(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.orgService.ListDepartments(c.Request.Context(), c.Query("faculty_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	writePaged(c, items, total, params)
}

func (h *OrgHandler) CreateGroup(c *gin.Context) {
	var req service.CreateGroupDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.orgService.CreateGroup(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, result))
}

func (h *OrgHandler) ListGroups(c *gin.Context) {
	params := pagination.Parse(c)
	items, total, err := h.orgService.ListGroups(c.Request.Context(), c.Query("faculty_id"), params.Page, params.Limit)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	writePaged(c, items, total, params)
}

// AssignCurator sets a group's curator
// @Summary      Assign group curator
// @Tags         directory
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id    path      string                    true  "Group ID"
// @Param        body  body      service.AssignCuratorDTO  true  "Curator payload"
// @Success      200   {object}  response.Response
// @Router       /api/directory/groups/{id}/curator [put]
func (h *OrgHandler) AssignCurator(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, "invalid identity"))
		return
	}

	var req service.AssignCuratorDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	result, err := h.orgService.AssignCurator(c.Request.Context(), c.Param("id"), userID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, result))
}

func (h *OrgHandler) CreateStudentProfile(c *gin.Context) {
	var req service.CreateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.orgService.CreateStudentProfile(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Message(http.StatusCreated, "student profile created"))
}

func (h *OrgHandler) CreateTeacherProfile(c *gin.Context) {
	var req service.CreateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.orgService.CreateTeacherProfile(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Message(http.StatusCreated, "teacher profile created"))
}

func (h *OrgHandler) CreateStaffProfile(c *gin.Context) {
	var req service.CreateProfileDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}

	if err := h.orgService.CreateStaffProfile(c.Request.Context(), req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		return
	}
	c.JSON(http.StatusCreated, response.Message(http.StatusCreated, "staff profile created"))
}

func writePaged(c *gin.Context, data interface{}, total int64, params pagination.Params) {
	c.JSON(http.StatusOK, pagination.Envelope(data, total, params))
}
