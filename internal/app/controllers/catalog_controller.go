package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/app/services"
	"github.com/nkaya/campusgrid/internal/middleware"
	"github.com/nkaya/campusgrid/internal/pkg/helpers"
)

// parseIDParam parses an ID parameter from the request path
func parseIDParam(ctx *gin.Context, paramName string) (int64, bool) {
	idStr := ctx.Param(paramName)
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid "+paramName+" parameter"),
		})
		return 0, false
	}
	return id, true
}

// currentUserID returns the authenticated user's ID set by the JWT middleware
func currentUserID(ctx *gin.Context) (int64, bool) {
	v, exists := ctx.Get("userID")
	if !exists {
		ctx.JSON(http.StatusUnauthorized, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required"),
		})
		return 0, false
	}
	id, ok := v.(int64)
	if !ok {
		ctx.JSON(http.StatusInternalServerError, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Invalid user identity"),
		})
		return 0, false
	}
	return id, true
}

// CatalogController handles course catalog operations
type CatalogController struct {
	catalogService services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService services.CatalogService) *CatalogController {
	return &CatalogController{
		catalogService: catalogService,
	}
}

// CreateCourse godoc
// @Summary Submit a course listing
// @Description Create a new course listing for review at the teacher's university
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateCourseRequest true "Course details"
// @Success 201 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses [post]
func (c *CatalogController) CreateCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format"),
		})
		return
	}

	course, err := c.catalogService.CreateCourse(ctx, &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course))
}

// SubmitCourse godoc
// @Summary Submit a draft course for review
// @Description Move the teacher's own draft course into pending review
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/submit [post]
func (c *CatalogController) SubmitCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.catalogService.SubmitCourse(ctx, courseID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// GetCourse godoc
// @Summary Get a course by ID
// @Description Get a single catalog course
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id} [get]
func (c *CatalogController) GetCourse(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	course, err := c.catalogService.GetCourse(ctx, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// ReviewCourse godoc
// @Summary Decide a pending course
// @Description Approve or reject a course pending review at the admin's university
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Course ID"
// @Param request body dto.CatalogReviewRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Course}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /courses/{id}/catalog-review [post]
func (c *CatalogController) ReviewCourse(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CatalogReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format"),
		})
		return
	}

	course, err := c.catalogService.ReviewCourse(ctx, courseID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course))
}

// ListPendingCourses godoc
// @Summary List pending courses for a university
// @Description Get courses awaiting review at a university, with instructor summaries
// @Tags universities
// @Produce json
// @Security ApiKeyAuth
// @Param name path string true "University name"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.PendingCourseListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /universities/{name}/pending-courses [get]
func (c *CatalogController) ListPendingCourses(ctx *gin.Context) {
	university := ctx.Param("name")
	if university == "" {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid name parameter"),
		})
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.catalogService.ListPendingCourses(ctx, university, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
