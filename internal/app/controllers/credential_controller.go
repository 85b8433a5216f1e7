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

// CredentialController handles claimed course completion operations
type CredentialController struct {
	credentialService services.CredentialService
}

// NewCredentialController creates a new CredentialController
func NewCredentialController(credentialService services.CredentialService) *CredentialController {
	return &CredentialController{
		credentialService: credentialService,
	}
}

// CreateClaim godoc
// @Summary Claim a course completion
// @Description Record the student's claimed completion, pending certification
// @Tags student-courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateStudentCourseRequest true "Claim details"
// @Success 201 {object} dto.APIResponse{data=models.StudentCourse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /student-courses [post]
func (c *CredentialController) CreateClaim(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req dto.CreateStudentCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format"),
		})
		return
	}

	claim, err := c.credentialService.CreateClaim(ctx, &req, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(claim))
}

// GetClaim godoc
// @Summary Get a claimed completion by ID
// @Tags student-courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student course ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentCourse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /student-courses/{id} [get]
func (c *CredentialController) GetClaim(ctx *gin.Context) {
	claimID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claim, err := c.credentialService.GetClaim(ctx, claimID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(claim))
}

// ListClaims godoc
// @Summary List a user's claimed completions
// @Description Get the claims owned by a user, for the profile view
// @Tags student-courses
// @Produce json
// @Security ApiKeyAuth
// @Param userId query int false "Owner user ID (defaults to the caller)"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.StudentCourseListResponse}
// @Failure 401 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /student-courses [get]
func (c *CredentialController) ListClaims(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	if userIDStr := ctx.Query("userId"); userIDStr != "" {
		parsed, err := strconv.ParseInt(userIDStr, 10, 64)
		if err != nil || parsed <= 0 {
			ctx.JSON(http.StatusBadRequest, dto.APIResponse{
				Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid userId parameter"),
			})
			return
		}
		userID = parsed
	}

	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.credentialService.ListClaimsForUser(ctx, userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ListTeacherCourses godoc
// @Summary List claims on a teacher's dashboard
// @Description Get claims assigned to or open for the teacher, annotated with whether the teacher may decide each one
// @Tags teachers
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Teacher ID"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 10, max: 100)"
// @Success 200 {object} dto.APIResponse{data=dto.TeacherCourseListResponse}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /teachers/{id}/courses [get]
func (c *CredentialController) ListTeacherCourses(ctx *gin.Context) {
	teacherID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)

	resp, err := c.credentialService.ListClaimsForTeacher(ctx, teacherID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ReviewClaim godoc
// @Summary Decide a pending claim
// @Description Approve or reject a claim the teacher is allowed to certify
// @Tags student-courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student course ID"
// @Param request body dto.CredentialReviewRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.StudentCourse}
// @Failure 400 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /student-courses/{id}/credential-review [post]
func (c *CredentialController) ReviewClaim(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	claimID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CredentialReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.APIResponse{
			Error: dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid request format"),
		})
		return
	}

	claim, err := c.credentialService.ReviewClaim(ctx, claimID, userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(claim))
}

// RevokeValidation godoc
// @Summary Revoke a validated claim
// @Description Return a validated claim to pending; allowed for the validating teacher and the owning student
// @Tags student-courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Student course ID"
// @Success 200 {object} dto.APIResponse{data=models.StudentCourse}
// @Failure 403 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 404 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Failure 409 {object} dto.APIResponse{error=dto.ErrorDetail}
// @Router /student-courses/{id}/credential-review [delete]
func (c *CredentialController) RevokeValidation(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}
	claimID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	claim, err := c.credentialService.RevokeClaimValidation(ctx, claimID, userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(claim))
}
