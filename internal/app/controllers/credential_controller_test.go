package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

type stubCredentialService struct {
	claim       *models.StudentCourse
	userList    *dto.StudentCourseListResponse
	teacherList *dto.TeacherCourseListResponse
	err         error

	lastListUserID int64
	lastReview     *dto.CredentialReviewRequest
	lastRevokeBy   int64
}

func (s *stubCredentialService) CreateClaim(_ context.Context, _ *dto.CreateStudentCourseRequest, _ int64) (*models.StudentCourse, error) {
	return s.claim, s.err
}

func (s *stubCredentialService) GetClaim(_ context.Context, _ int64) (*models.StudentCourse, error) {
	return s.claim, s.err
}

func (s *stubCredentialService) ListClaimsForUser(_ context.Context, userID int64, _, _ int) (*dto.StudentCourseListResponse, error) {
	s.lastListUserID = userID
	return s.userList, s.err
}

func (s *stubCredentialService) ListClaimsForTeacher(_ context.Context, _ int64, _, _ int) (*dto.TeacherCourseListResponse, error) {
	return s.teacherList, s.err
}

func (s *stubCredentialService) ReviewClaim(_ context.Context, _, _ int64, req *dto.CredentialReviewRequest) (*models.StudentCourse, error) {
	s.lastReview = req
	return s.claim, s.err
}

func (s *stubCredentialService) RevokeClaimValidation(_ context.Context, _, actorID int64) (*models.StudentCourse, error) {
	s.lastRevokeBy = actorID
	return s.claim, s.err
}

func credentialRouter(svc *stubCredentialService, userID int64) *gin.Engine {
	router := gin.New()
	router.Use(asUser(userID))
	ctrl := NewCredentialController(svc)
	router.GET("/student-courses", ctrl.ListClaims)
	router.GET("/student-courses/:id", ctrl.GetClaim)
	router.POST("/student-courses", ctrl.CreateClaim)
	router.POST("/student-courses/:id/credential-review", ctrl.ReviewClaim)
	router.DELETE("/student-courses/:id/credential-review", ctrl.RevokeValidation)
	router.GET("/teachers/:id/courses", ctrl.ListTeacherCourses)
	return router
}

func TestReviewClaimEndpoint(t *testing.T) {
	svc := &stubCredentialService{claim: &models.StudentCourse{ID: 5, CredentialStatus: models.CredentialValidated}}
	router := credentialRouter(svc, 2)

	w, resp := doJSON(t, router, http.MethodPost, "/student-courses/5/credential-review", dto.CredentialReviewRequest{Action: "approve"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, svc.lastReview)
	assert.Equal(t, "approve", svc.lastReview.Action)
}

func TestReviewClaimEndpointAssignedElsewhere(t *testing.T) {
	svc := &stubCredentialService{err: apperrors.NewForbiddenError("claim is assigned to another teacher")}
	router := credentialRouter(svc, 2)

	w, resp := doJSON(t, router, http.MethodPost, "/student-courses/5/credential-review", dto.CredentialReviewRequest{Action: "approve"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "claim is assigned to another teacher", resp.Error.Message)
}

func TestRevokeValidationEndpoint(t *testing.T) {
	svc := &stubCredentialService{claim: &models.StudentCourse{ID: 5, CredentialStatus: models.CredentialPending}}
	router := credentialRouter(svc, 3)

	w, resp := doJSON(t, router, http.MethodDelete, "/student-courses/5/credential-review", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(3), svc.lastRevokeBy)
}

func TestRevokeValidationEndpointConflict(t *testing.T) {
	svc := &stubCredentialService{err: apperrors.NewInvalidStateError("claim is not validated")}
	router := credentialRouter(svc, 2)

	w, resp := doJSON(t, router, http.MethodDelete, "/student-courses/5/credential-review", nil)

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeInvalidState, resp.Error.Code)
}

func TestListClaimsDefaultsToCaller(t *testing.T) {
	svc := &stubCredentialService{userList: &dto.StudentCourseListResponse{}}
	router := credentialRouter(svc, 3)

	w, _ := doJSON(t, router, http.MethodGet, "/student-courses", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(3), svc.lastListUserID)
}

func TestListClaimsExplicitUser(t *testing.T) {
	svc := &stubCredentialService{userList: &dto.StudentCourseListResponse{}}
	router := credentialRouter(svc, 3)

	w, _ := doJSON(t, router, http.MethodGet, "/student-courses?userId=7", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(7), svc.lastListUserID)
}

func TestListTeacherCoursesEndpoint(t *testing.T) {
	svc := &stubCredentialService{teacherList: &dto.TeacherCourseListResponse{
		StudentCourses: []dto.TeacherCourseItem{
			{StudentCourse: models.StudentCourse{ID: 5}, CanValidate: true},
		},
		Pagination: dto.PaginationInfo{CurrentPage: 1, PageSize: 10, TotalItems: 1, TotalPages: 1},
	}}
	router := credentialRouter(svc, 2)

	w, resp := doJSON(t, router, http.MethodGet, "/teachers/2/courses", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
}

func TestCreateClaimEndpoint(t *testing.T) {
	svc := &stubCredentialService{claim: &models.StudentCourse{ID: 1, CredentialStatus: models.CredentialPending}}
	router := credentialRouter(svc, 3)

	w, resp := doJSON(t, router, http.MethodPost, "/student-courses", dto.CreateStudentCourseRequest{CourseName: "Operating Systems", Institution: "METU"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
}
