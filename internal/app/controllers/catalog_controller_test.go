package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubCatalogService returns canned results per method
type stubCatalogService struct {
	course     *models.Course
	pending    *dto.PendingCourseListResponse
	err        error
	lastReview *dto.CatalogReviewRequest
}

func (s *stubCatalogService) CreateCourse(_ context.Context, _ *dto.CreateCourseRequest, _ int64) (*models.Course, error) {
	return s.course, s.err
}

func (s *stubCatalogService) SubmitCourse(_ context.Context, _, _ int64) (*models.Course, error) {
	return s.course, s.err
}

func (s *stubCatalogService) GetCourse(_ context.Context, _ int64) (*models.Course, error) {
	return s.course, s.err
}

func (s *stubCatalogService) ReviewCourse(_ context.Context, _, _ int64, req *dto.CatalogReviewRequest) (*models.Course, error) {
	s.lastReview = req
	return s.course, s.err
}

func (s *stubCatalogService) ListPendingCourses(_ context.Context, _ string, _, _ int) (*dto.PendingCourseListResponse, error) {
	return s.pending, s.err
}

// asUser injects the identity the JWT middleware would set
func asUser(userID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Next()
	}
}

func catalogRouter(svc *stubCatalogService, userID int64) *gin.Engine {
	router := gin.New()
	router.Use(asUser(userID))
	ctrl := NewCatalogController(svc)
	router.POST("/courses", ctrl.CreateCourse)
	router.GET("/courses/:id", ctrl.GetCourse)
	router.POST("/courses/:id/catalog-review", ctrl.ReviewCourse)
	router.GET("/universities/:name/pending-courses", ctrl.ListPendingCourses)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, dto.APIResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp dto.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestReviewCourseEndpoint(t *testing.T) {
	svc := &stubCatalogService{course: &models.Course{ID: 10, Name: "Distributed Systems", CatalogStatus: models.CatalogApproved}}
	router := catalogRouter(svc, 1)

	w, resp := doJSON(t, router, http.MethodPost, "/courses/10/catalog-review", dto.CatalogReviewRequest{Action: "approve", Note: "ok"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	require.NotNil(t, svc.lastReview)
	assert.Equal(t, "approve", svc.lastReview.Action)
}

func TestReviewCourseEndpointInvalidBody(t *testing.T) {
	svc := &stubCatalogService{}
	router := catalogRouter(svc, 1)

	w, resp := doJSON(t, router, http.MethodPost, "/courses/10/catalog-review", map[string]string{"action": "publish"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeInvalidRequest, resp.Error.Code)
}

func TestReviewCourseEndpointForbidden(t *testing.T) {
	svc := &stubCatalogService{err: apperrors.NewForbiddenError("course belongs to a different university")}
	router := catalogRouter(svc, 1)

	w, resp := doJSON(t, router, http.MethodPost, "/courses/10/catalog-review", dto.CatalogReviewRequest{Action: "approve"})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeForbidden, resp.Error.Code)
	assert.Equal(t, "course belongs to a different university", resp.Error.Message)
}

func TestReviewCourseEndpointConflict(t *testing.T) {
	svc := &stubCatalogService{err: apperrors.NewInvalidStateError("course is not pending review")}
	router := catalogRouter(svc, 1)

	w, resp := doJSON(t, router, http.MethodPost, "/courses/10/catalog-review", dto.CatalogReviewRequest{Action: "reject"})

	assert.Equal(t, http.StatusConflict, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeInvalidState, resp.Error.Code)
}

func TestGetCourseEndpointNotFound(t *testing.T) {
	svc := &stubCatalogService{err: apperrors.ErrCourseNotFound}
	router := catalogRouter(svc, 1)

	w, resp := doJSON(t, router, http.MethodGet, "/courses/99", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrorCodeResourceNotFound, resp.Error.Code)
}

func TestGetCourseEndpointBadID(t *testing.T) {
	svc := &stubCatalogService{}
	router := catalogRouter(svc, 1)

	w, _ := doJSON(t, router, http.MethodGet, "/courses/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateCourseEndpoint(t *testing.T) {
	svc := &stubCatalogService{course: &models.Course{ID: 1, Name: "Distributed Systems", CatalogStatus: models.CatalogPendingReview}}
	router := catalogRouter(svc, 2)

	w, resp := doJSON(t, router, http.MethodPost, "/courses", dto.CreateCourseRequest{Name: "Distributed Systems", Code: "CENG532", Semester: "2025-Spring"})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, resp.Success)
}

func TestListPendingCoursesEndpoint(t *testing.T) {
	svc := &stubCatalogService{pending: &dto.PendingCourseListResponse{
		Courses:    []dto.PendingCourseItem{{Course: models.Course{ID: 10, Name: "Distributed Systems"}}},
		Pagination: dto.PaginationInfo{CurrentPage: 1, PageSize: 10, TotalItems: 1, TotalPages: 1},
	}}
	router := catalogRouter(svc, 1)

	w, resp := doJSON(t, router, http.MethodGet, "/universities/METU/pending-courses", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, resp.Success)
	assert.NotNil(t, resp.Data)
}
