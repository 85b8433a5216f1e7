package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

func writeEnvelope(w http.ResponseWriter, status int, data interface{}, errDetail *dto.ErrorDetail) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.APIResponse{
		Success: errDetail == nil,
		Data:    data,
		Error:   errDetail,
	})
}

func newTestClient(t *testing.T, handler http.Handler, viewerID int64) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	api, err := NewAPI(APIConfig{BaseURL: server.URL, Token: "test-token"})
	require.NoError(t, err)

	return NewClient(api, viewerID, "METU"), server
}

func TestReviewCredentialSuccessReconciles(t *testing.T) {
	teacherID := int64(2)
	validated := models.StudentCourse{ID: 5, UserID: 3, CourseName: "Operating Systems", CredentialStatus: models.CredentialValidated, ValidatedBy: &teacherID}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/student-courses/5/credential-review", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		var req dto.CredentialReviewRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "approve", req.Action)
		writeEnvelope(w, http.StatusOK, validated, nil)
	})
	mux.HandleFunc("GET /api/v1/student-courses/5", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, validated, nil)
	})

	c, _ := newTestClient(t, mux, teacherID)
	c.Claims.Put(models.StudentCourse{ID: 5, UserID: 3, CourseName: "Operating Systems", CredentialStatus: models.CredentialPending})

	decided, err := c.ReviewCredential(context.Background(), 5, "approve", "checked")
	require.NoError(t, err)
	assert.Equal(t, models.CredentialValidated, decided.CredentialStatus)

	cached, ok := c.Claims.Get(5)
	require.True(t, ok)
	assert.Equal(t, models.CredentialValidated, cached.CredentialStatus)
	require.NotNil(t, cached.ValidatedBy)
	assert.Equal(t, teacherID, *cached.ValidatedBy)
}

func TestReviewCredentialFailureRollsBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/student-courses/5/credential-review", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusConflict, nil, dto.NewErrorDetail(dto.ErrorCodeInvalidState, "claim is not pending"))
	})

	c, _ := newTestClient(t, mux, 2)
	c.Claims.Put(models.StudentCourse{ID: 5, UserID: 3, CredentialStatus: models.CredentialPending})

	_, err := c.ReviewCredential(context.Background(), 5, "approve", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)

	// Speculation rolled back verbatim.
	cached, ok := c.Claims.Get(5)
	require.True(t, ok)
	assert.Equal(t, models.CredentialPending, cached.CredentialStatus)
	assert.Nil(t, cached.ValidatedBy)
}

func TestReviewCredentialForbiddenMapping(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/student-courses/5/credential-review", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, nil, dto.NewErrorDetail(dto.ErrorCodeForbidden, "claim is assigned to another teacher"))
	})

	c, _ := newTestClient(t, mux, 2)

	_, err := c.ReviewCredential(context.Background(), 5, "approve", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "claim is assigned to another teacher", apiErr.Message)
}

func TestRevokeCredentialOptimistic(t *testing.T) {
	pending := models.StudentCourse{ID: 5, UserID: 3, CredentialStatus: models.CredentialPending}

	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /api/v1/student-courses/5/credential-review", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, pending, nil)
	})
	mux.HandleFunc("GET /api/v1/student-courses/5", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, pending, nil)
	})

	teacherID := int64(2)
	c, _ := newTestClient(t, mux, 3)
	c.Claims.Put(models.StudentCourse{ID: 5, UserID: 3, CredentialStatus: models.CredentialValidated, ValidatedBy: &teacherID})

	revoked, err := c.RevokeCredential(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, models.CredentialPending, revoked.CredentialStatus)

	cached, _ := c.Claims.Get(5)
	assert.Nil(t, cached.ValidatedBy)
}

func TestReviewCatalogFailureRollsBack(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/courses/10/catalog-review", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusForbidden, nil, dto.NewErrorDetail(dto.ErrorCodeForbidden, "course belongs to a different university"))
	})

	c, _ := newTestClient(t, mux, 1)
	c.Courses.Put(models.Course{ID: 10, University: "METU", CatalogStatus: models.CatalogPendingReview})

	_, err := c.ReviewCatalog(context.Background(), 10, "approve", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	cached, _ := c.Courses.Get(10)
	assert.Equal(t, models.CatalogPendingReview, cached.CatalogStatus)
	// Still visible on the university dashboard after rollback.
	assert.Len(t, c.Courses.View(ViewUniversityDashboard), 1)
}

func TestReviewCatalogSuccessLeavesDashboard(t *testing.T) {
	adminID := int64(1)
	approved := models.Course{ID: 10, University: "METU", CatalogStatus: models.CatalogApproved, ReviewedBy: &adminID}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/courses/10/catalog-review", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, approved, nil)
	})
	mux.HandleFunc("GET /api/v1/courses/10", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, approved, nil)
	})

	c, _ := newTestClient(t, mux, adminID)
	c.Courses.Put(models.Course{ID: 10, University: "METU", CatalogStatus: models.CatalogPendingReview})

	_, err := c.ReviewCatalog(context.Background(), 10, "approve", "fine")
	require.NoError(t, err)

	assert.Empty(t, c.Courses.View(ViewUniversityDashboard))
}

func TestRefreshProfile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/student-courses", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("userId"))
		writeEnvelope(w, http.StatusOK, dto.StudentCourseListResponse{
			StudentCourses: []models.StudentCourse{
				{ID: 5, UserID: 3, CredentialStatus: models.CredentialPending},
				{ID: 6, UserID: 3, CredentialStatus: models.CredentialValidated},
			},
		}, nil)
	})

	c, _ := newTestClient(t, mux, 3)

	require.NoError(t, c.RefreshProfile(context.Background()))
	assert.Len(t, c.Claims.View(ViewProfile), 2)
}
