package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

// APIConfig holds configuration for the workflow API client
type APIConfig struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// API is a thin HTTP client over the workflow API JSON protocol
type API struct {
	cfg  APIConfig
	http *http.Client
}

// NewAPI creates an API client
func NewAPI(cfg APIConfig) (*API, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("base URL required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &API{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// APIError is a server-reported request failure. It unwraps to the matching
// sentinel so callers can branch with errors.Is.
type APIError struct {
	StatusCode int
	Code       dto.ErrorCode
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d (%s): %s", e.StatusCode, e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusForbidden:
		return apperrors.ErrPermissionDenied
	case http.StatusConflict:
		return apperrors.ErrInvalidState
	case http.StatusNotFound:
		return apperrors.ErrResourceNotFound
	case http.StatusBadRequest:
		return apperrors.ErrValidationFailed
	case http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	}
	return nil
}

// envelope mirrors dto.APIResponse with the payload left raw for decoding
type envelope struct {
	Success bool             `json:"success"`
	Data    json.RawMessage  `json:"data"`
	Error   *dto.ErrorDetail `json:"error"`
}

func (a *API) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	u := strings.TrimRight(a.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+a.cfg.Token)
	}

	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decoding response (http %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding payload: %w", err)
		}
	}
	return nil
}

// GetCourse fetches a single catalog course
func (a *API) GetCourse(ctx context.Context, id int64) (models.Course, error) {
	var course models.Course
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/courses/%d", id), nil, &course)
	return course, err
}

// GetStudentCourse fetches a single claimed completion
func (a *API) GetStudentCourse(ctx context.Context, id int64) (models.StudentCourse, error) {
	var sc models.StudentCourse
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/student-courses/%d", id), nil, &sc)
	return sc, err
}

// ListStudentCourses fetches a user's claims for the profile view
func (a *API) ListStudentCourses(ctx context.Context, userID int64) ([]models.StudentCourse, error) {
	var resp dto.StudentCourseListResponse
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/student-courses?userId=%d", userID), nil, &resp)
	return resp.StudentCourses, err
}

// ListTeacherCourses fetches the teacher dashboard listing
func (a *API) ListTeacherCourses(ctx context.Context, teacherID int64) ([]dto.TeacherCourseItem, error) {
	var resp dto.TeacherCourseListResponse
	err := a.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/teachers/%d/courses", teacherID), nil, &resp)
	return resp.StudentCourses, err
}

// ListPendingCourses fetches the university dashboard listing
func (a *API) ListPendingCourses(ctx context.Context, university string) ([]dto.PendingCourseItem, error) {
	var resp dto.PendingCourseListResponse
	err := a.do(ctx, http.MethodGet, "/api/v1/universities/"+university+"/pending-courses", nil, &resp)
	return resp.Courses, err
}

// ReviewCourse submits a catalog decision
func (a *API) ReviewCourse(ctx context.Context, id int64, action, note string) (models.Course, error) {
	var course models.Course
	req := dto.CatalogReviewRequest{Action: action, Note: note}
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/courses/%d/catalog-review", id), req, &course)
	return course, err
}

// ReviewStudentCourse submits a credential decision
func (a *API) ReviewStudentCourse(ctx context.Context, id int64, action, note string) (models.StudentCourse, error) {
	var sc models.StudentCourse
	req := dto.CredentialReviewRequest{Action: action, Note: note}
	err := a.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/student-courses/%d/credential-review", id), req, &sc)
	return sc, err
}

// RevokeStudentCourseValidation reverts a validated claim to pending
func (a *API) RevokeStudentCourseValidation(ctx context.Context, id int64) (models.StudentCourse, error) {
	var sc models.StudentCourse
	err := a.do(ctx, http.MethodDelete, fmt.Sprintf("/api/v1/student-courses/%d/credential-review", id), nil, &sc)
	return sc, err
}
