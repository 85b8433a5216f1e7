package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/app/repositories"
	"github.com/nkaya/campusgrid/internal/app/workflow"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
	"github.com/nkaya/campusgrid/internal/pkg/helpers"
	"github.com/nkaya/campusgrid/internal/pkg/notify"
)

// CatalogRepository is the data access needed by the catalog workflow.
type CatalogRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	Create(ctx context.Context, course *models.Course) (int64, error)
	ListPendingByUniversity(ctx context.Context, university string, offset uint64, limit int) ([]repositories.PendingCourse, int64, error)
	ApplyCatalogDecision(ctx context.Context, course *models.Course) error
	SubmitDraft(ctx context.Context, id int64, at time.Time) error
}

// CatalogService defines the interface for course catalog operations
type CatalogService interface {
	CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, instructorID int64) (*models.Course, error)
	SubmitCourse(ctx context.Context, courseID, instructorID int64) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ReviewCourse(ctx context.Context, courseID, reviewerID int64, req *dto.CatalogReviewRequest) (*models.Course, error)
	ListPendingCourses(ctx context.Context, university string, page, size int) (*dto.PendingCourseListResponse, error)
}

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	courseRepo CatalogRepository
	userRepo   UserGetter
	notifier   notify.Notifier
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(courseRepo CatalogRepository, userRepo UserGetter, notifier notify.Notifier, logger zerolog.Logger) CatalogService {
	return &catalogServiceImpl{
		courseRepo: courseRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateCourse submits a new course listing for the instructor's university.
// The course starts in PENDING_REVIEW, or DRAFT when requested. Re-review
// after a rejection goes through here as a fresh submission so the audit note
// history of the rejected course stays intact.
func (s *catalogServiceImpl) CreateCourse(ctx context.Context, req *dto.CreateCourseRequest, instructorID int64) (*models.Course, error) {
	instructor, err := s.userRepo.GetByID(ctx, instructorID)
	if err != nil {
		return nil, fmt.Errorf("error getting instructor: %w", err)
	}
	if instructor == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if instructor.RoleType != models.RoleTeacher {
		return nil, apperrors.NewForbiddenError("only teachers can submit course listings")
	}

	now := s.now()
	course := &models.Course{
		Name:         req.Name,
		Code:         req.Code,
		University:   instructor.University,
		InstructorID: instructor.ID,
		Description:  req.Description,
		Semester:     req.Semester,
	}
	if req.Draft {
		course.CatalogStatus = models.CatalogDraft
	} else {
		course.CatalogStatus = models.CatalogPendingReview
		course.ValidationRequestedAt = &now
	}

	id, err := s.courseRepo.Create(ctx, course)
	if err != nil {
		return nil, fmt.Errorf("error creating course: %w", err)
	}
	course.ID = id
	course.CreatedAt = now
	course.UpdatedAt = now

	return course, nil
}

// SubmitCourse moves the instructor's own draft course into pending review.
func (s *catalogServiceImpl) SubmitCourse(ctx context.Context, courseID, instructorID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	if course.InstructorID != instructorID {
		return nil, apperrors.NewForbiddenError("only the owning teacher can submit this course")
	}

	if err := s.courseRepo.SubmitDraft(ctx, courseID, s.now()); err != nil {
		return nil, err
	}

	course, err = s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	return course, nil
}

// GetCourse retrieves a course by ID
func (s *catalogServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}
	return course, nil
}

// ReviewCourse applies a university admin's approve/reject decision. The
// decision logic itself lives in the workflow package; this method loads the
// records, persists the outcome with a compare-and-set and notifies the
// owning teacher exactly once.
func (s *catalogServiceImpl) ReviewCourse(ctx context.Context, courseID, reviewerID int64, req *dto.CatalogReviewRequest) (*models.Course, error) {
	reviewer, err := s.userRepo.GetByID(ctx, reviewerID)
	if err != nil {
		return nil, fmt.Errorf("error getting reviewer: %w", err)
	}
	if reviewer == nil {
		return nil, apperrors.ErrUserNotFound
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("error getting course: %w", err)
	}
	if course == nil {
		return nil, apperrors.ErrCourseNotFound
	}

	action, err := workflow.ParseReviewAction(req.Action)
	if err != nil {
		return nil, err
	}

	decided, err := workflow.DecideCatalogReview(*course, *reviewer, action, req.Note, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.ApplyCatalogDecision(ctx, &decided); err != nil {
		return nil, err
	}

	kind := notify.KindCourseApproved
	if decided.CatalogStatus == models.CatalogRejected {
		kind = notify.KindCourseRejected
	}
	payload := map[string]interface{}{
		"courseId":   decided.ID,
		"courseName": decided.Name,
		"note":       req.Note,
	}
	if err := s.notifier.Notify(ctx, decided.InstructorID, kind, payload); err != nil {
		// Delivery failure never undoes the decision
		s.logger.Error().Err(err).Int64("courseId", decided.ID).Msg("Failed to notify course instructor")
	}

	return &decided, nil
}

// ListPendingCourses retrieves courses pending review at a university, joined
// with instructor summaries, for the university dashboard.
func (s *catalogServiceImpl) ListPendingCourses(ctx context.Context, university string, page, size int) (*dto.PendingCourseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	items, total, err := s.courseRepo.ListPendingByUniversity(ctx, university, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting pending courses: %w", err)
	}

	courses := make([]dto.PendingCourseItem, 0, len(items))
	for _, item := range items {
		courses = append(courses, dto.PendingCourseItem{
			Course: item.Course,
			Instructor: dto.InstructorSummary{
				ID:        item.Instructor.ID,
				FirstName: item.Instructor.FirstName,
				LastName:  item.Instructor.LastName,
				Email:     item.Instructor.Email,
			},
		})
	}

	return &dto.PendingCourseListResponse{
		Courses:    courses,
		Pagination: helpers.NewPaginationInfo(total, page, limit),
	}, nil
}
