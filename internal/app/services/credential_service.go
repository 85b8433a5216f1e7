package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/app/models/dto"
	"github.com/nkaya/campusgrid/internal/app/workflow"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
	"github.com/nkaya/campusgrid/internal/pkg/helpers"
	"github.com/nkaya/campusgrid/internal/pkg/notify"
)

// CredentialRepository is the data access needed by the credential workflow.
type CredentialRepository interface {
	GetByID(ctx context.Context, id int64) (*models.StudentCourse, error)
	Create(ctx context.Context, sc *models.StudentCourse) (int64, error)
	ListByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]models.StudentCourse, int64, error)
	ListForTeacher(ctx context.Context, teacherID int64, offset uint64, limit int) ([]models.StudentCourse, int64, error)
	ApplyCredentialDecision(ctx context.Context, sc *models.StudentCourse, fromStatus models.CredentialStatus) error
}

// CourseGetter resolves catalog links on claims.
type CourseGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// CredentialService defines the interface for claimed completion operations
type CredentialService interface {
	CreateClaim(ctx context.Context, req *dto.CreateStudentCourseRequest, studentID int64) (*models.StudentCourse, error)
	GetClaim(ctx context.Context, id int64) (*models.StudentCourse, error)
	ListClaimsForUser(ctx context.Context, userID int64, page, size int) (*dto.StudentCourseListResponse, error)
	ListClaimsForTeacher(ctx context.Context, teacherID int64, page, size int) (*dto.TeacherCourseListResponse, error)
	ReviewClaim(ctx context.Context, claimID, teacherID int64, req *dto.CredentialReviewRequest) (*models.StudentCourse, error)
	RevokeClaimValidation(ctx context.Context, claimID, actorID int64) (*models.StudentCourse, error)
}

// credentialServiceImpl implements CredentialService
type credentialServiceImpl struct {
	claimRepo  CredentialRepository
	courseRepo CourseGetter
	userRepo   UserGetter
	notifier   notify.Notifier
	logger     zerolog.Logger
	now        func() time.Time
}

// NewCredentialService creates a new CredentialService
func NewCredentialService(claimRepo CredentialRepository, courseRepo CourseGetter, userRepo UserGetter, notifier notify.Notifier, logger zerolog.Logger) CredentialService {
	return &credentialServiceImpl{
		claimRepo:  claimRepo,
		courseRepo: courseRepo,
		userRepo:   userRepo,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateClaim records a student's claimed completion in PENDING. A claim may
// link a catalog course and may name a teacher who must certify it; both
// references are checked at creation time.
func (s *credentialServiceImpl) CreateClaim(ctx context.Context, req *dto.CreateStudentCourseRequest, studentID int64) (*models.StudentCourse, error) {
	student, err := s.userRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("error getting student: %w", err)
	}
	if student == nil {
		return nil, apperrors.ErrUserNotFound
	}
	if student.RoleType != models.RoleStudent {
		return nil, apperrors.NewForbiddenError("only students can claim course completions")
	}

	if req.CourseID != nil {
		course, err := s.courseRepo.GetByID(ctx, *req.CourseID)
		if err != nil {
			return nil, fmt.Errorf("error getting linked course: %w", err)
		}
		if course == nil {
			return nil, apperrors.NewValidationError("linked course does not exist")
		}
	}

	if req.AssignedTeacherID != nil {
		teacher, err := s.userRepo.GetByID(ctx, *req.AssignedTeacherID)
		if err != nil {
			return nil, fmt.Errorf("error getting assigned teacher: %w", err)
		}
		if teacher == nil || teacher.RoleType != models.RoleTeacher {
			return nil, apperrors.NewValidationError("assigned teacher does not exist or is not a teacher")
		}
	}

	now := s.now()
	claim := &models.StudentCourse{
		UserID:            student.ID,
		CourseName:        req.CourseName,
		CourseCode:        req.CourseCode,
		Institution:       req.Institution,
		CourseID:          req.CourseID,
		Grade:             req.Grade,
		Credits:           req.Credits,
		Description:       req.Description,
		AssignedTeacherID: req.AssignedTeacherID,
		CredentialStatus:  models.CredentialPending,
	}

	id, err := s.claimRepo.Create(ctx, claim)
	if err != nil {
		return nil, fmt.Errorf("error creating claim: %w", err)
	}
	claim.ID = id
	claim.CreatedAt = now
	claim.UpdatedAt = now

	return claim, nil
}

// GetClaim retrieves a claim by ID
func (s *credentialServiceImpl) GetClaim(ctx context.Context, id int64) (*models.StudentCourse, error) {
	claim, err := s.claimRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error getting claim: %w", err)
	}
	if claim == nil {
		return nil, apperrors.ErrStudentCourseNotFound
	}
	return claim, nil
}

// ListClaimsForUser retrieves a student's own claims for the profile view.
func (s *credentialServiceImpl) ListClaimsForUser(ctx context.Context, userID int64, page, size int) (*dto.StudentCourseListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	claims, total, err := s.claimRepo.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting claims: %w", err)
	}

	return &dto.StudentCourseListResponse{
		StudentCourses: claims,
		Pagination:     helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// ListClaimsForTeacher retrieves claims the teacher is assigned to or eligible
// for, each annotated with the gating predicate result. The annotation mirrors
// what the decision endpoints enforce; clients use it for UI enablement only.
func (s *credentialServiceImpl) ListClaimsForTeacher(ctx context.Context, teacherID int64, page, size int) (*dto.TeacherCourseListResponse, error) {
	teacher, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error getting teacher: %w", err)
	}
	if teacher == nil {
		return nil, apperrors.ErrUserNotFound
	}

	offset, limit := helpers.CalculateOffsetLimit(page, size)

	claims, total, err := s.claimRepo.ListForTeacher(ctx, teacherID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error getting claims: %w", err)
	}

	items := make([]dto.TeacherCourseItem, 0, len(claims))
	for _, claim := range claims {
		items = append(items, dto.TeacherCourseItem{
			StudentCourse:           claim,
			CanValidate:             workflow.CanValidateCredential(claim, *teacher),
			ValidationBlockedReason: workflow.CredentialBlockedReason(claim, *teacher),
		})
	}

	return &dto.TeacherCourseListResponse{
		StudentCourses: items,
		Pagination:     helpers.NewPaginationInfo(total, page, limit),
	}, nil
}

// ReviewClaim applies a teacher's approve/reject decision to a pending claim
// and notifies the owning student exactly once.
func (s *credentialServiceImpl) ReviewClaim(ctx context.Context, claimID, teacherID int64, req *dto.CredentialReviewRequest) (*models.StudentCourse, error) {
	teacher, err := s.userRepo.GetByID(ctx, teacherID)
	if err != nil {
		return nil, fmt.Errorf("error getting teacher: %w", err)
	}
	if teacher == nil {
		return nil, apperrors.ErrUserNotFound
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("error getting claim: %w", err)
	}
	if claim == nil {
		return nil, apperrors.ErrStudentCourseNotFound
	}

	action, err := workflow.ParseReviewAction(req.Action)
	if err != nil {
		return nil, err
	}

	decided, err := workflow.DecideCredentialReview(*claim, *teacher, action, req.Note, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.claimRepo.ApplyCredentialDecision(ctx, &decided, models.CredentialPending); err != nil {
		return nil, err
	}

	kind := notify.KindCredentialValidated
	if decided.CredentialStatus == models.CredentialRejected {
		kind = notify.KindCredentialRejected
	}
	payload := map[string]interface{}{
		"studentCourseId": decided.ID,
		"courseName":      decided.CourseName,
		"note":            req.Note,
	}
	if err := s.notifier.Notify(ctx, decided.UserID, kind, payload); err != nil {
		s.logger.Error().Err(err).Int64("studentCourseId", decided.ID).Msg("Failed to notify claim owner")
	}

	return &decided, nil
}

// RevokeClaimValidation returns a validated claim to pending. Permitted for
// the validating teacher and for the owning student; the counterpart of
// whoever revoked is notified.
func (s *credentialServiceImpl) RevokeClaimValidation(ctx context.Context, claimID, actorID int64) (*models.StudentCourse, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("error getting actor: %w", err)
	}
	if actor == nil {
		return nil, apperrors.ErrUserNotFound
	}

	claim, err := s.claimRepo.GetByID(ctx, claimID)
	if err != nil {
		return nil, fmt.Errorf("error getting claim: %w", err)
	}
	if claim == nil {
		return nil, apperrors.ErrStudentCourseNotFound
	}

	// The engine clears the validator fields; remember the counterpart first.
	validatedBy := claim.ValidatedBy

	revoked, err := workflow.RevokeCredentialValidation(*claim, *actor, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.claimRepo.ApplyCredentialDecision(ctx, &revoked, models.CredentialValidated); err != nil {
		return nil, err
	}

	recipient := revoked.UserID
	if actor.ID == revoked.UserID && validatedBy != nil {
		recipient = *validatedBy
	}
	payload := map[string]interface{}{
		"studentCourseId": revoked.ID,
		"courseName":      revoked.CourseName,
	}
	if err := s.notifier.Notify(ctx, recipient, notify.KindCredentialRevoked, payload); err != nil {
		s.logger.Error().Err(err).Int64("studentCourseId", revoked.ID).Msg("Failed to notify about revoked validation")
	}

	return &revoked, nil
}
