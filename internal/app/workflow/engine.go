package workflow

import (
	"time"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

// The workflow package is the single place catalog and credential statuses
// change. Every function here is pure: it checks the caller's role and the
// record's current status, then returns an updated copy or an error. Callers
// persist the result with a compare-and-set on the prior status, so a decision
// either fully applies or not at all.

// ReviewAction is a reviewer's decision on a pending record.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionReject  ReviewAction = "reject"
)

// ParseReviewAction converts a request payload value into a ReviewAction.
func ParseReviewAction(s string) (ReviewAction, error) {
	switch ReviewAction(s) {
	case ActionApprove:
		return ActionApprove, nil
	case ActionReject:
		return ActionReject, nil
	default:
		return "", apperrors.NewValidationError("action must be approve or reject")
	}
}

// DecideCatalogReview applies a university admin's decision to a course that
// is pending review. Only an admin of the course's own university may decide,
// and the decision is terminal: re-review after rejection is a new submission.
func DecideCatalogReview(course models.Course, admin models.User, action ReviewAction, note string, now time.Time) (models.Course, error) {
	if action != ActionApprove && action != ActionReject {
		return models.Course{}, apperrors.NewValidationError("action must be approve or reject")
	}
	if admin.RoleType != models.RoleUniversityAdmin {
		return models.Course{}, apperrors.NewForbiddenError("only university admins can review catalog submissions")
	}
	if admin.University != course.University {
		return models.Course{}, apperrors.NewForbiddenError("course belongs to a different university")
	}
	if course.CatalogStatus != models.CatalogPendingReview {
		return models.Course{}, apperrors.NewInvalidStateError("course is not pending review")
	}

	if action == ActionApprove {
		course.CatalogStatus = models.CatalogApproved
	} else {
		course.CatalogStatus = models.CatalogRejected
	}
	course.ReviewedBy = &admin.ID
	course.ReviewedAt = &now
	if note != "" {
		course.UniversityValidationNote = &note
	}
	course.UpdatedAt = now

	return course, nil
}

// CanValidateCredential is the sole gating predicate for deciding a claim.
// Clients may evaluate it for UI enablement, but the decision endpoints
// re-check it server-side; the client-side result is never authoritative.
func CanValidateCredential(sc models.StudentCourse, teacher models.User) bool {
	if teacher.RoleType != models.RoleTeacher {
		return false
	}
	if sc.CredentialStatus != models.CredentialPending {
		return false
	}
	return sc.AssignedTeacherID == nil || *sc.AssignedTeacherID == teacher.ID
}

// CredentialBlockedReason explains why CanValidateCredential is false for the
// given teacher, or returns an empty string when validation is allowed. Used
// to annotate teacher dashboard listings.
func CredentialBlockedReason(sc models.StudentCourse, teacher models.User) string {
	if teacher.RoleType != models.RoleTeacher {
		return "only teachers can certify claims"
	}
	if sc.CredentialStatus != models.CredentialPending {
		return "claim is not pending"
	}
	if sc.AssignedTeacherID != nil && *sc.AssignedTeacherID != teacher.ID {
		return "claim is assigned to another teacher"
	}
	return ""
}

// DecideCredentialReview applies a teacher's decision to a pending claim.
// Rejection is not validation: validatedBy/validatedAt stay unset on reject.
func DecideCredentialReview(sc models.StudentCourse, teacher models.User, action ReviewAction, note string, now time.Time) (models.StudentCourse, error) {
	if action != ActionApprove && action != ActionReject {
		return models.StudentCourse{}, apperrors.NewValidationError("action must be approve or reject")
	}
	if teacher.RoleType != models.RoleTeacher {
		return models.StudentCourse{}, apperrors.NewForbiddenError("only teachers can certify claims")
	}
	if sc.AssignedTeacherID != nil && *sc.AssignedTeacherID != teacher.ID {
		return models.StudentCourse{}, apperrors.NewForbiddenError("claim is assigned to another teacher")
	}
	if sc.CredentialStatus != models.CredentialPending {
		return models.StudentCourse{}, apperrors.NewInvalidStateError("claim is not pending")
	}

	if action == ActionApprove {
		sc.CredentialStatus = models.CredentialValidated
		sc.ValidatedBy = &teacher.ID
		sc.ValidatedAt = &now
	} else {
		sc.CredentialStatus = models.CredentialRejected
	}
	if note != "" {
		sc.ValidationNote = &note
	}
	sc.UpdatedAt = now

	return sc, nil
}

// RevokeCredentialValidation returns a validated claim to pending. Permitted
// for the validating teacher and for the owning student. The validation note
// is kept as history; only the validator fields are cleared.
func RevokeCredentialValidation(sc models.StudentCourse, actor models.User, now time.Time) (models.StudentCourse, error) {
	if sc.CredentialStatus != models.CredentialValidated {
		return models.StudentCourse{}, apperrors.NewInvalidStateError("claim is not validated")
	}
	isValidator := sc.ValidatedBy != nil && *sc.ValidatedBy == actor.ID
	isOwner := sc.UserID == actor.ID
	if !isValidator && !isOwner {
		return models.StudentCourse{}, apperrors.NewForbiddenError("only the validating teacher or the claim owner can remove a validation")
	}

	sc.CredentialStatus = models.CredentialPending
	sc.ValidatedBy = nil
	sc.ValidatedAt = nil
	sc.UpdatedAt = now

	return sc, nil
}
