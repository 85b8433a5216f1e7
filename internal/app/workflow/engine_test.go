package workflow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

var now = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func admin(id int64, university string) models.User {
	return models.User{ID: id, RoleType: models.RoleUniversityAdmin, University: university}
}

func teacher(id int64) models.User {
	return models.User{ID: id, RoleType: models.RoleTeacher, University: "X"}
}

func student(id int64) models.User {
	return models.User{ID: id, RoleType: models.RoleStudent, University: "X"}
}

func pendingCourse(university string) models.Course {
	return models.Course{ID: 1, Name: "Algorithms", Code: "CENG301", University: university, InstructorID: 7, CatalogStatus: models.CatalogPendingReview}
}

func pendingClaim(ownerID int64, assignedTo *int64) models.StudentCourse {
	return models.StudentCourse{ID: 42, UserID: ownerID, CourseName: "Algorithms", Institution: "X", AssignedTeacherID: assignedTo, CredentialStatus: models.CredentialPending}
}

func TestParseReviewAction(t *testing.T) {
	a, err := ParseReviewAction("approve")
	require.NoError(t, err)
	assert.Equal(t, ActionApprove, a)

	a, err = ParseReviewAction("reject")
	require.NoError(t, err)
	assert.Equal(t, ActionReject, a)

	_, err = ParseReviewAction("escalate")
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestDecideCatalogReview_Approve(t *testing.T) {
	course := pendingCourse("X")
	a := admin(3, "X")

	decided, err := DecideCatalogReview(course, a, ActionApprove, "ok", now)
	require.NoError(t, err)

	assert.Equal(t, models.CatalogApproved, decided.CatalogStatus)
	require.NotNil(t, decided.ReviewedBy)
	assert.Equal(t, a.ID, *decided.ReviewedBy)
	require.NotNil(t, decided.ReviewedAt)
	assert.Equal(t, now, *decided.ReviewedAt)
	require.NotNil(t, decided.UniversityValidationNote)
	assert.Equal(t, "ok", *decided.UniversityValidationNote)
}

func TestDecideCatalogReview_Reject(t *testing.T) {
	decided, err := DecideCatalogReview(pendingCourse("X"), admin(3, "X"), ActionReject, "missing syllabus", now)
	require.NoError(t, err)

	assert.Equal(t, models.CatalogRejected, decided.CatalogStatus)
	require.NotNil(t, decided.ReviewedBy)
	assert.Equal(t, int64(3), *decided.ReviewedBy)
	require.NotNil(t, decided.UniversityValidationNote)
	assert.Equal(t, "missing syllabus", *decided.UniversityValidationNote)
}

func TestDecideCatalogReview_ForbiddenForWrongUniversity(t *testing.T) {
	// Admin B of university Y cannot decide a university X course
	_, err := DecideCatalogReview(pendingCourse("X"), admin(4, "Y"), ActionApprove, "ok", now)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDecideCatalogReview_ForbiddenForNonAdmin(t *testing.T) {
	for _, actor := range []models.User{teacher(7), student(9)} {
		_, err := DecideCatalogReview(pendingCourse("X"), actor, ActionApprove, "", now)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	}
}

func TestDecideCatalogReview_InvalidStateForNonPending(t *testing.T) {
	for _, status := range []models.CatalogStatus{models.CatalogDraft, models.CatalogApproved, models.CatalogRejected} {
		course := pendingCourse("X")
		course.CatalogStatus = status

		_, err := DecideCatalogReview(course, admin(3, "X"), ActionApprove, "", now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState, "status %s", status)
	}
}

func TestDecideCatalogReview_SecondDecisionFails(t *testing.T) {
	// A repeated decision on a terminal record is InvalidState, never a silent success
	decided, err := DecideCatalogReview(pendingCourse("X"), admin(3, "X"), ActionReject, "no", now)
	require.NoError(t, err)

	_, err = DecideCatalogReview(decided, admin(3, "X"), ActionReject, "no", now)
	assert.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestCanValidateCredential(t *testing.T) {
	t7 := teacher(7)
	t8 := teacher(8)
	assigned := int64(7)

	tests := []struct {
		name    string
		claim   models.StudentCourse
		caller  models.User
		want    bool
		blocked string
	}{
		{"unassigned pending claim, any teacher", pendingClaim(9, nil), t7, true, ""},
		{"assigned claim, the assigned teacher", pendingClaim(9, &assigned), t7, true, ""},
		{"assigned claim, another teacher", pendingClaim(9, &assigned), t8, false, "claim is assigned to another teacher"},
		{"student caller", pendingClaim(9, nil), student(9), false, "only teachers can certify claims"},
		{"admin caller", pendingClaim(9, nil), admin(3, "X"), false, "only teachers can certify claims"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanValidateCredential(tt.claim, tt.caller))
			assert.Equal(t, tt.blocked, CredentialBlockedReason(tt.claim, tt.caller))
		})
	}

	t.Run("non-pending claim", func(t *testing.T) {
		claim := pendingClaim(9, nil)
		claim.CredentialStatus = models.CredentialValidated
		assert.False(t, CanValidateCredential(claim, t7))
		assert.Equal(t, "claim is not pending", CredentialBlockedReason(claim, t7))
	})
}

func TestDecideCredentialReview_Approve(t *testing.T) {
	decided, err := DecideCredentialReview(pendingClaim(9, nil), teacher(7), ActionApprove, "great work", now)
	require.NoError(t, err)

	assert.Equal(t, models.CredentialValidated, decided.CredentialStatus)
	require.NotNil(t, decided.ValidatedBy)
	assert.Equal(t, int64(7), *decided.ValidatedBy)
	require.NotNil(t, decided.ValidatedAt)
	assert.Equal(t, now, *decided.ValidatedAt)
	require.NotNil(t, decided.ValidationNote)
	assert.Equal(t, "great work", *decided.ValidationNote)
}

func TestDecideCredentialReview_RejectLeavesValidatorUnset(t *testing.T) {
	decided, err := DecideCredentialReview(pendingClaim(9, nil), teacher(7), ActionReject, "cannot verify", now)
	require.NoError(t, err)

	assert.Equal(t, models.CredentialRejected, decided.CredentialStatus)
	assert.Nil(t, decided.ValidatedBy)
	assert.Nil(t, decided.ValidatedAt)
	require.NotNil(t, decided.ValidationNote)
	assert.Equal(t, "cannot verify", *decided.ValidationNote)
}

func TestDecideCredentialReview_ForbiddenForOtherTeacher(t *testing.T) {
	assigned := int64(7)
	_, err := DecideCredentialReview(pendingClaim(9, &assigned), teacher(8), ActionApprove, "", now)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestDecideCredentialReview_InvalidStateForDecided(t *testing.T) {
	for _, status := range []models.CredentialStatus{models.CredentialValidated, models.CredentialRejected} {
		claim := pendingClaim(9, nil)
		claim.CredentialStatus = status

		_, err := DecideCredentialReview(claim, teacher(7), ActionApprove, "", now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState, "status %s", status)
	}
}

func TestRevokeCredentialValidation_RoundTrip(t *testing.T) {
	// approve then revoke returns the claim to pending with validator fields cleared
	decided, err := DecideCredentialReview(pendingClaim(9, nil), teacher(7), ActionApprove, "great work", now)
	require.NoError(t, err)

	later := now.Add(time.Hour)
	revoked, err := RevokeCredentialValidation(decided, teacher(7), later)
	require.NoError(t, err)

	assert.Equal(t, models.CredentialPending, revoked.CredentialStatus)
	assert.Nil(t, revoked.ValidatedBy)
	assert.Nil(t, revoked.ValidatedAt)
	// The note is kept as history
	require.NotNil(t, revoked.ValidationNote)
	assert.Equal(t, "great work", *revoked.ValidationNote)
}

func TestRevokeCredentialValidation_ByOwner(t *testing.T) {
	decided, err := DecideCredentialReview(pendingClaim(9, nil), teacher(7), ActionApprove, "", now)
	require.NoError(t, err)

	revoked, err := RevokeCredentialValidation(decided, student(9), now)
	require.NoError(t, err)
	assert.Equal(t, models.CredentialPending, revoked.CredentialStatus)
}

func TestRevokeCredentialValidation_ForbiddenForOthers(t *testing.T) {
	decided, err := DecideCredentialReview(pendingClaim(9, nil), teacher(7), ActionApprove, "", now)
	require.NoError(t, err)

	for _, actor := range []models.User{teacher(8), student(10), admin(3, "X")} {
		_, err := RevokeCredentialValidation(decided, actor, now)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "actor %d", actor.ID)
	}
}

func TestRevokeCredentialValidation_InvalidStateForNonValidated(t *testing.T) {
	for _, status := range []models.CredentialStatus{models.CredentialPending, models.CredentialRejected} {
		claim := pendingClaim(9, nil)
		claim.CredentialStatus = status

		_, err := RevokeCredentialValidation(claim, teacher(7), now)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState, "status %s", status)
	}
}

func TestCatalogReviewScenario(t *testing.T) {
	// Teacher creates a course at university X, admin A approves, admin B of Y is refused
	course := pendingCourse("X")

	adminA := admin(3, "X")
	decided, err := DecideCatalogReview(course, adminA, ActionApprove, "ok", now)
	require.NoError(t, err)
	assert.Equal(t, models.CatalogApproved, decided.CatalogStatus)
	assert.Equal(t, adminA.ID, *decided.ReviewedBy)

	adminB := admin(4, "Y")
	_, err = DecideCatalogReview(decided, adminB, ActionApprove, "ok", now)
	require.Error(t, err)
	// University mismatch wins over the terminal status
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	var custom *apperrors.CustomError
	require.True(t, errors.As(err, &custom))
	assert.Equal(t, "course belongs to a different university", custom.Message)
}

func TestCredentialReviewScenario(t *testing.T) {
	// Claim assigned to teacher T: T2 is refused, T approves, owner revokes
	tID := int64(7)
	claim := pendingClaim(9, &tID)

	_, err := DecideCredentialReview(claim, teacher(8), ActionApprove, "", now)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	decided, err := DecideCredentialReview(claim, teacher(7), ActionApprove, "great work", now)
	require.NoError(t, err)
	assert.Equal(t, models.CredentialValidated, decided.CredentialStatus)
	assert.Equal(t, tID, *decided.ValidatedBy)

	revoked, err := RevokeCredentialValidation(decided, student(9), now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.CredentialPending, revoked.CredentialStatus)
	assert.Nil(t, revoked.ValidatedBy)
}
