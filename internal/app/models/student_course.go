package models

import "time"

// StudentCourse represents a student's claimed completion of a course. The
// denormalized course fields allow claims outside the catalog; CourseID links
// the claim to a catalog entry when one exists.
type StudentCourse struct {
	ID          int64   `json:"id" db:"id"`
	UserID      int64   `json:"userId" db:"user_id"` // Owner/student
	CourseName  string  `json:"courseName" db:"course_name"`
	CourseCode  string  `json:"courseCode" db:"course_code"`
	Institution string  `json:"institution" db:"institution"`
	CourseID    *int64  `json:"courseId,omitempty" db:"course_id"`
	Grade       *string `json:"grade,omitempty" db:"grade"`
	Credits     *int    `json:"credits,omitempty" db:"credits"`
	Description *string `json:"description,omitempty" db:"description"`

	// When set, only this teacher may decide the claim.
	AssignedTeacherID *int64 `json:"assignedTeacherId,omitempty" db:"assigned_teacher_id"`

	CredentialStatus CredentialStatus `json:"credentialStatus" db:"credential_status"`
	ValidatedBy      *int64           `json:"validatedBy,omitempty" db:"validated_by"` // Teacher id; set iff status is VALIDATED
	ValidatedAt      *time.Time       `json:"validatedAt,omitempty" db:"validated_at"`
	ValidationNote   *string          `json:"validationNote,omitempty" db:"validation_note"` // Kept as history across revocation

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
