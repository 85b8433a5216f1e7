package models

import "time"

// Course represents a canonical catalog entry submitted by a teacher and
// reviewed by a university admin.
type Course struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Code         string  `json:"code" db:"code"`
	University   string  `json:"university" db:"university"`
	InstructorID int64   `json:"instructorId" db:"instructor_id"` // Owning teacher
	Description  *string `json:"description,omitempty" db:"description"`
	Semester     string  `json:"semester" db:"semester"`

	CatalogStatus            CatalogStatus `json:"catalogStatus" db:"catalog_status"`
	UniversityValidationNote *string       `json:"universityValidationNote,omitempty" db:"university_validation_note"` // Set on approval/rejection
	ValidationRequestedAt    *time.Time    `json:"validationRequestedAt,omitempty" db:"validation_requested_at"`
	ReviewedAt               *time.Time    `json:"reviewedAt,omitempty" db:"reviewed_at"`
	ReviewedBy               *int64        `json:"reviewedBy,omitempty" db:"reviewed_by"` // University admin id; set iff status is APPROVED or REJECTED

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
