package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent         RoleType = "STUDENT"
	RoleTeacher         RoleType = "TEACHER"
	RoleUniversityAdmin RoleType = "UNIVERSITY_ADMIN"
)

// CatalogStatus is the lifecycle state of a teacher-submitted course awaiting
// or having received university approval.
type CatalogStatus string

const (
	CatalogDraft         CatalogStatus = "DRAFT"
	CatalogPendingReview CatalogStatus = "PENDING_REVIEW"
	CatalogApproved      CatalogStatus = "APPROVED"
	CatalogRejected      CatalogStatus = "REJECTED"
)

// Terminal reports whether the catalog status admits no further transitions.
// Re-review after rejection is a new course submission, not a state re-entry.
func (s CatalogStatus) Terminal() bool {
	return s == CatalogApproved || s == CatalogRejected
}

// CredentialStatus is the lifecycle state of a student-submitted course claim
// awaiting or having received teacher certification.
type CredentialStatus string

const (
	CredentialPending   CredentialStatus = "PENDING"
	CredentialValidated CredentialStatus = "VALIDATED"
	CredentialRejected  CredentialStatus = "REJECTED"
)
