package dto

import "github.com/nkaya/campusgrid/internal/app/models"

// --- Request DTOs ---

// CreateCourseRequest represents the data a teacher submits for a new catalog entry.
type CreateCourseRequest struct {
	Name        string  `json:"name" binding:"required,min=2,max=255" example:"Algorithms"`
	Code        string  `json:"code" binding:"required,min=2,max=20" example:"CENG301"`
	Semester    string  `json:"semester" binding:"required" example:"2025-FALL"`
	Description *string `json:"description,omitempty" example:"Design and analysis of algorithms"`
	Draft       bool    `json:"draft" example:"false"` // When true the course is created in DRAFT instead of PENDING_REVIEW
}

// CatalogReviewRequest represents a university admin's decision on a pending course.
type CatalogReviewRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject" example:"approve"`
	Note   string `json:"note" binding:"max=1000" example:"Meets catalog requirements"`
}

// --- Response DTOs ---

// InstructorSummary is the owning teacher summary joined onto pending course listings.
type InstructorSummary struct {
	ID        int64  `json:"id" example:"7"`
	FirstName string `json:"firstName" example:"Jane"`
	LastName  string `json:"lastName" example:"Smith"`
	Email     string `json:"email" example:"jane.smith@school.edu"`
}

// PendingCourseItem is a pending course joined with its instructor summary.
type PendingCourseItem struct {
	models.Course
	Instructor InstructorSummary `json:"instructor"`
}

// PendingCourseListResponse is the university dashboard listing.
type PendingCourseListResponse struct {
	Courses    []PendingCourseItem `json:"courses"`
	Pagination PaginationInfo      `json:"pagination"`
}
