package dto

import "github.com/nkaya/campusgrid/internal/app/models"

// --- Request DTOs ---

// CreateStudentCourseRequest represents a student's claimed course completion.
type CreateStudentCourseRequest struct {
	CourseName        string  `json:"courseName" binding:"required,min=2,max=255" example:"Algorithms"`
	CourseCode        string  `json:"courseCode" binding:"max=20" example:"CENG301"`
	Institution       string  `json:"institution" binding:"required,min=2,max=255" example:"Ankara University"`
	CourseID          *int64  `json:"courseId,omitempty" example:"12"`          // Optional link to a catalog course
	AssignedTeacherID *int64  `json:"assignedTeacherId,omitempty" example:"7"`  // Optional teacher who must certify the claim
	Grade             *string `json:"grade,omitempty" example:"AA"`
	Credits           *int    `json:"credits,omitempty" example:"6"`
	Description       *string `json:"description,omitempty"`
}

// CredentialReviewRequest represents a teacher's decision on a pending claim.
type CredentialReviewRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject" example:"approve"`
	Note   string `json:"note" binding:"max=1000" example:"Great work"`
}

// --- Response DTOs ---

// TeacherCourseItem is a claim on the teacher dashboard, annotated server-side
// with whether the requesting teacher may decide it. The annotation is advisory
// for UI enablement only; the decision endpoints re-check it.
type TeacherCourseItem struct {
	models.StudentCourse
	CanValidate             bool   `json:"canValidate" example:"true"`
	ValidationBlockedReason string `json:"validationBlockedReason,omitempty" example:"claim is assigned to another teacher"`
}

// TeacherCourseListResponse is the teacher dashboard listing.
type TeacherCourseListResponse struct {
	StudentCourses []TeacherCourseItem `json:"studentCourses"`
	Pagination     PaginationInfo      `json:"pagination"`
}

// StudentCourseListResponse is the profile view listing of a student's own claims.
type StudentCourseListResponse struct {
	StudentCourses []models.StudentCourse `json:"studentCourses"`
	Pagination     PaginationInfo         `json:"pagination"`
}
