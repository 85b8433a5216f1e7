package client

import (
	"context"
	"time"

	"github.com/nkaya/campusgrid/internal/app/models"
)

// View names registered on the stores.
const (
	ViewProfile             = "profile"
	ViewTeacherDashboard    = "teacherDashboard"
	ViewUniversityDashboard = "universityDashboard"
)

// Client keeps locally-cached copies of courses and claims consistent with
// the server. Each mutating action applies a speculative local transform for
// UI responsiveness, then reconciles: the authoritative server state replaces
// the speculation on success, and the pre-mutation snapshot is restored
// verbatim on failure. Failures are surfaced, never retried.
type Client struct {
	api *API

	// Viewer identity; drives the profile and teacher dashboard views.
	viewerID   int64
	university string

	Courses *Store[models.Course]
	Claims  *Store[models.StudentCourse]
}

// NewClient creates a synchronization client for one viewer
func NewClient(api *API, viewerID int64, university string) *Client {
	c := &Client{
		api:        api,
		viewerID:   viewerID,
		university: university,
		Courses:    NewStore(func(course models.Course) int64 { return course.ID }),
		Claims:     NewStore(func(sc models.StudentCourse) int64 { return sc.ID }),
	}

	c.Claims.RegisterView(ViewProfile, func(sc models.StudentCourse) bool {
		return sc.UserID == viewerID
	})
	c.Claims.RegisterView(ViewTeacherDashboard, func(sc models.StudentCourse) bool {
		if sc.AssignedTeacherID != nil {
			return *sc.AssignedTeacherID == viewerID
		}
		return sc.CredentialStatus == models.CredentialPending
	})
	c.Courses.RegisterView(ViewUniversityDashboard, func(course models.Course) bool {
		return course.University == university && course.CatalogStatus == models.CatalogPendingReview
	})

	return c
}

// RefreshProfile refetches the viewer's claims into the cache
func (c *Client) RefreshProfile(ctx context.Context) error {
	claims, err := c.api.ListStudentCourses(ctx, c.viewerID)
	if err != nil {
		return err
	}
	c.Claims.Put(claims...)
	return nil
}

// RefreshTeacherDashboard refetches the claims the viewer may decide
func (c *Client) RefreshTeacherDashboard(ctx context.Context) error {
	items, err := c.api.ListTeacherCourses(ctx, c.viewerID)
	if err != nil {
		return err
	}
	for _, item := range items {
		c.Claims.Put(item.StudentCourse)
	}
	return nil
}

// RefreshUniversityDashboard refetches the pending courses at the viewer's university
func (c *Client) RefreshUniversityDashboard(ctx context.Context) error {
	items, err := c.api.ListPendingCourses(ctx, c.university)
	if err != nil {
		return err
	}
	for _, item := range items {
		c.Courses.Put(item.Course)
	}
	return nil
}

// ReviewCredential decides a pending claim optimistically
func (c *Client) ReviewCredential(ctx context.Context, claimID int64, action, note string) (models.StudentCourse, error) {
	c.Claims.Begin(claimID)
	defer c.Claims.End(claimID)

	snap := c.Claims.Snapshot()

	if cached, ok := c.Claims.Get(claimID); ok {
		speculative := cached
		now := time.Now()
		if action == "approve" {
			speculative.CredentialStatus = models.CredentialValidated
			speculative.ValidatedBy = &c.viewerID
			speculative.ValidatedAt = &now
		} else {
			speculative.CredentialStatus = models.CredentialRejected
		}
		if note != "" {
			speculative.ValidationNote = &note
		}
		c.Claims.Put(speculative)
	}

	decided, err := c.api.ReviewStudentCourse(ctx, claimID, action, note)
	if err != nil {
		c.Claims.Restore(snap)
		return models.StudentCourse{}, err
	}

	// Server state wins over the speculation.
	c.Claims.Put(decided)
	if settled, ferr := c.api.GetStudentCourse(ctx, claimID); ferr == nil {
		c.Claims.Put(settled)
	}
	return decided, nil
}

// RevokeCredential reverts a validated claim to pending optimistically
func (c *Client) RevokeCredential(ctx context.Context, claimID int64) (models.StudentCourse, error) {
	c.Claims.Begin(claimID)
	defer c.Claims.End(claimID)

	snap := c.Claims.Snapshot()

	if cached, ok := c.Claims.Get(claimID); ok {
		speculative := cached
		speculative.CredentialStatus = models.CredentialPending
		speculative.ValidatedBy = nil
		speculative.ValidatedAt = nil
		c.Claims.Put(speculative)
	}

	revoked, err := c.api.RevokeStudentCourseValidation(ctx, claimID)
	if err != nil {
		c.Claims.Restore(snap)
		return models.StudentCourse{}, err
	}

	c.Claims.Put(revoked)
	if settled, ferr := c.api.GetStudentCourse(ctx, claimID); ferr == nil {
		c.Claims.Put(settled)
	}
	return revoked, nil
}

// ReviewCatalog decides a pending course optimistically
func (c *Client) ReviewCatalog(ctx context.Context, courseID int64, action, note string) (models.Course, error) {
	c.Courses.Begin(courseID)
	defer c.Courses.End(courseID)

	snap := c.Courses.Snapshot()

	if cached, ok := c.Courses.Get(courseID); ok {
		speculative := cached
		now := time.Now()
		if action == "approve" {
			speculative.CatalogStatus = models.CatalogApproved
		} else {
			speculative.CatalogStatus = models.CatalogRejected
		}
		speculative.ReviewedBy = &c.viewerID
		speculative.ReviewedAt = &now
		if note != "" {
			speculative.UniversityValidationNote = &note
		}
		c.Courses.Put(speculative)
	}

	decided, err := c.api.ReviewCourse(ctx, courseID, action, note)
	if err != nil {
		c.Courses.Restore(snap)
		return models.Course{}, err
	}

	c.Courses.Put(decided)
	if settled, ferr := c.api.GetCourse(ctx, courseID); ferr == nil {
		c.Courses.Put(settled)
	}
	return decided, nil
}
