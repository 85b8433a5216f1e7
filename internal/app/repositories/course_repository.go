package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

// CourseRepository handles database operations for catalog courses
type CourseRepository struct {
	db *pgxpool.Pool
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{db: db}
}

var courseColumns = []string{
	"id", "name", "code", "university", "instructor_id", "description", "semester",
	"catalog_status", "university_validation_note", "validation_requested_at",
	"reviewed_at", "reviewed_by", "created_at", "updated_at",
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	err := row.Scan(
		&course.ID,
		&course.Name,
		&course.Code,
		&course.University,
		&course.InstructorID,
		&course.Description,
		&course.Semester,
		&course.CatalogStatus,
		&course.UniversityValidationNote,
		&course.ValidationRequestedAt,
		&course.ReviewedAt,
		&course.ReviewedBy,
		&course.CreatedAt,
		&course.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &course, nil
}

// GetByID retrieves a course by ID
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	query := squirrel.Select(courseColumns...).
		From("courses").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanCourse(r.db.QueryRow(ctx, sql, args...))
}

// Create creates a new course submission
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) (int64, error) {
	query := squirrel.Insert("courses").
		Columns("name", "code", "university", "instructor_id", "description", "semester",
			"catalog_status", "validation_requested_at").
		Values(course.Name, course.Code, course.University, course.InstructorID,
			course.Description, course.Semester, course.CatalogStatus, course.ValidationRequestedAt).
		Suffix("RETURNING id").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var id int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("error executing query: %w", err)
	}

	return id, nil
}

// PendingCourse pairs a pending course with its instructor summary for
// university dashboard listings.
type PendingCourse struct {
	Course     models.Course
	Instructor models.User
}

// ListPendingByUniversity retrieves courses pending review at a university,
// joined with the owning instructor, with pagination.
func (r *CourseRepository) ListPendingByUniversity(ctx context.Context, university string, offset uint64, limit int) ([]PendingCourse, int64, error) {
	query := squirrel.Select(
		"c.id", "c.name", "c.code", "c.university", "c.instructor_id", "c.description", "c.semester",
		"c.catalog_status", "c.university_validation_note", "c.validation_requested_at",
		"c.reviewed_at", "c.reviewed_by", "c.created_at", "c.updated_at",
		"u.id", "u.email", "u.first_name", "u.last_name",
		"COUNT(*) OVER()").
		From("courses c").
		Join("users u ON u.id = c.instructor_id").
		Where("c.university = ?", university).
		Where("c.catalog_status = ?", models.CatalogPendingReview).
		OrderBy("c.validation_requested_at ASC NULLS LAST", "c.id ASC").
		Limit(uint64(limit)).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []PendingCourse
	var total int64

	for rows.Next() {
		var item PendingCourse
		err := rows.Scan(
			&item.Course.ID,
			&item.Course.Name,
			&item.Course.Code,
			&item.Course.University,
			&item.Course.InstructorID,
			&item.Course.Description,
			&item.Course.Semester,
			&item.Course.CatalogStatus,
			&item.Course.UniversityValidationNote,
			&item.Course.ValidationRequestedAt,
			&item.Course.ReviewedAt,
			&item.Course.ReviewedBy,
			&item.Course.CreatedAt,
			&item.Course.UpdatedAt,
			&item.Instructor.ID,
			&item.Instructor.Email,
			&item.Instructor.FirstName,
			&item.Instructor.LastName,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, item)
	}

	return items, total, nil
}

// ApplyCatalogDecision persists a review decision with a compare-and-set on
// the pending status. When another decision landed first the update matches
// zero rows and the caller gets ErrInvalidState; this is the concurrency
// control, no locks are taken.
func (r *CourseRepository) ApplyCatalogDecision(ctx context.Context, course *models.Course) error {
	query := squirrel.Update("courses").
		Set("catalog_status", course.CatalogStatus).
		Set("university_validation_note", course.UniversityValidationNote).
		Set("reviewed_at", course.ReviewedAt).
		Set("reviewed_by", course.ReviewedBy).
		Set("updated_at", course.UpdatedAt).
		Where(squirrel.Eq{"id": course.ID, "catalog_status": models.CatalogPendingReview}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}

// SubmitDraft moves a draft course into pending review with a compare-and-set
// on the draft status.
func (r *CourseRepository) SubmitDraft(ctx context.Context, id int64, at time.Time) error {
	query := squirrel.Update("courses").
		Set("catalog_status", models.CatalogPendingReview).
		Set("validation_requested_at", at).
		Set("updated_at", at).
		Where(squirrel.Eq{"id": id, "catalog_status": models.CatalogDraft}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrInvalidState
	}

	return nil
}
