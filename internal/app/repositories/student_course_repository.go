package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/pkg/apperrors"
)

// StudentCourseRepository handles database operations for claimed course completions
type StudentCourseRepository struct {
	db *pgxpool.Pool
}

// NewStudentCourseRepository creates a new StudentCourseRepository
func NewStudentCourseRepository(db *pgxpool.Pool) *StudentCourseRepository {
	return &StudentCourseRepository{db: db}
}

var studentCourseColumns = []string{
	"id", "user_id", "course_name", "course_code", "institution", "course_id",
	"grade", "credits", "description", "assigned_teacher_id",
	"credential_status", "validated_by", "validated_at", "validation_note",
	"created_at", "updated_at",
}

func scanStudentCourse(row pgx.Row) (*models.StudentCourse, error) {
	var sc models.StudentCourse
	err := row.Scan(
		&sc.ID,
		&sc.UserID,
		&sc.CourseName,
		&sc.CourseCode,
		&sc.Institution,
		&sc.CourseID,
		&sc.Grade,
		&sc.Credits,
		&sc.Description,
		&sc.AssignedTeacherID,
		&sc.CredentialStatus,
		&sc.ValidatedBy,
		&sc.ValidatedAt,
		&sc.ValidationNote,
		&sc.CreatedAt,
		&sc.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return &sc, nil
}

func scanStudentCourseRows(rows pgx.Rows) ([]models.StudentCourse, int64, error) {
	var claims []models.StudentCourse
	var total int64

	for rows.Next() {
		var sc models.StudentCourse
		err := rows.Scan(
			&sc.ID,
			&sc.UserID,
			&sc.CourseName,
			&sc.CourseCode,
			&sc.Institution,
			&sc.CourseID,
			&sc.Grade,
			&sc.Credits,
			&sc.Description,
			&sc.AssignedTeacherID,
			&sc.CredentialStatus,
			&sc.ValidatedBy,
			&sc.ValidatedAt,
			&sc.ValidationNote,
			&sc.CreatedAt,
			&sc.UpdatedAt,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		claims = append(claims, sc)
	}

	return claims, total, nil
}

// GetByID retrieves a claim by ID
func (r *StudentCourseRepository) GetByID(ctx context.Context, id int64) (*models.StudentCourse, error) {
	query := squirrel.Select(studentCourseColumns...).
		From("student_courses").
		Where("id = ?", id).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	return scanStudentCourse(r.db.QueryRow(ctx, sql, args...))
}

// Create creates a new claim
func (r *StudentCourseRepository) Create(ctx context.Context, sc *models.StudentCourse) (int64, error) {
	query := squirrel.Insert("student_courses").
		Columns("user_id", "course_name", "course_code", "institution", "course_id",
			"grade", "credits", "description", "assigned_teacher_id", "credential_status").
		Values(sc.UserID, sc.CourseName, sc.CourseCode, sc.Institution, sc.CourseID,
			sc.Grade, sc.Credits, sc.Description, sc.AssignedTeacherID, sc.CredentialStatus).
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

// ListByUser retrieves a student's own claims with pagination
func (r *StudentCourseRepository) ListByUser(ctx context.Context, userID int64, offset uint64, limit int) ([]models.StudentCourse, int64, error) {
	query := squirrel.Select(append(studentCourseColumns, "COUNT(*) OVER()")...).
		From("student_courses").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
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

	return scanStudentCourseRows(rows)
}

// ListForTeacher retrieves claims assigned to the teacher plus unassigned
// pending claims the teacher is eligible to decide, with pagination.
func (r *StudentCourseRepository) ListForTeacher(ctx context.Context, teacherID int64, offset uint64, limit int) ([]models.StudentCourse, int64, error) {
	query := squirrel.Select(append(studentCourseColumns, "COUNT(*) OVER()")...).
		From("student_courses").
		Where(squirrel.Or{
			squirrel.Eq{"assigned_teacher_id": teacherID},
			squirrel.And{
				squirrel.Eq{"assigned_teacher_id": nil},
				squirrel.Eq{"credential_status": models.CredentialPending},
			},
		}).
		OrderBy("created_at DESC", "id DESC").
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

	return scanStudentCourseRows(rows)
}

// ApplyCredentialDecision persists a review or revocation with a
// compare-and-set on the status the decision was computed against. A
// concurrent decision that landed first leaves zero rows matching and the
// caller gets ErrInvalidState.
func (r *StudentCourseRepository) ApplyCredentialDecision(ctx context.Context, sc *models.StudentCourse, fromStatus models.CredentialStatus) error {
	query := squirrel.Update("student_courses").
		Set("credential_status", sc.CredentialStatus).
		Set("validated_by", sc.ValidatedBy).
		Set("validated_at", sc.ValidatedAt).
		Set("validation_note", sc.ValidationNote).
		Set("updated_at", sc.UpdatedAt).
		Where(squirrel.Eq{"id": sc.ID, "credential_status": fromStatus}).
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
