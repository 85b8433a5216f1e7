package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories contains all repository instances
type Repositories struct {
	UserRepository          *UserRepository
	CourseRepository        *CourseRepository
	StudentCourseRepository *StudentCourseRepository
}

// NewRepositories creates all repositories with the given database pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		CourseRepository:        NewCourseRepository(db),
		StudentCourseRepository: NewStudentCourseRepository(db),
	}
}
