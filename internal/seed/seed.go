package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/nkaya/campusgrid/internal/app/models"
	appRepos "github.com/nkaya/campusgrid/internal/app/repositories"
	pkgAuth "github.com/nkaya/campusgrid/internal/pkg/auth"
)

type demoUser struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      appModels.RoleType
}

var demoUsers = []demoUser{
	{"admin@campusgrid.edu.tr", "Admin123!", "System", "Administrator", appModels.RoleUniversityAdmin},
	{"teacher@campusgrid.edu.tr", "Teacher123!", "Default", "Teacher", appModels.RoleTeacher},
	{"student@campusgrid.edu.tr", "Student123!", "Default", "Student", appModels.RoleStudent},
}

// CreateDefaultData seeds one user per role for local development and logs a
// bearer token for each so the API can be exercised without a login service.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, jwtService *pkgAuth.JWTService, university string, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default users...")

	for _, du := range demoUsers {
		existing, err := userRepo.GetByEmail(ctx, du.email)
		if err != nil {
			return fmt.Errorf("error checking seed user %s: %w", du.email, err)
		}

		user := existing
		if user == nil {
			hashed, err := pkgAuth.HashPassword(du.password)
			if err != nil {
				return fmt.Errorf("error hashing seed password: %w", err)
			}

			user = &appModels.User{
				Email:      du.email,
				Password:   hashed,
				FirstName:  du.firstName,
				LastName:   du.lastName,
				RoleType:   du.role,
				University: university,
				IsActive:   true,
			}
			id, err := userRepo.Create(ctx, user)
			if err != nil {
				return fmt.Errorf("error creating seed user %s: %w", du.email, err)
			}
			user.ID = id
			lgr.Info().Int64("userId", id).Str("email", du.email).Str("role", string(du.role)).Msg("Seed user created")
		}

		token, _, err := jwtService.GenerateToken(user)
		if err != nil {
			return fmt.Errorf("error issuing seed token for %s: %w", du.email, err)
		}
		lgr.Info().Str("email", du.email).Str("role", string(user.RoleType)).Str("token", token).Msg("Seed user token")
	}

	return nil
}
