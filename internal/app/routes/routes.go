package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nkaya/campusgrid/internal/app/controllers"
	"github.com/nkaya/campusgrid/internal/app/models"
	"github.com/nkaya/campusgrid/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	catalogController *controllers.CatalogController,
	credentialController *controllers.CredentialController,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		// Catalog courses
		courses := authenticated.Group("/courses")
		{
			courses.GET("/:id", catalogController.GetCourse)

			coursesTeacherProtected := courses.Group("")
			coursesTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				coursesTeacherProtected.POST("", catalogController.CreateCourse)
				coursesTeacherProtected.POST("/:id/submit", catalogController.SubmitCourse)
			}

			coursesAdminProtected := courses.Group("")
			coursesAdminProtected.Use(authMiddleware.RoleRequired(string(models.RoleUniversityAdmin)))
			{
				coursesAdminProtected.POST("/:id/catalog-review", catalogController.ReviewCourse)
			}
		}

		// University review dashboard
		universities := authenticated.Group("/universities")
		universities.Use(authMiddleware.RoleRequired(string(models.RoleUniversityAdmin)))
		{
			universities.GET("/:name/pending-courses", catalogController.ListPendingCourses)
		}

		// Claimed completions
		studentCourses := authenticated.Group("/student-courses")
		{
			studentCourses.GET("", credentialController.ListClaims)
			studentCourses.GET("/:id", credentialController.GetClaim)
			studentCourses.POST("", credentialController.CreateClaim)

			// Revocation is open to the owning student too; the service
			// decides who may revoke, so no role guard here.
			studentCourses.DELETE("/:id/credential-review", credentialController.RevokeValidation)

			claimsTeacherProtected := studentCourses.Group("")
			claimsTeacherProtected.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
			{
				claimsTeacherProtected.POST("/:id/credential-review", credentialController.ReviewClaim)
			}
		}

		// Teacher dashboard
		teachers := authenticated.Group("/teachers")
		teachers.Use(authMiddleware.RoleRequired(string(models.RoleTeacher)))
		{
			teachers.GET("/:id/courses", credentialController.ListTeacherCourses)
		}
	}
}
