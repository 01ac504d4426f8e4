package app

import (
	"climate_edu_backend/docs"
	"climate_edu_backend/internal/config"
	"climate_edu_backend/internal/middleware"
	"climate_edu_backend/internal/model"
	"climate_edu_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c, cfg)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerTeacherRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	api := router.Group("/api")
	{
		api.GET("/health", c.health.Health)
		api.POST("/auth/register", c.auth.Register)
		api.POST("/auth/login", c.auth.Login)

		// Course catalog is browsable anonymously; claims, when present,
		// let teachers see their unpublished courses.
		catalog := api.Group("")
		catalog.Use(middleware.TryAuthMiddleware(cfg))
		{
			catalog.GET("/courses", c.course.List)
			catalog.GET("/courses/:id", c.course.Get)
		}
	}
}

// registerStudentRoutes covers everything any signed-in user can do.
func (a *App) registerStudentRoutes(group *gin.RouterGroup, c *controllers) {
	group.GET("/auth/me", c.auth.Me)
	group.GET("/users/me", c.user.GetProfile)
	group.PUT("/users/me", c.user.UpdateProfile)
	group.GET("/users/me/dashboard", c.user.Dashboard)
	group.POST("/users/me/avatar", c.user.UploadAvatar)

	group.POST("/courses/:id/enroll", c.course.Enroll)
	group.GET("/courses/:id/progress", c.course.GetProgress)
	group.PUT("/courses/:id/progress", c.course.UpdateProgress)
	group.GET("/courses/enrollments", c.course.MyEnrollments)
	group.GET("/courses/:id/materials", c.course.ListMaterials)
	group.GET("/courses/:id/quizzes", c.quiz.ListByCourse)

	group.GET("/quizzes/attempts", c.quiz.MyAttempts)
	group.GET("/quizzes/attempts/:id/feedback", c.quiz.AttemptFeedback)
	group.GET("/quizzes/:id", c.quiz.Get)
	group.GET("/quizzes/:id/attempts", c.quiz.QuizAttempts)
	group.POST("/quizzes/:id/submit", c.quiz.Submit)
	group.POST("/quizzes/:id/preview", c.quiz.Preview)

	group.GET("/badges/me", c.badge.MyBadges)
	group.GET("/leaderboard", c.badge.Leaderboard)
	group.GET("/groups/assigned-courses", c.group.AssignedCourses)
}

func (a *App) registerTeacherRoutes(group *gin.RouterGroup, c *controllers) {
	teacher := group.Group("/teacher")
	teacher.Use(middleware.RoleMiddleware(model.Teacher))
	{
		teacher.POST("/courses", c.course.Create)
		teacher.GET("/courses", c.course.MyCourses)
		teacher.PUT("/courses/:id", c.course.Update)
		teacher.DELETE("/courses/:id", c.course.Delete)
		teacher.POST("/courses/:id/material", c.course.RegenerateMaterial)
		teacher.POST("/courses/:id/materials", c.course.UploadMaterial)
		teacher.DELETE("/courses/:id/materials/:materialId", c.course.DeleteMaterial)

		teacher.POST("/quizzes", c.quiz.Create)
		teacher.GET("/quizzes/:id", c.quiz.Review)
		teacher.POST("/quizzes/:id/regenerate", c.quiz.Regenerate)
		teacher.DELETE("/quizzes/:id", c.quiz.Delete)

		teacher.POST("/groups", c.group.Create)
		teacher.GET("/groups", c.group.List)
		teacher.PUT("/groups/:id", c.group.Update)
		teacher.DELETE("/groups/:id", c.group.Delete)
		teacher.POST("/groups/:id/members", c.group.AddMember)
		teacher.GET("/groups/:id/members", c.group.ListMembers)
		teacher.DELETE("/groups/:id/members/:userId", c.group.RemoveMember)
		teacher.POST("/groups/:id/assignments", c.group.AssignCourse)
		teacher.GET("/groups/:id/assignments", c.group.ListAssignments)
		teacher.GET("/groups/:id/progress", c.group.Progress)
	}
}

func (a *App) registerAdminRoutes(group *gin.RouterGroup, c *controllers) {
	admin := group.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("/users", c.user.ListUsers)
		admin.PUT("/users/:id", c.user.UpdateUser)

		admin.GET("/badges", c.badge.List)
		admin.POST("/badges", c.badge.Create)
		admin.PUT("/badges/:id", c.badge.Update)
		admin.DELETE("/badges/:id", c.badge.Delete)
	}
}
