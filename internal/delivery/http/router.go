package http

import (
	"CliniGoal/internal/delivery/http/controllers"
	"CliniGoal/internal/delivery/http/controllers/middleware"
	"CliniGoal/internal/models"
	"CliniGoal/internal/notify"
	"CliniGoal/internal/realtime"
	"CliniGoal/internal/service"
	"CliniGoal/pkg/logger"
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func InitRoutes(l logger.Log, u service.Collection, bus *notify.Bus, hub *realtime.Hub, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     corsOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	statusController := controllers.NewStatusHandler()
	authController := controllers.NewAuthHandler(l, u.Auth)
	catalogController := controllers.NewCatalogHandler(l, u.Catalog)
	enrollmentController := controllers.NewEnrollmentHandler(l, u.Enrollment, u.Auth)
	quizController := controllers.NewQuizHandler(l, u.Quiz)
	progressController := controllers.NewProgressHandler(l, u.Progress)
	reviewController := controllers.NewReviewHandler(l, u.Review)
	notificationController := controllers.NewNotificationHandler(l, bus)

	authMW := middleware.NewAuthMiddlewareProvider(l, u.Auth)
	adminOnly := middleware.RequireRoles(models.AdminRole)
	studentOnly := middleware.RequireRoles(models.StudentRole)

	v1 := r.Group("/v1", middleware.LoggingMiddleware(l))
	{
		v1.GET("/status", statusController.Status)

		v1.GET("/ws", realtime.ServeWs(hub, l, func(token string) (uuid.UUID, []string, error) {
			return u.Auth.AccessClaims(context.Background(), token)
		}))

		auth := v1.Group("/auth")
		{
			auth.POST("/register", authController.Register)
			auth.POST("/login", authController.Login)
			auth.POST("/refresh", authController.Refresh)
			auth.POST("/logout", authMW.AuthMiddleware, authController.Logout)
		}
		v1.GET("/me", authMW.AuthMiddleware, authController.Me)

		courses := v1.Group("/courses")
		{
			courses.GET("", catalogController.ListCourses)
			courses.GET("/:course_id/preview", catalogController.CourseByID)
			courses.GET("/:course_id/reviews", reviewController.ForCourse)

			student := courses.Group("", authMW.AuthMiddleware, studentOnly)
			{
				student.GET("/:course_id/content", catalogController.CourseContent)
				student.GET("/:course_id/enrollment-status", enrollmentController.EnrollmentStatus)
				student.POST("/:course_id/reviews", reviewController.Submit)
				student.GET("/:course_id/progress", progressController.CourseProgress)
				student.POST("/:course_id/videos/:video_id/watched", progressController.VideoWatched)
				student.POST("/:course_id/notes/:note_id/completed", progressController.NoteCompleted)
			}

			admin := courses.Group("", authMW.AuthMiddleware, adminOnly)
			{
				admin.POST("", catalogController.CreateCourse)
				admin.PUT("/:course_id", catalogController.UpdateCourse)
				admin.PATCH("/:course_id/publish", catalogController.PublishCourse)
				admin.PATCH("/:course_id/hide", catalogController.HideCourse)
				admin.DELETE("/:course_id", catalogController.DeleteCourse)
				admin.PUT("/:course_id/logo", catalogController.UploadCourseLogo)

				admin.POST("/:course_id/videos", catalogController.AddVideo)
				admin.POST("/:course_id/notes", catalogController.AddNote)
				admin.POST("/:course_id/quizzes", catalogController.AddQuiz)
			}
		}

		content := v1.Group("", authMW.AuthMiddleware, adminOnly)
		{
			content.GET("/admin/courses", catalogController.ListAllCourses)
			content.PUT("/videos/:video_id", catalogController.UpdateVideo)
			content.DELETE("/videos/:video_id", catalogController.DeleteVideo)
			content.PUT("/videos/:video_id/file", catalogController.UploadVideoFile)
			content.PUT("/notes/:note_id", catalogController.UpdateNote)
			content.DELETE("/notes/:note_id", catalogController.DeleteNote)
			content.PUT("/notes/:note_id/file", catalogController.UploadNoteFile)
			content.PUT("/quizzes/:quiz_id", catalogController.UpdateQuiz)
			content.DELETE("/quizzes/:quiz_id", catalogController.DeleteQuiz)
		}

		enrollments := v1.Group("/enrollments", authMW.AuthMiddleware)
		{
			enrollments.POST("", studentOnly, enrollmentController.Enroll)
			enrollments.GET("/my", studentOnly, enrollmentController.MyEnrollments)

			enrollments.GET("/pending", adminOnly, enrollmentController.PendingApprovals)
			enrollments.PATCH("/:record_id/decision", adminOnly, enrollmentController.Decide)
			enrollments.PATCH("/decisions", adminOnly, enrollmentController.BulkDecide)
			enrollments.DELETE("", adminOnly, enrollmentController.Purge)
		}

		quizzes := v1.Group("/quizzes", authMW.AuthMiddleware, studentOnly)
		{
			quizzes.POST("/:quiz_id/start", quizController.Start)
			quizzes.POST("/answer", quizController.SelectAnswer)
			quizzes.POST("/submit", quizController.Submit)
			quizzes.POST("/reset", quizController.Reset)
			quizzes.GET("/:quiz_id/result", quizController.LastResult)
		}

		me := v1.Group("", authMW.AuthMiddleware)
		{
			me.GET("/certificates", progressController.Certificates)
			me.GET("/notifications", notificationController.Active)
			me.DELETE("/notifications/:notification_id", notificationController.Dismiss)
		}

		reviews := v1.Group("/reviews", authMW.AuthMiddleware, adminOnly)
		{
			reviews.GET("", reviewController.ListAll)
			reviews.DELETE("/:review_id", reviewController.Delete)
		}
	}
	return r
}
