package routes

import (
	"net/http"

	"conference-review-api/controllers"
	"conference-review-api/middleware"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			public.GET("/health", func(c *gin.Context) {
				c.JSON(http.StatusOK, gin.H{
					"status":  "ok",
					"message": "Conference Review API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", controllers.GetProfile)

			submissions := protected.Group("/submissions")
			{
				submissions.POST("", controllers.CreateSubmission)
				submissions.GET("/mine", controllers.GetMySubmissions)
				submissions.GET("/:id", controllers.GetSubmission)
				submissions.PUT("/:id", controllers.UpdateSubmission)
				submissions.DELETE("/:id", controllers.DeleteSubmission)
				submissions.PUT("/:id/status", controllers.UpdateSubmissionStatus)
				submissions.POST("/:id/file", controllers.UploadSubmissionFile)
				submissions.DELETE("/:id/file", controllers.DeleteSubmissionFile)
				submissions.GET("/:id/history", controllers.GetSubmissionHistory)

				// Review workflow
				submissions.POST("/:id/assign", controllers.AssignEvaluator)
				submissions.POST("/:id/evaluate", controllers.EvaluateSubmission)
				submissions.GET("/:id/evaluations", controllers.GetSubmissionEvaluations)
				submissions.GET("/:id/report", controllers.GetEvaluationReport)
			}

			events := protected.Group("/events")
			{
				events.GET("/:id/submissions", controllers.GetEventSubmissions)
				events.GET("/:id/assignments", controllers.GetEventAssignments)
				events.GET("/:id/committee", controllers.GetEventCommittee)
				events.POST("/:id/committee", controllers.AddCommitteeMember)
			}

			assignments := protected.Group("/assignments")
			{
				assignments.GET("/mine", controllers.GetMyAssignments)
				assignments.DELETE("/:id", controllers.RemoveAssignment)
			}

			committees := protected.Group("/committees")
			{
				committees.GET("/mine", controllers.GetMyCommittees)
				committees.PUT("/:id", controllers.UpdateCommitteeMember)
				committees.DELETE("/:id", controllers.RemoveCommitteeMember)
			}

			evaluations := protected.Group("/evaluations")
			{
				evaluations.GET("/mine", controllers.GetMyEvaluations)
				evaluations.PUT("/:id", controllers.UpdateEvaluation)
			}

			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/unread-count", controllers.GetNotificationCounter)
				notifications.PATCH("/read-all", controllers.MarkAllNotificationsRead)
				notifications.PATCH("/:id/read", controllers.MarkNotificationRead)
			}
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "route not found"})
	})
}
