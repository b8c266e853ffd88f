package app

import (
	"github.com/gin-gonic/gin"

	"testseries_backend/internal/config"
	"testseries_backend/internal/middleware"
	"testseries_backend/internal/model"
	"testseries_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg, a.Redis))
	{
		// 考生接口
		authGroup.GET("/tests/my", c.assignment.ListMyTests)
		authGroup.GET("/assignments/:id", c.assignment.GetAssignment)
		authGroup.GET("/assignments/:id/score", c.assignment.GetScore)
		authGroup.POST("/assignments/:id/answers", c.submission.RecordAnswer)
		authGroup.POST("/assignments/:id/attachments", c.submission.UploadAttachment)

		// 批阅接口
		review := authGroup.Group("/review")
		review.Use(middleware.RoleMiddleware(model.Reviewer))
		{
			review.GET("/pending", c.review.ListPending)
			review.GET("/completed", c.review.ListCompleted)
			review.POST("/assignments/:id/marks", c.review.AssignMarks)
		}
	}
}
