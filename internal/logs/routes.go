package logs

import (
	"github.com/gin-gonic/gin"

	"crane-program-api/internal/middlewares"
)

func RegisterRoutes(r *gin.Engine, logService *LogService) {
	logController := &LogController{LogService: logService}

	group := r.Group("/api/logs")
	group.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		group.POST("/query", logController.QueryLogs)
	}
}
