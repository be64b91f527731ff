package backup

import (
	"crane-program-api/internal/logs"
	"crane-program-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, backupService *BackupService, logService *logs.LogService) {
	ctrl := &BackupController{BackupService: backupService, LS: logService}

	g := r.Group("/api/backup")
	g.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		g.POST("/database", ctrl.CreateDatabaseBackup)
		g.POST("/files", ctrl.CreateFilesBackup)
		g.POST("/full", ctrl.CreateFullBackup)
		g.GET("", ctrl.GetBackupList)
		g.DELETE("/:name", ctrl.DeleteBackup)
		g.GET("/download/:name", ctrl.DownloadBackup)
		g.POST("/restore/database/:name", ctrl.RestoreDatabase)
		g.POST("/restore/files/:name", ctrl.RestoreFiles)
	}
}
