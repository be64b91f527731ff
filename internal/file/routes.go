package file

import (
	"crane-program-api/internal/logs"
	"crane-program-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, fileService *FileService, logService *logs.LogService) {
	ctrl := &FileController{FileService: fileService, LS: logService}

	files := r.Group("/api/files")
	files.Use(middlewares.AuthMiddleware())
	{
		files.POST("/upload", ctrl.UploadFiles)
		files.GET("/program/:program_id", ctrl.GetProgramFiles)
		files.GET("/download/:id", ctrl.DownloadFile)
		files.GET("/download/program/:program_id/latest", ctrl.DownloadProgramLatest)
		files.GET("/download/version/:version", ctrl.DownloadVersionFiles)
		files.DELETE("/:id", ctrl.DeleteFile)
	}

	versions := r.Group("/api/versions")
	versions.Use(middlewares.AuthMiddleware())
	{
		versions.GET("/program/:program_id", ctrl.GetProgramVersions)
		versions.POST("", ctrl.CreateVersion)
		versions.PUT("/:id/activate", ctrl.ActivateVersion)
	}
}
