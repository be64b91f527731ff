package admin

import (
	"crane-program-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, adminService *AdminService) {
	ctrl := &AdminController{AdminService: adminService}

	g := r.Group("/api/admin")
	g.Use(middlewares.AuthMiddleware(), middlewares.AdminMiddleware())
	{
		g.GET("/stats", ctrl.GetStats)
		g.GET("/export/programs", ctrl.ExportPrograms)
		g.GET("/export/permissions", ctrl.ExportPermissions)
	}
}
