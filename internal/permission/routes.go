package permission

import (
	"crane-program-api/internal/logs"
	"crane-program-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, permissionService *PermissionService, logService *logs.LogService) {
	ctrl := &PermissionController{PermissionService: permissionService, LS: logService}

	g := r.Group("/api/permissions")
	g.Use(middlewares.AuthMiddleware())
	{
		g.GET("/user/:user_id", ctrl.GetUserPermissions)

		g.GET("", middlewares.AdminMiddleware(), ctrl.GetPermissions)
		g.POST("", middlewares.AdminMiddleware(), ctrl.CreatePermission)
		g.PUT("/:id", middlewares.AdminMiddleware(), ctrl.UpdatePermission)
		g.DELETE("/:id", middlewares.AdminMiddleware(), ctrl.DeletePermission)
	}
}
