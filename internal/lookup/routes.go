package lookup

import (
	"crane-program-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, lookupService *LookupService) {
	ctrl := &LookupController{LookupService: lookupService}

	lines := r.Group("/api/production-lines")
	lines.Use(middlewares.AuthMiddleware())
	{
		lines.GET("", ctrl.GetProductionLines)
		lines.GET("/:id", ctrl.GetProductionLine)
		lines.POST("", middlewares.AdminMiddleware(), ctrl.CreateProductionLine)
		lines.PUT("/:id", middlewares.AdminMiddleware(), ctrl.UpdateProductionLine)
		lines.DELETE("/:id", middlewares.AdminMiddleware(), ctrl.DeleteProductionLine)
	}

	processes := r.Group("/api/processes")
	processes.Use(middlewares.AuthMiddleware())
	{
		processes.GET("", ctrl.GetProcesses)
		processes.GET("/:id", ctrl.GetProcess)
		processes.POST("", middlewares.AdminMiddleware(), ctrl.CreateProcess)
		processes.PUT("/:id", middlewares.AdminMiddleware(), ctrl.UpdateProcess)
		processes.DELETE("/:id", middlewares.AdminMiddleware(), ctrl.DeleteProcess)
	}

	vehicles := r.Group("/api/vehicle-models")
	vehicles.Use(middlewares.AuthMiddleware())
	{
		vehicles.GET("", ctrl.GetVehicleModels)
		vehicles.GET("/:id", ctrl.GetVehicleModel)
		vehicles.POST("", middlewares.AdminMiddleware(), ctrl.CreateVehicleModel)
		vehicles.PUT("/:id", middlewares.AdminMiddleware(), ctrl.UpdateVehicleModel)
		vehicles.DELETE("/:id", middlewares.AdminMiddleware(), ctrl.DeleteVehicleModel)
	}
}
