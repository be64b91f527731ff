package program

import (
	"crane-program-api/internal/logs"
	"crane-program-api/internal/middlewares"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, programService *ProgramService, logService *logs.LogService) {
	ctrl := &ProgramController{ProgramService: programService, LS: logService}

	programs := r.Group("/api/programs")
	programs.Use(middlewares.AuthMiddleware())
	{
		programs.GET("", ctrl.GetPrograms)
		programs.GET("/by-vehicle/:vehicle_id", ctrl.GetProgramsByVehicle)
		programs.GET("/:id", ctrl.GetProgram)
		programs.POST("", ctrl.CreateProgram)
		programs.PUT("/:id", ctrl.UpdateProgram)
		programs.DELETE("/:id", middlewares.AdminMiddleware(), ctrl.DeleteProgram)
	}

	relations := r.Group("/api/relations")
	relations.Use(middlewares.AuthMiddleware())
	{
		relations.GET("/program/:program_id", ctrl.GetRelations)
		relations.POST("", ctrl.CreateRelation)
		relations.DELETE("/:id", ctrl.DeleteRelation)
	}
}
