package auth

import (
	"github.com/gin-gonic/gin"

	"crane-program-api/internal/logs"
	"crane-program-api/internal/middlewares"
)

func RegisterRoutes(r *gin.Engine, authService *AuthService, logService *logs.LogService) {
	authController := &AuthController{AuthService: authService, LS: logService}

	public := r.Group("/api")
	{
		public.POST("/login", authController.Login)
		public.POST("/register", authController.Register)
	}

	users := r.Group("/api/users")
	users.Use(middlewares.AuthMiddleware())
	{
		users.GET("", authController.GetUsers)
		users.GET("/:id", authController.GetUser)
		users.POST("", middlewares.AdminMiddleware(), authController.CreateUser)
		users.PUT("/:id", authController.UpdateUser)
		users.DELETE("/:id", middlewares.AdminMiddleware(), authController.DeleteUser)
		users.PUT("/:id/password", authController.ChangePassword)
		users.PUT("/:id/reset-password", middlewares.AdminMiddleware(), authController.ResetPassword)
	}
}
