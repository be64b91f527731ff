package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"crane-program-api/internal/logs"
)

type AuthController struct {
	AuthService *AuthService
	LS          *logs.LogService
}

func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, token, err := ac.AuthService.Authenticate(req.EmployeeID, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrUserDisabled) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	uid := user.ID
	if err := ac.LS.Log(logs.SystemLog{
		Level:   "INFO",
		Service: "auth",
		Action:  "LOGIN",
		Message: fmt.Sprintf("User logged in: %s", user.EmployeeID),
		UserID:  &uid,
	}, nil); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User: UserInfo{
			ID:         user.ID,
			EmployeeID: user.EmployeeID,
			Name:       user.Name,
			Department: user.Department,
			Role:       user.Role,
		},
	})
}

func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.AuthService.Register(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	uid := user.ID
	if err := ac.LS.Log(logs.SystemLog{
		Level:   "INFO",
		Service: "auth",
		Action:  "REGISTER",
		Message: fmt.Sprintf("Account created for employee %s", user.EmployeeID),
		UserID:  &uid,
	}, nil); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"user": UserInfo{
			ID:         user.ID,
			EmployeeID: user.EmployeeID,
			Name:       user.Name,
			Department: user.Department,
			Role:       user.Role,
		},
	})
}

func (ac *AuthController) GetUsers(c *gin.Context) {
	users, err := ac.AuthService.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, users)
}

func (ac *AuthController) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	user, err := ac.AuthService.GetUser(uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.AuthService.CreateUser(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if uid, ok := currentUserID(c); ok {
		if err := ac.LS.Log(logs.SystemLog{
			Level:   "INFO",
			Service: "auth",
			Action:  "CREATE_USER",
			Message: fmt.Sprintf("User created: %s", user.EmployeeID),
			UserID:  &uid,
		}, req); err != nil {
			fmt.Printf("Failed to insert log: %v\n", err)
		}
	}

	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) UpdateUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := ac.AuthService.UpdateUser(uint(id), req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}

func (ac *AuthController) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	if err := ac.AuthService.DeleteUser(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if uid, ok := currentUserID(c); ok {
		if err := ac.LS.Log(logs.SystemLog{
			Level:   "WARN",
			Service: "auth",
			Action:  "DELETE_USER",
			Message: fmt.Sprintf("User deleted: id=%d", id),
			UserID:  &uid,
		}, nil); err != nil {
			fmt.Printf("Failed to insert log: %v\n", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (ac *AuthController) ChangePassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user ID not found"})
		return
	}

	// users may only change their own password
	if uid != uint(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot change another user's password"})
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ac.AuthService.ChangePassword(uint(id), req.OldPassword, req.NewPassword); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

func (ac *AuthController) ResetPassword(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	generated, err := ac.AuthService.ResetPassword(uint(id), req.NewPassword)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if uid, ok := currentUserID(c); ok {
		if err := ac.LS.Log(logs.SystemLog{
			Level:   "WARN",
			Service: "auth",
			Action:  "RESET_PASSWORD",
			Message: fmt.Sprintf("Password reset for user id=%d", id),
			UserID:  &uid,
		}, nil); err != nil {
			fmt.Printf("Failed to insert log: %v\n", err)
		}
	}

	resp := gin.H{"message": "Password reset successfully"}
	if generated != "" {
		resp["temporary_password"] = generated
	}
	c.JSON(http.StatusOK, resp)
}

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	f, ok := val.(float64)
	if !ok {
		return 0, false
	}
	return uint(f), true
}
