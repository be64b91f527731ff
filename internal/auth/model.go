package auth

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	EmployeeID string         `gorm:"uniqueIndex;size:50" json:"employee_id"`
	EmployeeNo string         `gorm:"size:50" json:"employee_no"`
	Name       string         `gorm:"size:100;not null" json:"name"`
	Department string         `gorm:"size:100" json:"department"`
	Role       string         `gorm:"size:50;not null" json:"role"` // admin, user
	Password   string         `gorm:"size:255;not null" json:"-"`
	Status     string         `gorm:"size:20;default:active" json:"status"` // active, inactive
}

type LoginRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	Password   string `json:"password" binding:"required,min=6"`
}

type CreateUserRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	EmployeeNo string `json:"employee_no"`
	Name       string `json:"name" binding:"required"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Password   string `json:"password" binding:"required,min=6"`
	Status     string `json:"status"`
}

type UpdateUserRequest struct {
	EmployeeNo string `json:"employee_no"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
	Status     string `json:"status"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"omitempty,min=6"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	ID         uint   `json:"id"`
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Role       string `json:"role"`
}

func (User) TableName() string {
	return "users"
}
