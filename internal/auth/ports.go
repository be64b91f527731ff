package auth

import "crane-program-api/internal/logs"

type AuthServicePort interface {
	Authenticate(employeeID, password string) (*User, string, error)
	IssueToken(user *User) (string, error)
	Register(req RegisterRequest) (*User, error)
	CreateUser(req CreateUserRequest) (*User, error)
	GetUser(id uint) (*User, error)
	GetAllUsers() ([]User, error)
	UpdateUser(id uint, req UpdateUserRequest) (*User, error)
	DeleteUser(id uint) error
	ChangePassword(id uint, oldPassword, newPassword string) error
	ResetPassword(id uint, newPassword string) (string, error)
}

type LogServicePort interface {
	Log(entry logs.SystemLog, payload any) error
}

var _ AuthServicePort = (*AuthService)(nil)
var _ LogServicePort = (*logs.LogService)(nil)
