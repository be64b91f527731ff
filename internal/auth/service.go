package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"crane-program-api/config"
	"crane-program-api/internal/util"
)

type AuthService struct {
	DB  *gorm.DB
	CFG *config.Config
}

var ErrInvalidCredentials = errors.New("invalid employee ID or password")
var ErrUserDisabled = errors.New("user account is disabled")

func (s *AuthService) Authenticate(employeeID, password string) (*User, string, error) {
	var user User
	if err := s.DB.Where("employee_id = ?", employeeID).First(&user).Error; err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if user.Status != "active" {
		return nil, "", ErrUserDisabled
	}

	if err := util.VerifyPassword(password, user.Password); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(&user)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}

func (s *AuthService) IssueToken(user *User) (string, error) {
	exp := time.Now().Add(24 * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     exp.Unix(),
		"iat":     time.Now().Unix(),
	})
	return token.SignedString([]byte(s.CFG.JWTSecret))
}

func (s *AuthService) Register(req RegisterRequest) (*User, error) {
	var count int64
	s.DB.Model(&User{}).Where("employee_id = ?", req.EmployeeID).Count(&count)
	if count > 0 {
		return nil, errors.New("employee ID already registered")
	}

	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		EmployeeID: req.EmployeeID,
		EmployeeNo: req.EmployeeID,
		Name:       req.Name,
		Department: req.Department,
		Password:   hashed,
		Role:       "user",
		Status:     "active",
	}

	if err := s.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, errors.New("employee ID already registered")
		}
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) CreateUser(req CreateUserRequest) (*User, error) {
	hashed, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = "user"
	}
	status := req.Status
	if status == "" {
		status = "active"
	}

	user := User{
		EmployeeID: req.EmployeeID,
		EmployeeNo: req.EmployeeNo,
		Name:       req.Name,
		Department: req.Department,
		Password:   hashed,
		Role:       role,
		Status:     status,
	}

	if err := s.DB.Create(&user).Error; err != nil {
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil, errors.New("employee ID already exists")
		}
		return nil, err
	}

	return &user, nil
}

func (s *AuthService) GetUser(id uint) (*User, error) {
	var user User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) GetAllUsers() ([]User, error) {
	var users []User
	if err := s.DB.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AuthService) UpdateUser(id uint, req UpdateUserRequest) (*User, error) {
	var user User
	if err := s.DB.First(&user, id).Error; err != nil {
		return nil, err
	}

	if req.EmployeeNo != "" {
		user.EmployeeNo = req.EmployeeNo
	}
	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Department != "" {
		user.Department = req.Department
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Status != "" {
		user.Status = req.Status
	}

	if err := s.DB.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) DeleteUser(id uint) error {
	return s.DB.Delete(&User{}, id).Error
}

func (s *AuthService) ChangePassword(id uint, oldPassword, newPassword string) error {
	var user User
	if err := s.DB.First(&user, id).Error; err != nil {
		return err
	}

	if err := util.VerifyPassword(oldPassword, user.Password); err != nil {
		return errors.New("old password is incorrect")
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(&User{}).Where("id = ?", id).Update("password", hashed).Error
}

// ResetPassword sets a new password without checking the old one. Admin only;
// the route is gated accordingly. An empty newPassword generates a temporary
// one, returned so the admin can hand it to the user.
func (s *AuthService) ResetPassword(id uint, newPassword string) (string, error) {
	var user User
	if err := s.DB.First(&user, id).Error; err != nil {
		return "", err
	}

	generated := ""
	if newPassword == "" {
		generated = fmt.Sprintf("tmp-%06d", util.RandomInt(100000, 999999))
		newPassword = generated
	}

	hashed, err := util.HashPassword(newPassword)
	if err != nil {
		return "", err
	}

	if err := s.DB.Model(&User{}).Where("id = ?", id).Update("password", hashed).Error; err != nil {
		return "", err
	}
	return generated, nil
}
