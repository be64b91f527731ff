package permission

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("permission not found")
	ErrDuplicate = errors.New("permission already exists for this user and production line")
)

type PermissionService struct {
	DB *gorm.DB
}

func (s *PermissionService) GetPermissions(userID, productionLineID uint) ([]UserPermission, error) {
	var permissions []UserPermission
	query := s.DB.Preload("User").Preload("ProductionLine")
	if userID != 0 {
		query = query.Where("user_id = ?", userID)
	}
	if productionLineID != 0 {
		query = query.Where("production_line_id = ?", productionLineID)
	}
	if err := query.Order("id").Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

// GetUserPermissions returns every grant a user holds, with the line and its
// process preloaded so the caller can render the tree in one round trip.
func (s *PermissionService) GetUserPermissions(userID uint) ([]UserPermission, error) {
	var permissions []UserPermission
	if err := s.DB.
		Preload("ProductionLine").
		Preload("ProductionLine.Process").
		Where("user_id = ?", userID).
		Order("id").
		Find(&permissions).Error; err != nil {
		return nil, err
	}
	return permissions, nil
}

func (s *PermissionService) CreatePermission(input *PermissionInput) (*UserPermission, error) {
	var count int64
	if err := s.DB.Model(&UserPermission{}).
		Where("user_id = ? AND production_line_id = ?", input.UserID, input.ProductionLineID).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicate
	}

	perm := UserPermission{
		UserID:           input.UserID,
		ProductionLineID: input.ProductionLineID,
		CanView:          true,
	}
	applyFlags(&perm, input)

	if err := s.DB.Create(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (s *PermissionService) UpdatePermission(id uint, input *PermissionInput) (*UserPermission, error) {
	var perm UserPermission
	if err := s.DB.First(&perm, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	applyFlags(&perm, input)
	if err := s.DB.Save(&perm).Error; err != nil {
		return nil, err
	}
	return &perm, nil
}

func (s *PermissionService) DeletePermission(id uint) error {
	result := s.DB.Delete(&UserPermission{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// HasPermission reports whether the user holds the named capability on the
// production line. Admins are checked by the middleware and bypass this.
func (s *PermissionService) HasPermission(userID, productionLineID uint, capability string) (bool, error) {
	var perm UserPermission
	err := s.DB.
		Where("user_id = ? AND production_line_id = ?", userID, productionLineID).
		First(&perm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	switch capability {
	case "view":
		return perm.CanView, nil
	case "download":
		return perm.CanDownload, nil
	case "upload":
		return perm.CanUpload, nil
	case "manage":
		return perm.CanManage, nil
	default:
		return false, nil
	}
}

func applyFlags(perm *UserPermission, input *PermissionInput) {
	if input.CanView != nil {
		perm.CanView = *input.CanView
	}
	if input.CanDownload != nil {
		perm.CanDownload = *input.CanDownload
	}
	if input.CanUpload != nil {
		perm.CanUpload = *input.CanUpload
	}
	if input.CanManage != nil {
		perm.CanManage = *input.CanManage
	}
}
