package permission

import (
	"time"

	"crane-program-api/internal/auth"
	"crane-program-api/internal/lookup"

	"gorm.io/gorm"
)

// UserPermission grants a user capabilities on a single production line.
type UserPermission struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	UserID           uint           `gorm:"not null;index" json:"user_id"`
	ProductionLineID uint           `gorm:"not null;index" json:"production_line_id"`
	CanView          bool           `gorm:"default:true" json:"can_view"`
	CanDownload      bool           `gorm:"default:false" json:"can_download"`
	CanUpload        bool           `gorm:"default:false" json:"can_upload"`
	CanManage        bool           `gorm:"default:false" json:"can_manage"`

	User           auth.User             `json:"user,omitempty"`
	ProductionLine lookup.ProductionLine `json:"production_line,omitempty"`
}

func (UserPermission) TableName() string {
	return "user_permissions"
}

type PermissionInput struct {
	UserID           uint  `json:"user_id"`
	ProductionLineID uint  `json:"production_line_id"`
	CanView          *bool `json:"can_view"`
	CanDownload      *bool `json:"can_download"`
	CanUpload        *bool `json:"can_upload"`
	CanManage        *bool `json:"can_manage"`
}
