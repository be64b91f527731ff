package permission

type Port interface {
	GetPermissions(userID, productionLineID uint) ([]UserPermission, error)
	GetUserPermissions(userID uint) ([]UserPermission, error)
	CreatePermission(input *PermissionInput) (*UserPermission, error)
	UpdatePermission(id uint, input *PermissionInput) (*UserPermission, error)
	DeletePermission(id uint) error
	HasPermission(userID, productionLineID uint, capability string) (bool, error)
}

var _ Port = (*PermissionService)(nil)
