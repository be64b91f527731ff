package permission

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"crane-program-api/internal/logs"

	"github.com/gin-gonic/gin"
)

type LogServicePort interface {
	Log(entry logs.SystemLog, payload interface{}) error
}

type PermissionController struct {
	PermissionService *PermissionService
	LS                LogServicePort
}

func (ctrl *PermissionController) GetPermissions(c *gin.Context) {
	userID, ok := parseOptionalID(c, "user_id")
	if !ok {
		return
	}
	lineID, ok := parseOptionalID(c, "production_line_id")
	if !ok {
		return
	}

	permissions, err := ctrl.PermissionService.GetPermissions(userID, lineID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch permissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": permissions})
}

func (ctrl *PermissionController) GetUserPermissions(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("user_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}
	permissions, err := ctrl.PermissionService.GetUserPermissions(uint(id))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch permissions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": permissions})
}

func (ctrl *PermissionController) CreatePermission(c *gin.Context) {
	var input PermissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if input.UserID == 0 || input.ProductionLineID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and production_line_id are required"})
		return
	}

	perm, err := ctrl.PermissionService.CreatePermission(&input)
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			c.JSON(http.StatusConflict, gin.H{"error": "Permission already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create permission"})
		return
	}

	ctrl.audit(c, "GRANT_PERMISSION", fmt.Sprintf("Granted permissions on line %d to user %d", perm.ProductionLineID, perm.UserID), perm)
	c.JSON(http.StatusCreated, gin.H{"data": perm})
}

func (ctrl *PermissionController) UpdatePermission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	var input PermissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	perm, err := ctrl.PermissionService.UpdatePermission(uint(id), &input)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Permission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update permission"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": perm})
}

func (ctrl *PermissionController) DeletePermission(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}
	if err := ctrl.PermissionService.DeletePermission(uint(id)); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Permission not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete permission"})
		return
	}

	ctrl.audit(c, "REVOKE_PERMISSION", fmt.Sprintf("Revoked permission %d", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Permission deleted"})
}

func (ctrl *PermissionController) audit(c *gin.Context, action, message string, payload interface{}) {
	if ctrl.LS == nil {
		return
	}
	var actor *uint
	if raw, ok := c.Get("userID"); ok {
		if f, ok := raw.(float64); ok {
			id := uint(f)
			actor = &id
		}
	}
	if err := ctrl.LS.Log(logs.SystemLog{
		Level:   "info",
		Service: "permission",
		UserID:  actor,
		Action:  action,
		Message: message,
	}, payload); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}

func parseOptionalID(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + key})
		return 0, false
	}
	return uint(parsed), true
}
