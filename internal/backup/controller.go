package backup

import (
	"errors"
	"fmt"
	"net/http"

	"crane-program-api/internal/logs"

	"github.com/gin-gonic/gin"
)

type LogServicePort interface {
	Log(entry logs.SystemLog, payload interface{}) error
}

type BackupController struct {
	BackupService *BackupService
	LS            LogServicePort
}

func (ctrl *BackupController) CreateDatabaseBackup(c *gin.Context) {
	info, err := ctrl.BackupService.CreateDatabaseBackup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database backup failed: " + err.Error()})
		return
	}
	ctrl.audit(c, "BACKUP_DATABASE", "Created database backup "+info.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Database backup created", "backup": info})
}

func (ctrl *BackupController) CreateFilesBackup(c *gin.Context) {
	info, err := ctrl.BackupService.CreateFilesBackup(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoUploadDir) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Upload directory does not exist"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Files backup failed: " + err.Error()})
		return
	}
	ctrl.audit(c, "BACKUP_FILES", "Created files backup "+info.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Files backup created", "backup": info})
}

func (ctrl *BackupController) CreateFullBackup(c *gin.Context) {
	info, err := ctrl.BackupService.CreateFullBackup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Full backup failed: " + err.Error()})
		return
	}
	ctrl.audit(c, "BACKUP_FULL", "Created full backup "+info.Name)
	c.JSON(http.StatusOK, gin.H{"message": "Full backup created", "backup": info})
}

func (ctrl *BackupController) GetBackupList(c *gin.Context) {
	backups, err := ctrl.BackupService.ListBackups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read backup directory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"backups": backups, "total": len(backups)})
}

func (ctrl *BackupController) DeleteBackup(c *gin.Context) {
	name := c.Param("name")
	if err := ctrl.BackupService.DeleteBackup(c.Request.Context(), name); err != nil {
		respondBackupErr(c, err, "Failed to delete backup")
		return
	}
	ctrl.audit(c, "DELETE_BACKUP", "Deleted backup "+name)
	c.JSON(http.StatusOK, gin.H{"message": "Backup deleted"})
}

func (ctrl *BackupController) DownloadBackup(c *gin.Context) {
	name := c.Param("name")
	path, err := ctrl.BackupService.BackupPath(name)
	if err != nil {
		respondBackupErr(c, err, "Failed to resolve backup")
		return
	}
	c.FileAttachment(path, name)
}

func (ctrl *BackupController) RestoreDatabase(c *gin.Context) {
	name := c.Param("name")
	rollback, err := ctrl.BackupService.RestoreDatabase(name)
	if err != nil {
		respondBackupErr(c, err, "Database restore failed")
		return
	}
	ctrl.audit(c, "RESTORE_DATABASE", "Restored database from "+name)
	c.JSON(http.StatusOK, gin.H{"message": "Database restored", "rollback_backup": rollback})
}

func (ctrl *BackupController) RestoreFiles(c *gin.Context) {
	name := c.Param("name")
	rollback, err := ctrl.BackupService.RestoreFiles(name)
	if err != nil {
		respondBackupErr(c, err, "Files restore failed")
		return
	}
	ctrl.audit(c, "RESTORE_FILES", "Restored files from "+name)
	c.JSON(http.StatusOK, gin.H{"message": "Files restored", "rollback_backup": rollback})
}

func respondBackupErr(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBackupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Backup not found"})
	case errors.Is(err, ErrUnsafeName):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsafe backup name"})
	case errors.Is(err, ErrInvalidBackup):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Backup is not valid for this restore"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback + ": " + err.Error()})
	}
}

func (ctrl *BackupController) audit(c *gin.Context, action, message string) {
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
		Service: "backup",
		UserID:  actor,
		Action:  action,
		Message: message,
	}, nil); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}
