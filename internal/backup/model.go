package backup

import (
	"time"

	"gorm.io/datatypes"
)

// BackupRecord tracks a backup produced by this instance. The directory
// listing remains the source of truth for what is restorable; records add
// the manifest and the offsite copy URL.
type BackupRecord struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	Name       string         `gorm:"uniqueIndex;size:255;not null" json:"name"`
	Type       string         `gorm:"size:20;not null" json:"type"` // database, files, full
	Size       int64          `json:"size"`
	OffsiteURL string         `gorm:"size:500" json:"offsite_url"`
	Manifest   datatypes.JSON `gorm:"type:jsonb" json:"manifest"`
}

func (BackupRecord) TableName() string {
	return "backup_records"
}

// BackupInfo is one row of the backup list, assembled from the directory
// entry plus the matching record when one exists.
type BackupInfo struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	CreatedAt  string `json:"created_at"`
	Type       string `json:"type"`
	OffsiteURL string `json:"offsite_url,omitempty"`
}
