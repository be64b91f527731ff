package file

import (
	"mime/multipart"
	"time"

	"crane-program-api/internal/auth"
	"crane-program-api/internal/program"

	"gorm.io/gorm"
)

// ProgramFile is one stored artifact of a program version. FilePath is kept
// relative to the upload root so the tree can be relocated wholesale.
type ProgramFile struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	ProgramID   uint           `gorm:"not null;index" json:"program_id"`
	FileName    string         `gorm:"size:255;not null" json:"file_name"`
	FilePath    string         `gorm:"size:500;not null" json:"file_path"`
	FileSize    int64          `json:"file_size"`
	FileType    string         `gorm:"size:50" json:"file_type"`
	Version     string         `gorm:"size:50" json:"version"`
	UploadedBy  uint           `gorm:"index" json:"uploaded_by"`
	Description string         `gorm:"type:text" json:"description"`

	Program  program.Program `json:"program,omitempty"`
	Uploader auth.User       `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

// ProgramVersion is a labelled revision of a program. The label is unique per
// program, never globally. At most one row per program carries is_current.
type ProgramVersion struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	ProgramID  uint           `gorm:"not null;index" json:"program_id"`
	Version    string         `gorm:"size:50;not null" json:"version"`
	FileID     uint           `gorm:"not null" json:"file_id"`
	UploadedBy uint           `gorm:"index" json:"uploaded_by"`
	ChangeLog  string         `gorm:"type:text" json:"change_log"`
	IsCurrent  bool           `gorm:"default:false" json:"is_current"`

	Program  program.Program `json:"program,omitempty"`
	File     ProgramFile     `gorm:"foreignKey:FileID" json:"file,omitempty"`
	Uploader auth.User       `gorm:"foreignKey:UploadedBy" json:"uploader,omitempty"`
}

func (ProgramFile) TableName() string {
	return "program_files"
}

func (ProgramVersion) TableName() string {
	return "program_versions"
}

// UploadInput carries one multipart upload after the controller has parsed
// the form but before anything touches disk or the database.
type UploadInput struct {
	ProgramID   uint
	Version     string
	Description string
	UploadedBy  uint
	Files       []*multipart.FileHeader
}

// UploadResult reports what an upload did. IsNewVersion distinguishes a fresh
// version from files appended to an existing label.
type UploadResult struct {
	Files        []ProgramFile `json:"files"`
	IsNewVersion bool          `json:"isNewVersion"`
}

// VersionView is one entry of the version browser: the version metadata plus
// its files, synthesized from bare files when no version row exists.
type VersionView struct {
	Version   string        `json:"version"`
	ChangeLog string        `json:"change_log"`
	IsCurrent bool          `json:"is_current"`
	CreatedAt time.Time     `json:"created_at"`
	Uploader  *auth.User    `json:"uploader"`
	Files     []ProgramFile `json:"files"`
	FileCount int           `json:"file_count"`
}
