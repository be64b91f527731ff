package logs

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

type SystemLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Level     string         `gorm:"size:20;not null" json:"level"`
	Service   string         `gorm:"size:100;not null" json:"service"`
	UserID    *uint          `gorm:"index" json:"user_id,omitempty"`
	Action    string         `gorm:"size:255;not null" json:"action"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Tags      pq.StringArray `gorm:"type:text[];column:tags" json:"tags"`
	Metadata  datatypes.JSON `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

type LogFilterInput struct {
	UserID  *uint    `json:"user_id"`
	Level   *string  `json:"level"`
	Service *string  `json:"service"`
	Action  *string  `json:"action"`
	Tags    []string `json:"tags"`

	StartDate *string `json:"start_date"` // "YYYY-MM-DD" or RFC3339
	EndDate   *string `json:"end_date"`

	Search   *string `json:"search"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
}

type LogRow struct {
	SystemLog
	EmployeeID string `json:"employee_id" gorm:"column:employee_id"`
	UserName   string `json:"user_name" gorm:"column:user_name"`
}

func (SystemLog) TableName() string {
	return "logs"
}
