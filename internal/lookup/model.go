package lookup

import (
	"time"

	"gorm.io/gorm"
)

type ProductionLine struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Code        string         `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Type        string         `gorm:"size:50;not null" json:"type"` // upper, lower
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:20;default:active" json:"status"`
	ProcessID   uint           `gorm:"index" json:"process_id"`

	Process Process `json:"process,omitempty"`
}

type Process struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Code        string         `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Type        string         `gorm:"size:50;not null" json:"type"` // upper, lower
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	Description string         `gorm:"type:text" json:"description"`
}

type VehicleModel struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"size:200;not null" json:"name"`
	Code        string         `gorm:"uniqueIndex;size:50;not null" json:"code"`
	Series      string         `gorm:"size:100" json:"series"`
	Description string         `gorm:"type:text" json:"description"`
	Status      string         `gorm:"size:20;default:active" json:"status"`
}

func (ProductionLine) TableName() string {
	return "production_lines"
}

func (Process) TableName() string {
	return "processes"
}

func (VehicleModel) TableName() string {
	return "vehicle_models"
}
