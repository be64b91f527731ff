package program

import (
	"time"

	"crane-program-api/internal/lookup"

	"gorm.io/gorm"
)

// Program is a PLC/robot program slot on a production line. Version holds the
// label of the active version, denormalized from program_versions so list
// views do not need a join.
type Program struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	Name             string         `gorm:"size:200;not null" json:"name"`
	Code             string         `gorm:"size:100;not null" json:"code"`
	ProductionLineID uint           `gorm:"not null;index" json:"production_line_id"`
	VehicleModelID   uint           `gorm:"index" json:"vehicle_model_id"`
	Version          string         `gorm:"size:50" json:"version"`
	Description      string         `gorm:"type:text" json:"description"`
	Status           string         `gorm:"size:20;default:active" json:"status"`

	ProductionLine lookup.ProductionLine `json:"production_line,omitempty"`
	VehicleModel   lookup.VehicleModel   `json:"vehicle_model,omitempty"`
}

// ProgramRelation links two program slots that run the same logical program,
// e.g. the same weld routine deployed on two lines.
type ProgramRelation struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
	SourceProgramID  uint           `gorm:"not null;index" json:"source_program_id"`
	RelatedProgramID uint           `gorm:"not null;index" json:"related_program_id"`
	RelationType     string         `gorm:"size:50" json:"relation_type"` // same_program
	Description      string         `gorm:"type:text" json:"description"`

	SourceProgram  Program `gorm:"foreignKey:SourceProgramID" json:"source_program,omitempty"`
	RelatedProgram Program `gorm:"foreignKey:RelatedProgramID" json:"related_program,omitempty"`
}

func (Program) TableName() string {
	return "programs"
}

func (ProgramRelation) TableName() string {
	return "program_relations"
}
