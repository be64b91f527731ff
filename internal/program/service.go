package program

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("program not found")

type ProgramService struct {
	DB *gorm.DB
}

func (s *ProgramService) GetPrograms(productionLineID, vehicleModelID uint) ([]Program, error) {
	var programs []Program
	query := s.DB.Preload("ProductionLine").Preload("VehicleModel")
	if productionLineID != 0 {
		query = query.Where("production_line_id = ?", productionLineID)
	}
	if vehicleModelID != 0 {
		query = query.Where("vehicle_model_id = ?", vehicleModelID)
	}
	if err := query.Order("id").Find(&programs).Error; err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *ProgramService) GetProgram(id uint) (*Program, error) {
	var program Program
	err := s.DB.
		Preload("ProductionLine").
		Preload("ProductionLine.Process").
		Preload("VehicleModel").
		First(&program, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &program, nil
}

func (s *ProgramService) CreateProgram(program *Program) error {
	return s.DB.Create(program).Error
}

func (s *ProgramService) UpdateProgram(id uint, input *Program) (*Program, error) {
	var program Program
	if err := s.DB.First(&program, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	program.Name = input.Name
	program.Code = input.Code
	program.Description = input.Description
	if input.ProductionLineID != 0 {
		program.ProductionLineID = input.ProductionLineID
	}
	if input.VehicleModelID != 0 {
		program.VehicleModelID = input.VehicleModelID
	}
	if input.Status != "" {
		program.Status = input.Status
	}
	if err := s.DB.Save(&program).Error; err != nil {
		return nil, err
	}
	return &program, nil
}

func (s *ProgramService) DeleteProgram(id uint) error {
	result := s.DB.Delete(&Program{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// GetProgramsByVehicle drives the vehicle-centric browse view: every program
// slot for a vehicle model, grouped client-side by the line's process.
func (s *ProgramService) GetProgramsByVehicle(vehicleModelID uint) ([]Program, error) {
	var programs []Program
	err := s.DB.
		Preload("ProductionLine").
		Preload("ProductionLine.Process").
		Where("vehicle_model_id = ?", vehicleModelID).
		Order("id").
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	return programs, nil
}

func (s *ProgramService) GetRelations(programID uint) ([]ProgramRelation, error) {
	var relations []ProgramRelation
	err := s.DB.
		Preload("SourceProgram").
		Preload("RelatedProgram").
		Where("source_program_id = ? OR related_program_id = ?", programID, programID).
		Find(&relations).Error
	if err != nil {
		return nil, err
	}
	return relations, nil
}

func (s *ProgramService) CreateRelation(relation *ProgramRelation) error {
	if relation.RelationType == "" {
		relation.RelationType = "same_program"
	}
	return s.DB.Create(relation).Error
}

func (s *ProgramService) DeleteRelation(id uint) error {
	result := s.DB.Delete(&ProgramRelation{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCurrentVersionLabel keeps the denormalized version column in step with
// the version table. Called by the file service inside its transactions.
func SetCurrentVersionLabel(tx *gorm.DB, programID uint, version string) error {
	return tx.Model(&Program{}).Where("id = ?", programID).Update("version", version).Error
}
