package lookup

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// LookupService manages the reference tables that programs hang off of:
// production lines, processes and vehicle models.
type LookupService struct {
	DB *gorm.DB
}

func (s *LookupService) GetProductionLines(lineType string, processID uint) ([]ProductionLine, error) {
	var lines []ProductionLine
	query := s.DB.Preload("Process")
	if lineType != "" {
		query = query.Where("type = ?", lineType)
	}
	if processID != 0 {
		query = query.Where("process_id = ?", processID)
	}
	if err := query.Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *LookupService) GetProductionLine(id uint) (*ProductionLine, error) {
	var line ProductionLine
	if err := s.DB.Preload("Process").First(&line, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &line, nil
}

func (s *LookupService) CreateProductionLine(line *ProductionLine) error {
	return s.DB.Create(line).Error
}

func (s *LookupService) UpdateProductionLine(id uint, input *ProductionLine) (*ProductionLine, error) {
	var line ProductionLine
	if err := s.DB.First(&line, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	line.Name = input.Name
	line.Code = input.Code
	line.Type = input.Type
	line.Description = input.Description
	if input.Status != "" {
		line.Status = input.Status
	}
	if input.ProcessID != 0 {
		line.ProcessID = input.ProcessID
	}
	if err := s.DB.Save(&line).Error; err != nil {
		return nil, err
	}
	return &line, nil
}

func (s *LookupService) DeleteProductionLine(id uint) error {
	result := s.DB.Delete(&ProductionLine{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LookupService) GetProcesses(processType string) ([]Process, error) {
	var processes []Process
	query := s.DB.Model(&Process{})
	if processType != "" {
		query = query.Where("type = ?", processType)
	}
	if err := query.Order("sort_order, id").Find(&processes).Error; err != nil {
		return nil, err
	}
	return processes, nil
}

func (s *LookupService) GetProcess(id uint) (*Process, error) {
	var process Process
	if err := s.DB.First(&process, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &process, nil
}

func (s *LookupService) CreateProcess(process *Process) error {
	return s.DB.Create(process).Error
}

func (s *LookupService) UpdateProcess(id uint, input *Process) (*Process, error) {
	var process Process
	if err := s.DB.First(&process, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	process.Name = input.Name
	process.Code = input.Code
	process.Type = input.Type
	process.SortOrder = input.SortOrder
	process.Description = input.Description
	if err := s.DB.Save(&process).Error; err != nil {
		return nil, err
	}
	return &process, nil
}

func (s *LookupService) DeleteProcess(id uint) error {
	result := s.DB.Delete(&Process{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *LookupService) GetVehicleModels(status string) ([]VehicleModel, error) {
	var models []VehicleModel
	query := s.DB.Model(&VehicleModel{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}
	return models, nil
}

func (s *LookupService) GetVehicleModel(id uint) (*VehicleModel, error) {
	var model VehicleModel
	if err := s.DB.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &model, nil
}

func (s *LookupService) CreateVehicleModel(model *VehicleModel) error {
	return s.DB.Create(model).Error
}

func (s *LookupService) UpdateVehicleModel(id uint, input *VehicleModel) (*VehicleModel, error) {
	var model VehicleModel
	if err := s.DB.First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	model.Name = input.Name
	model.Code = input.Code
	model.Series = input.Series
	model.Description = input.Description
	if input.Status != "" {
		model.Status = input.Status
	}
	if err := s.DB.Save(&model).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

func (s *LookupService) DeleteVehicleModel(id uint) error {
	result := s.DB.Delete(&VehicleModel{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
