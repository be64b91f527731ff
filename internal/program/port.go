package program

type Port interface {
	GetPrograms(productionLineID, vehicleModelID uint) ([]Program, error)
	GetProgram(id uint) (*Program, error)
	CreateProgram(program *Program) error
	UpdateProgram(id uint, input *Program) (*Program, error)
	DeleteProgram(id uint) error
	GetProgramsByVehicle(vehicleModelID uint) ([]Program, error)
	GetRelations(programID uint) ([]ProgramRelation, error)
	CreateRelation(relation *ProgramRelation) error
	DeleteRelation(id uint) error
}

var _ Port = (*ProgramService)(nil)
