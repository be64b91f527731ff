package lookup

// Port is the surface the controllers and other packages rely on.
type Port interface {
	GetProductionLines(lineType string, processID uint) ([]ProductionLine, error)
	GetProductionLine(id uint) (*ProductionLine, error)
	CreateProductionLine(line *ProductionLine) error
	UpdateProductionLine(id uint, input *ProductionLine) (*ProductionLine, error)
	DeleteProductionLine(id uint) error

	GetProcesses(processType string) ([]Process, error)
	GetProcess(id uint) (*Process, error)
	CreateProcess(process *Process) error
	UpdateProcess(id uint, input *Process) (*Process, error)
	DeleteProcess(id uint) error

	GetVehicleModels(status string) ([]VehicleModel, error)
	GetVehicleModel(id uint) (*VehicleModel, error)
	CreateVehicleModel(model *VehicleModel) error
	UpdateVehicleModel(id uint, input *VehicleModel) (*VehicleModel, error)
	DeleteVehicleModel(id uint) error
}

var _ Port = (*LookupService)(nil)
