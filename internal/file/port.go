package file

type Port interface {
	SaveUpload(input UploadInput, save SaveFunc) (*UploadResult, error)
	GetProgramVersionView(programID uint) ([]VersionView, error)
	GetVersions(programID uint) ([]ProgramVersion, error)
	CreateVersion(version *ProgramVersion) error
	ActivateVersion(id uint) (*ProgramVersion, error)
	GetFile(id uint) (*ProgramFile, error)
	AbsolutePath(file *ProgramFile) (string, error)
	DeleteFile(id uint) error
	LatestVersionFiles(programID uint) (string, []ProgramFile, error)
	VersionFiles(programID uint, version string) ([]ProgramFile, error)
	ProgramCode(programID uint) (string, error)
}

var _ Port = (*FileService)(nil)
