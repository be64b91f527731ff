package file

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sort"

	"crane-program-api/config"
	"crane-program-api/internal/lookup"
	"crane-program-api/internal/program"
	"crane-program-api/internal/util"

	"gorm.io/gorm"
)

var (
	ErrProgramNotFound = errors.New("program not found")
	ErrVersionNotFound = errors.New("version not found")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileMissing     = errors.New("file missing from storage")
	ErrNoFiles         = errors.New("no files submitted")
	ErrUnsafePath      = errors.New("unsafe file path")
)

type FileService struct {
	DB  *gorm.DB
	CFG *config.Config
}

// SaveFunc persists one uploaded part to the given absolute path. The
// controller passes gin's SaveUploadedFile; tests pass their own writer.
type SaveFunc func(fh *multipart.FileHeader, dst string) error

type storageContext struct {
	Program      program.Program
	LineName     string
	VehicleName  string
}

func (s *FileService) resolveStorage(programID uint) (*storageContext, error) {
	var ctx storageContext
	if err := s.DB.First(&ctx.Program, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, err
	}

	var line lookup.ProductionLine
	if err := s.DB.First(&line, ctx.Program.ProductionLineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("production line %d: %w", ctx.Program.ProductionLineID, ErrProgramNotFound)
		}
		return nil, err
	}
	ctx.LineName = line.Name

	if ctx.Program.VehicleModelID != 0 {
		var vehicle lookup.VehicleModel
		if err := s.DB.First(&vehicle, ctx.Program.VehicleModelID).Error; err == nil {
			ctx.VehicleName = vehicle.Name
		}
	}
	if ctx.VehicleName == "" {
		ctx.VehicleName = "unassigned"
	}
	return &ctx, nil
}

// SaveUpload stores every part of a multipart upload under the program's
// version directory and records it. A label already present for the program
// means a re-upload: files are appended to that version and its change log
// refreshed. A new label creates the version, makes it current and bumps the
// program's denormalized label.
func (s *FileService) SaveUpload(input UploadInput, save SaveFunc) (*UploadResult, error) {
	if len(input.Files) == 0 {
		return nil, ErrNoFiles
	}

	ctx, err := s.resolveStorage(input.ProgramID)
	if err != nil {
		return nil, err
	}

	var existing ProgramVersion
	err = s.DB.Where("program_id = ? AND version = ?", input.ProgramID, input.Version).
		First(&existing).Error
	isNewVersion := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNewVersion {
		return nil, err
	}

	dir := util.ProgramStoragePath(
		s.CFG.UploadDir,
		ctx.VehicleName,
		ctx.LineName,
		ctx.Program.Code,
		ctx.Program.Name,
		input.Version,
	)
	if err := util.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	records := make([]ProgramFile, 0, len(input.Files))
	for _, fh := range input.Files {
		name := util.SanitizeFilename(fh.Filename)
		dst := filepath.Join(dir, name)
		if !util.IsSafePath(s.CFG.UploadDir, dst) {
			return nil, ErrUnsafePath
		}
		if err := save(fh, dst); err != nil {
			return nil, fmt.Errorf("save %s: %w", name, err)
		}
		rel, err := util.RelativePath(s.CFG.UploadDir, dst)
		if err != nil {
			return nil, err
		}
		records = append(records, ProgramFile{
			ProgramID:   input.ProgramID,
			FileName:    name,
			FilePath:    rel,
			FileSize:    fh.Size,
			FileType:    filepath.Ext(name),
			Version:     input.Version,
			UploadedBy:  input.UploadedBy,
			Description: input.Description,
		})
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		for i := range records {
			if err := tx.Create(&records[i]).Error; err != nil {
				return err
			}
		}

		if isNewVersion {
			if err := tx.Model(&ProgramVersion{}).
				Where("program_id = ?", input.ProgramID).
				Update("is_current", false).Error; err != nil {
				return err
			}
			version := ProgramVersion{
				ProgramID:  input.ProgramID,
				Version:    input.Version,
				FileID:     records[0].ID,
				UploadedBy: input.UploadedBy,
				ChangeLog:  input.Description,
				IsCurrent:  true,
			}
			if err := tx.Create(&version).Error; err != nil {
				return err
			}
			return program.SetCurrentVersionLabel(tx, input.ProgramID, input.Version)
		}

		if input.Description != "" {
			if err := tx.Model(&existing).Update("change_log", input.Description).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &UploadResult{Files: records, IsNewVersion: isNewVersion}, nil
}

// GetProgramVersionView assembles the version browser payload: versions
// newest-first with their files nested. Files recorded without a matching
// version row (legacy uploads) get a synthesized entry from file metadata.
// When no version is flagged current the newest one is presented as current.
func (s *FileService) GetProgramVersionView(programID uint) ([]VersionView, error) {
	var files []ProgramFile
	if err := s.DB.
		Preload("Uploader").
		Where("program_id = ?", programID).
		Order("version DESC, created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}

	var versions []ProgramVersion
	if err := s.DB.
		Preload("Uploader").
		Where("program_id = ?", programID).
		Order("created_at DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}

	byLabel := make(map[string]*ProgramVersion, len(versions))
	for i := range versions {
		byLabel[versions[i].Version] = &versions[i]
	}
	grouped := make(map[string][]ProgramFile)
	for _, f := range files {
		grouped[f.Version] = append(grouped[f.Version], f)
	}

	views := make([]VersionView, 0, len(byLabel))
	seen := make(map[string]bool)
	appendView := func(label string) {
		if seen[label] {
			return
		}
		seen[label] = true

		view := VersionView{
			Version:   label,
			Files:     grouped[label],
			FileCount: len(grouped[label]),
		}
		if view.Files == nil {
			view.Files = []ProgramFile{}
		}
		if v := byLabel[label]; v != nil {
			view.ChangeLog = v.ChangeLog
			view.IsCurrent = v.IsCurrent
			view.CreatedAt = v.CreatedAt
			uploader := v.Uploader
			view.Uploader = &uploader
		} else if len(view.Files) > 0 {
			view.CreatedAt = view.Files[0].CreatedAt
			view.ChangeLog = view.Files[0].Description
			uploader := view.Files[0].Uploader
			view.Uploader = &uploader
		}
		views = append(views, view)
	}

	for label := range byLabel {
		appendView(label)
	}
	for label := range grouped {
		appendView(label)
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	hasCurrent := false
	for _, v := range views {
		if v.IsCurrent {
			hasCurrent = true
			break
		}
	}
	if !hasCurrent && len(views) > 0 {
		views[0].IsCurrent = true
	}

	return views, nil
}

func (s *FileService) GetVersions(programID uint) ([]ProgramVersion, error) {
	var versions []ProgramVersion
	if err := s.DB.
		Preload("File").
		Preload("Uploader").
		Where("program_id = ?", programID).
		Order("created_at DESC").
		Find(&versions).Error; err != nil {
		return nil, err
	}
	return versions, nil
}

// CreateVersion records a version row directly, without an upload. Used to
// backfill metadata for files that predate version tracking.
func (s *FileService) CreateVersion(version *ProgramVersion) error {
	return s.DB.Create(version).Error
}

// ActivateVersion flags the version current, clears the flag on every
// sibling and syncs the program's label, all in one transaction.
func (s *FileService) ActivateVersion(id uint) (*ProgramVersion, error) {
	var version ProgramVersion
	if err := s.DB.First(&version, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVersionNotFound
		}
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ProgramVersion{}).
			Where("program_id = ? AND id <> ?", version.ProgramID, version.ID).
			Update("is_current", false).Error; err != nil {
			return err
		}
		if err := tx.Model(&version).Update("is_current", true).Error; err != nil {
			return err
		}
		return program.SetCurrentVersionLabel(tx, version.ProgramID, version.Version)
	})
	if err != nil {
		return nil, err
	}
	version.IsCurrent = true
	return &version, nil
}

func (s *FileService) GetFile(id uint) (*ProgramFile, error) {
	var file ProgramFile
	if err := s.DB.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, err
	}
	return &file, nil
}

// AbsolutePath maps a stored file to its on-disk location, refusing paths
// that escape the upload root.
func (s *FileService) AbsolutePath(file *ProgramFile) (string, error) {
	path := filepath.Join(s.CFG.UploadDir, file.FilePath)
	if !util.IsSafePath(s.CFG.UploadDir, path) {
		return "", ErrUnsafePath
	}
	if !util.FileExists(path) {
		return "", ErrFileMissing
	}
	return path, nil
}

// DeleteFile removes the record and best-effort removes the stored file.
func (s *FileService) DeleteFile(id uint) error {
	var file ProgramFile
	if err := s.DB.First(&file, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFileNotFound
		}
		return err
	}

	path := filepath.Join(s.CFG.UploadDir, file.FilePath)
	if util.IsSafePath(s.CFG.UploadDir, path) {
		_ = util.RemoveFile(path)
	}

	return s.DB.Delete(&file).Error
}

// LatestVersionFiles returns the newest version label recorded for the
// program and every file under it.
func (s *FileService) LatestVersionFiles(programID uint) (string, []ProgramFile, error) {
	var files []ProgramFile
	if err := s.DB.
		Where("program_id = ?", programID).
		Order("version DESC, created_at DESC").
		Find(&files).Error; err != nil {
		return "", nil, err
	}
	if len(files) == 0 {
		return "", nil, ErrFileNotFound
	}

	latest := files[0].Version
	kept := files[:0]
	for _, f := range files {
		if f.Version == latest {
			kept = append(kept, f)
		}
	}
	return latest, kept, nil
}

func (s *FileService) VersionFiles(programID uint, version string) ([]ProgramFile, error) {
	var files []ProgramFile
	if err := s.DB.
		Where("program_id = ? AND version = ?", programID, version).
		Order("created_at DESC").
		Find(&files).Error; err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrFileNotFound
	}
	return files, nil
}

// ProgramCode powers the archive filename; falls back to the raw id when the
// program has no code.
func (s *FileService) ProgramCode(programID uint) (string, error) {
	var p program.Program
	if err := s.DB.First(&p, programID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrProgramNotFound
		}
		return "", err
	}
	if p.Code == "" {
		return fmt.Sprintf("%d", p.ID), nil
	}
	return p.Code, nil
}
