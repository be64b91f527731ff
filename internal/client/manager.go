package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNoFiles      = errors.New("select at least one file")
	ErrNotConfirmed = errors.New("action was not confirmed")
)

// ConfirmFunc asks the user to approve a destructive action. The prompt
// describes the consequence; returning false aborts without a network call.
type ConfirmFunc func(prompt string) bool

// Manager drives the program and version workflows on top of the Gateway.
type Manager struct {
	API *Gateway
}

func NewManager(api *Gateway) *Manager {
	return &Manager{API: api}
}

// Overview is the initial browse state: programs plus the lookup collections
// the forms need.
type Overview struct {
	Programs        []Program
	ProductionLines []ProductionLine
	VehicleModels   []VehicleModel
}

// LoadOverview fetches the three independent collections concurrently and
// waits for all of them.
func (m *Manager) LoadOverview(ctx context.Context) (*Overview, error) {
	var overview Overview
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		programs, err := m.API.ListPrograms(ctx)
		if err != nil {
			return fmt.Errorf("programs: %w", err)
		}
		overview.Programs = programs
		return nil
	})
	g.Go(func() error {
		lines, err := m.API.ListProductionLines(ctx)
		if err != nil {
			return fmt.Errorf("production lines: %w", err)
		}
		overview.ProductionLines = lines
		return nil
	})
	g.Go(func() error {
		models, err := m.API.ListVehicleModels(ctx)
		if err != nil {
			return fmt.Errorf("vehicle models: %w", err)
		}
		overview.VehicleModels = models
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// ProgramInput is the create/edit form payload.
type ProgramInput struct {
	ID               uint
	Name             string
	Code             string
	ProductionLineID uint
	VehicleModelID   uint
	Description      string
	Status           string
}

// SaveProgram validates locally before any network call, then creates or
// updates depending on whether an id is set.
func (m *Manager) SaveProgram(ctx context.Context, input ProgramInput) (*Program, error) {
	var missing []string
	if strings.TrimSpace(input.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(input.Code) == "" {
		missing = append(missing, "code")
	}
	if input.ProductionLineID == 0 {
		missing = append(missing, "production line")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}

	payload := map[string]any{
		"name":               input.Name,
		"code":               input.Code,
		"production_line_id": input.ProductionLineID,
		"vehicle_model_id":   input.VehicleModelID,
		"description":        input.Description,
	}
	if input.Status != "" {
		payload["status"] = input.Status
	}

	if input.ID == 0 {
		return m.API.CreateProgram(ctx, payload)
	}
	return m.API.UpdateProgram(ctx, input.ID, payload)
}

// DeleteProgram requires explicit confirmation before the call is issued.
func (m *Manager) DeleteProgram(ctx context.Context, p Program, confirm ConfirmFunc) error {
	prompt := fmt.Sprintf("Delete program %s (%s)? Its versions and files stay on the server but become unreachable.", p.Name, p.Code)
	if confirm == nil || !confirm(prompt) {
		return ErrNotConfirmed
	}
	return m.API.DeleteProgram(ctx, p.ID)
}

// ActivateVersion requires confirmation describing the consequence.
func (m *Manager) ActivateVersion(ctx context.Context, record VersionRecord, confirm ConfirmFunc) error {
	prompt := fmt.Sprintf("Activate version %s? It becomes the current version of the program.", record.Version)
	if confirm == nil || !confirm(prompt) {
		return ErrNotConfirmed
	}
	return m.API.ActivateVersion(ctx, record.ID)
}

// SubmitUpload sends all selected files as one multipart request. An empty
// selection fails before any network traffic.
func (m *Manager) SubmitUpload(ctx context.Context, programID uint, versionLabel, changeLog string, files []UploadFile) (*UploadResponse, error) {
	if strings.TrimSpace(versionLabel) == "" {
		return nil, fmt.Errorf("%w: version label required", ErrValidation)
	}
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	return m.API.Upload(ctx, programID, versionLabel, changeLog, files)
}

// ListVersions fetches the version browser payload, newest first.
func (m *Manager) ListVersions(ctx context.Context, programID uint) ([]VersionEntry, error) {
	return m.API.ProgramVersions(ctx, programID)
}

// DownloadFile saves one file into destDir. The save-as name comes from the
// Content-Disposition header when present, otherwise fallbackName.
func (m *Manager) DownloadFile(ctx context.Context, fileID uint, fallbackName, destDir string) (string, error) {
	return m.saveFetch(ctx, m.API.FileDownloadPath(fileID), fallbackName, destDir)
}

// DownloadVersion fetches one version's file set: a single file goes through
// the per-file endpoint, more than one through the server-side archive.
func (m *Manager) DownloadVersion(ctx context.Context, programID uint, entry VersionEntry, destDir string) (string, error) {
	if len(entry.Files) == 1 {
		f := entry.Files[0]
		return m.DownloadFile(ctx, f.ID, f.FileName, destDir)
	}
	fallback := fmt.Sprintf("program_%d_%s.zip", programID, entry.Version)
	return m.saveFetch(ctx, m.API.VersionArchivePath(programID, entry.Version), fallback, destDir)
}

// DownloadProgramLatest applies the same single-vs-archive branch to the
// program's newest version.
func (m *Manager) DownloadProgramLatest(ctx context.Context, p Program, destDir string) (string, error) {
	versions, err := m.ListVersions(ctx, p.ID)
	if err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("program %s has no versions", p.Code)
	}
	latest := versions[0]
	if len(latest.Files) == 1 {
		f := latest.Files[0]
		return m.DownloadFile(ctx, f.ID, f.FileName, destDir)
	}
	fallback := fmt.Sprintf("%s_%s.zip", p.Code, latest.Version)
	return m.saveFetch(ctx, m.API.ProgramLatestArchivePath(p.ID), fallback, destDir)
}

func (m *Manager) saveFetch(ctx context.Context, path, fallbackName, destDir string) (string, error) {
	body, disposition, err := m.API.Fetch(ctx, path)
	if err != nil {
		return "", err
	}
	defer body.Close()

	name := FilenameFromDisposition(disposition, fallbackName)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", err
	}
	dest := filepath.Join(destDir, filepath.Base(name))

	out, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer out.Close()
	if _, err := io.Copy(out, body); err != nil {
		return "", err
	}
	return dest, nil
}

// MenuItem is one navigation entry, shown only to the roles that may use it.
type MenuItem struct {
	Key   string
	Title string
	Roles []string
}

var menu = []MenuItem{
	{Key: "programs", Title: "Program Management", Roles: []string{"admin", "user"}},
	{Key: "vehicles", Title: "Vehicle Models", Roles: []string{"admin", "user"}},
	{Key: "lines", Title: "Production Lines", Roles: []string{"admin"}},
	{Key: "users", Title: "User Management", Roles: []string{"admin"}},
	{Key: "permissions", Title: "Permissions", Roles: []string{"admin"}},
	{Key: "backup", Title: "Backup & Restore", Roles: []string{"admin"}},
	{Key: "logs", Title: "Audit Logs", Roles: []string{"admin"}},
}

// Menu returns the navigation entries visible to a role.
func Menu(role string) []MenuItem {
	var items []MenuItem
	for _, item := range menu {
		for _, r := range item.Roles {
			if r == role {
				items = append(items, item)
				break
			}
		}
	}
	return items
}
