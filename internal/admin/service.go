package admin

import (
	"bytes"
	"fmt"
	"time"

	"crane-program-api/config"
	"crane-program-api/internal/auth"
	"crane-program-api/internal/file"
	"crane-program-api/internal/lookup"
	"crane-program-api/internal/permission"
	"crane-program-api/internal/program"
	"crane-program-api/internal/util"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminService struct {
	DB  *gorm.DB
	CFG *config.Config
}

// Stats summarizes the platform for the admin dashboard.
type Stats struct {
	Users           int64 `json:"users"`
	ActiveUsers     int64 `json:"active_users"`
	ProductionLines int64 `json:"production_lines"`
	VehicleModels   int64 `json:"vehicle_models"`
	Programs        int64 `json:"programs"`
	Versions        int64 `json:"versions"`
	Files           int64 `json:"files"`
	StorageBytes    int64 `json:"storage_bytes"`
}

func (s *AdminService) GetStats() (*Stats, error) {
	var stats Stats
	counts := []struct {
		model any
		dest  *int64
	}{
		{&auth.User{}, &stats.Users},
		{&lookup.ProductionLine{}, &stats.ProductionLines},
		{&lookup.VehicleModel{}, &stats.VehicleModels},
		{&program.Program{}, &stats.Programs},
		{&file.ProgramVersion{}, &stats.Versions},
		{&file.ProgramFile{}, &stats.Files},
	}
	for _, c := range counts {
		if err := s.DB.Model(c.model).Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	if err := s.DB.Model(&auth.User{}).Where("status = ?", "active").Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}

	if size, err := util.DirSize(s.CFG.UploadDir); err == nil {
		stats.StorageBytes = size
	}
	return &stats, nil
}

// ExportPrograms renders the full program inventory as a spreadsheet.
func (s *AdminService) ExportPrograms() (contentType, filename string, data []byte, err error) {
	var programs []program.Program
	if err := s.DB.
		Preload("ProductionLine").
		Preload("ProductionLine.Process").
		Preload("VehicleModel").
		Order("id").
		Find(&programs).Error; err != nil {
		return "", "", nil, err
	}

	f := excelize.NewFile()
	sheet := "Programs"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})
	header := []interface{}{"ID", "Code", "Name", "Production Line", "Process", "Vehicle Model", "Current Version", "Status", "Updated"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	_ = f.SetCellStyle(sheet, "A1", fmt.Sprintf("%c1", 'A'+len(header)-1), headerStyle)

	for i, p := range programs {
		row := []interface{}{
			p.ID,
			p.Code,
			p.Name,
			p.ProductionLine.Name,
			p.ProductionLine.Process.Name,
			p.VehicleModel.Name,
			p.Version,
			p.Status,
			p.UpdatedAt.Format(time.RFC3339),
		}
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row)
	}

	var buf *bytes.Buffer
	buf, err = f.WriteToBuffer()
	if err != nil {
		return "", "", nil, err
	}
	name := fmt.Sprintf("programs_%s.xlsx", time.Now().Format("20060102"))
	return xlsxContentType, name, buf.Bytes(), nil
}

// ExportPermissions renders every grant with the user and line resolved.
func (s *AdminService) ExportPermissions() (contentType, filename string, data []byte, err error) {
	var permissions []permission.UserPermission
	if err := s.DB.
		Preload("User").
		Preload("ProductionLine").
		Order("id").
		Find(&permissions).Error; err != nil {
		return "", "", nil, err
	}

	f := excelize.NewFile()
	sheet := "Permissions"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E2E8F0"}},
	})
	header := []interface{}{"Employee ID", "Name", "Production Line", "View", "Download", "Upload", "Manage"}
	_ = f.SetSheetRow(sheet, "A1", &header)
	_ = f.SetCellStyle(sheet, "A1", fmt.Sprintf("%c1", 'A'+len(header)-1), headerStyle)

	yesNo := func(b bool) string {
		if b {
			return "yes"
		}
		return "no"
	}
	for i, p := range permissions {
		row := []interface{}{
			p.User.EmployeeID,
			p.User.Name,
			p.ProductionLine.Name,
			yesNo(p.CanView),
			yesNo(p.CanDownload),
			yesNo(p.CanUpload),
			yesNo(p.CanManage),
		}
		_ = f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &row)
	}

	var buf *bytes.Buffer
	buf, err = f.WriteToBuffer()
	if err != nil {
		return "", "", nil, err
	}
	name := fmt.Sprintf("permissions_%s.xlsx", time.Now().Format("20060102"))
	return xlsxContentType, name, buf.Bytes(), nil
}
