package backup

import (
	"archive/zip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"crane-program-api/config"
	"crane-program-api/internal/util"

	"gorm.io/gorm"
)

var (
	ErrBackupNotFound = errors.New("backup not found")
	ErrUnsafeName     = errors.New("unsafe backup name")
	ErrInvalidBackup  = errors.New("backup file is not valid for this restore")
	ErrNoUploadDir    = errors.New("upload directory does not exist")
)

// dumpDatabase and loadDatabase shell out to the postgres client tools.
// Overridable so tests run without a database server.
var (
	dumpDatabase = pgDump
	loadDatabase = pgRestore
)

type BackupService struct {
	DB  *gorm.DB
	CFG *config.Config
}

func pgDump(cfg *config.Config, outPath string) error {
	cmd := exec.Command("pg_dump",
		"-h", cfg.DBHost,
		"-p", cfg.DBPort,
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-f", outPath,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.DBPassword)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("pg_dump: %v: %s", err, out)
	}
	return nil
}

func pgRestore(cfg *config.Config, dumpPath string) error {
	cmd := exec.Command("psql",
		"-h", cfg.DBHost,
		"-p", cfg.DBPort,
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-f", dumpPath,
	)
	cmd.Env = append(os.Environ(), "PGPASSWORD="+cfg.DBPassword)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("psql: %v: %s", err, out)
	}
	return nil
}

func (s *BackupService) CreateDatabaseBackup(ctx context.Context) (*BackupInfo, error) {
	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("database_backup_%s.sql", timestamp)
	path := filepath.Join(s.CFG.BackupDir, name)

	if err := util.EnsureDir(s.CFG.BackupDir); err != nil {
		return nil, err
	}
	if err := dumpDatabase(s.CFG, path); err != nil {
		return nil, err
	}

	return s.record(ctx, name, "database", path, map[string]any{
		"database": s.CFG.DBName,
	})
}

func (s *BackupService) CreateFilesBackup(ctx context.Context) (*BackupInfo, error) {
	if !util.FileExists(s.CFG.UploadDir) {
		return nil, ErrNoUploadDir
	}

	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("files_backup_%s.zip", timestamp)
	path := filepath.Join(s.CFG.BackupDir, name)

	if err := util.EnsureDir(s.CFG.BackupDir); err != nil {
		return nil, err
	}
	count, err := zipDirectory(s.CFG.UploadDir, path)
	if err != nil {
		return nil, err
	}

	return s.record(ctx, name, "files", path, map[string]any{
		"file_count": count,
		"source":     s.CFG.UploadDir,
	})
}

// CreateFullBackup bundles a database dump and a files archive into one zip.
func (s *BackupService) CreateFullBackup(ctx context.Context) (*BackupInfo, error) {
	timestamp := time.Now().Format("20060102_150405")
	name := fmt.Sprintf("full_backup_%s.zip", timestamp)
	path := filepath.Join(s.CFG.BackupDir, name)

	tempDir := filepath.Join(s.CFG.BackupDir, "temp", timestamp)
	if err := util.EnsureDir(tempDir); err != nil {
		return nil, err
	}
	defer os.RemoveAll(tempDir)

	dumpPath := filepath.Join(tempDir, fmt.Sprintf("database_%s.sql", timestamp))
	if err := dumpDatabase(s.CFG, dumpPath); err != nil {
		return nil, err
	}

	filesPath := filepath.Join(tempDir, fmt.Sprintf("files_%s.zip", timestamp))
	fileCount := 0
	if util.FileExists(s.CFG.UploadDir) {
		n, err := zipDirectory(s.CFG.UploadDir, filesPath)
		if err != nil {
			return nil, err
		}
		fileCount = n
	} else {
		if err := writeEmptyZip(filesPath); err != nil {
			return nil, err
		}
	}

	if _, err := zipDirectory(tempDir, path); err != nil {
		return nil, err
	}

	return s.record(ctx, name, "full", path, map[string]any{
		"database":   s.CFG.DBName,
		"file_count": fileCount,
	})
}

// record stores the backup row, pushes the offsite copy when a bucket is
// configured and returns the list entry.
func (s *BackupService) record(ctx context.Context, name, backupType, path string, manifest map[string]any) (*BackupInfo, error) {
	size, _ := fileSize(path)

	rec := BackupRecord{Name: name, Type: backupType, Size: size}
	if manifest != nil {
		if data, err := json.Marshal(manifest); err == nil {
			rec.Manifest = data
		}
	}

	if s.CFG.BackupBucket != "" {
		url, _, err := util.UploadFileToGCS(ctx, s.CFG.BackupBucket, name, path)
		if err != nil {
			fmt.Printf("Offsite backup copy failed: %v\n", err)
		} else {
			rec.OffsiteURL = url
		}
	}

	if s.DB != nil {
		if err := s.DB.Create(&rec).Error; err != nil {
			fmt.Printf("Failed to record backup: %v\n", err)
		}
	}

	return &BackupInfo{
		Name:       name,
		Size:       size,
		CreatedAt:  time.Now().Format(time.RFC3339),
		Type:       backupType,
		OffsiteURL: rec.OffsiteURL,
	}, nil
}

// ListBackups scans the backup directory, newest first. Offsite URLs come
// from the records table; when a bucket is configured the bucket listing is
// reconciled in so copies whose local file is gone still show up.
func (s *BackupService) ListBackups(ctx context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(s.CFG.BackupDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []BackupInfo{}, nil
		}
		return nil, err
	}

	offsite := map[string]string{}
	if s.DB != nil {
		var records []BackupRecord
		if err := s.DB.Find(&records).Error; err == nil {
			for _, r := range records {
				if r.OffsiteURL != "" {
					offsite[r.Name] = r.OffsiteURL
				}
			}
		}
	}

	backups := []BackupInfo{}
	seen := map[string]bool{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		seen[entry.Name()] = true
		backups = append(backups, BackupInfo{
			Name:       entry.Name(),
			Size:       info.Size(),
			CreatedAt:  info.ModTime().Format(time.RFC3339),
			Type:       backupTypeFromName(entry.Name()),
			OffsiteURL: offsite[entry.Name()],
		})
	}

	if s.CFG.BackupBucket != "" {
		names, err := util.ListGCSObjects(ctx, s.CFG.BackupBucket, "")
		if err != nil {
			fmt.Printf("Offsite backup listing failed: %v\n", err)
		} else {
			for _, name := range names {
				if seen[name] {
					continue
				}
				backups = append(backups, BackupInfo{
					Name:       name,
					Type:       backupTypeFromName(name),
					OffsiteURL: fmt.Sprintf("gs://%s/%s", s.CFG.BackupBucket, name),
				})
			}
		}
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt > backups[j].CreatedAt
	})
	return backups, nil
}

func (s *BackupService) resolve(name string) (string, error) {
	path := filepath.Join(s.CFG.BackupDir, name)
	if !util.IsSafePath(s.CFG.BackupDir, path) {
		return "", ErrUnsafeName
	}
	if !util.FileExists(path) {
		return "", ErrBackupNotFound
	}
	return path, nil
}

// DeleteBackup removes the local file, its record and the offsite copy when
// one was pushed.
func (s *BackupService) DeleteBackup(ctx context.Context, name string) error {
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := util.RemoveFile(path); err != nil {
		return err
	}
	if s.CFG.BackupBucket != "" && s.DB != nil {
		var rec BackupRecord
		if err := s.DB.Where("name = ?", name).First(&rec).Error; err == nil && rec.OffsiteURL != "" {
			if err := util.DeleteGCSObject(ctx, s.CFG.BackupBucket, name); err != nil {
				fmt.Printf("Offsite backup delete failed: %v\n", err)
			}
		}
	}
	if s.DB != nil {
		s.DB.Where("name = ?", name).Delete(&BackupRecord{})
	}
	return nil
}

// BackupPath resolves a backup for download.
func (s *BackupService) BackupPath(name string) (string, error) {
	return s.resolve(name)
}

// RestoreDatabase loads a database dump, taking a rollback dump first. Full
// backups are unpacked to find the contained dump.
func (s *BackupService) RestoreDatabase(name string) (rollback string, err error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, "database_backup_") && !strings.HasPrefix(name, "full_backup_") {
		return "", ErrInvalidBackup
	}

	rollback = fmt.Sprintf("rollback_before_restore_%s.sql", time.Now().Format("20060102_150405"))
	if err := dumpDatabase(s.CFG, filepath.Join(s.CFG.BackupDir, rollback)); err != nil {
		return "", fmt.Errorf("create rollback point: %w", err)
	}

	if strings.HasPrefix(name, "full_backup_") {
		tempDir := filepath.Join(s.CFG.BackupDir, "temp_restore", time.Now().Format("20060102_150405"))
		if err := util.EnsureDir(tempDir); err != nil {
			return "", err
		}
		defer os.RemoveAll(tempDir)

		if err := extractZip(path, tempDir); err != nil {
			return "", err
		}
		dumps, _ := filepath.Glob(filepath.Join(tempDir, "database_*.sql"))
		if len(dumps) == 0 {
			return "", fmt.Errorf("%w: no database dump inside full backup", ErrInvalidBackup)
		}
		path = dumps[0]
	}

	if err := loadDatabase(s.CFG, path); err != nil {
		return "", err
	}
	return rollback, nil
}

// RestoreFiles replaces the upload tree from a files archive, taking a
// rollback archive first.
func (s *BackupService) RestoreFiles(name string) (rollback string, err error) {
	path, err := s.resolve(name)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, "files_backup_") && !strings.HasPrefix(name, "full_backup_") {
		return "", ErrInvalidBackup
	}

	if util.FileExists(s.CFG.UploadDir) {
		rollback = fmt.Sprintf("rollback_files_before_restore_%s.zip", time.Now().Format("20060102_150405"))
		if _, err := zipDirectory(s.CFG.UploadDir, filepath.Join(s.CFG.BackupDir, rollback)); err != nil {
			return "", fmt.Errorf("create rollback point: %w", err)
		}
	}

	if strings.HasPrefix(name, "full_backup_") {
		tempDir := filepath.Join(s.CFG.BackupDir, "temp_restore", time.Now().Format("20060102_150405"))
		if err := util.EnsureDir(tempDir); err != nil {
			return "", err
		}
		defer os.RemoveAll(tempDir)

		if err := extractZip(path, tempDir); err != nil {
			return "", err
		}
		archives, _ := filepath.Glob(filepath.Join(tempDir, "files_*.zip"))
		if len(archives) == 0 {
			return "", fmt.Errorf("%w: no files archive inside full backup", ErrInvalidBackup)
		}
		path = archives[0]
	}

	if util.FileExists(s.CFG.UploadDir) {
		if err := os.RemoveAll(s.CFG.UploadDir); err != nil {
			return "", err
		}
	}
	if err := util.EnsureDir(s.CFG.UploadDir); err != nil {
		return "", err
	}
	if err := extractZip(path, s.CFG.UploadDir); err != nil {
		return "", err
	}
	return rollback, nil
}

func backupTypeFromName(name string) string {
	switch {
	case strings.HasPrefix(name, "database_backup_"), strings.HasPrefix(name, "rollback_before_restore_"):
		return "database"
	case strings.HasPrefix(name, "files_backup_"), strings.HasPrefix(name, "rollback_files_"):
		return "files"
	case strings.HasPrefix(name, "full_backup_"):
		return "full"
	default:
		return "unknown"
	}
}

func fileSize(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// zipDirectory archives every regular file under dir, storing paths relative
// to dir. Returns the number of files written.
func zipDirectory(dir, outPath string) (int, error) {
	out, err := os.Create(outPath)
	if err != nil {
		return 0, err
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	count := 0
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || path == outPath {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		entry, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		if _, err := io.Copy(entry, src); err != nil {
			return err
		}
		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func writeEmptyZip(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return zip.NewWriter(out).Close()
}

// extractZip unpacks an archive into destDir, refusing entries that would
// escape it.
func extractZip(archivePath, destDir string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return err
	}
	defer zr.Close()

	for _, f := range zr.File {
		dest := filepath.Join(destDir, filepath.FromSlash(f.Name))
		if !util.IsSafePath(destDir, dest) {
			return fmt.Errorf("%w: entry %q", ErrUnsafeName, f.Name)
		}
		if f.FileInfo().IsDir() {
			if err := util.EnsureDir(dest); err != nil {
				return err
			}
			continue
		}
		if err := util.EnsureDir(filepath.Dir(dest)); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.Create(dest)
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		out.Close()
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
