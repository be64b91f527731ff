package backup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"crane-program-api/config"

	"github.com/fsouza/fake-gcs-server/fakestorage"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestService(t *testing.T) *BackupService {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:backup_test_%d?mode=memory&cache=shared", id)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	if err := db.AutoMigrate(&BackupRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	cfg := &config.Config{
		DBName:    "crane_programs",
		UploadDir: t.TempDir(),
		BackupDir: t.TempDir(),
	}
	return &BackupService{DB: db, CFG: cfg}
}

// stubDump swaps the postgres tooling for a writer that produces a marker
// dump file, restoring the real implementation afterward.
func stubDump(t *testing.T, content string) *[]string {
	t.Helper()
	var loaded []string

	origDump, origLoad := dumpDatabase, loadDatabase
	dumpDatabase = func(cfg *config.Config, outPath string) error {
		return os.WriteFile(outPath, []byte(content), 0644)
	}
	loadDatabase = func(cfg *config.Config, dumpPath string) error {
		data, err := os.ReadFile(dumpPath)
		if err != nil {
			return err
		}
		loaded = append(loaded, string(data))
		return nil
	}
	t.Cleanup(func() {
		dumpDatabase, loadDatabase = origDump, origLoad
	})
	return &loaded
}

func writeUpload(t *testing.T, svc *BackupService, rel, content string) {
	t.Helper()
	path := filepath.Join(svc.CFG.UploadDir, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestCreateDatabaseBackup_RecordsAndManifest(t *testing.T) {
	svc := newTestService(t)
	stubDump(t, "-- fake dump")

	info, err := svc.CreateDatabaseBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateDatabaseBackup: %v", err)
	}
	if info.Type != "database" || !strings.HasPrefix(info.Name, "database_backup_") {
		t.Fatalf("unexpected info: %+v", info)
	}

	var rec BackupRecord
	if err := svc.DB.Where("name = ?", info.Name).First(&rec).Error; err != nil {
		t.Fatalf("record: %v", err)
	}
	if !strings.Contains(string(rec.Manifest), "crane_programs") {
		t.Fatalf("manifest should name the database, got %s", rec.Manifest)
	}
}

func TestCreateFilesBackup_AndList(t *testing.T) {
	svc := newTestService(t)
	writeUpload(t, svc, "C80/UW1/P-001_Boom/v1.0/main.plc", "data")
	writeUpload(t, svc, "C80/UW1/P-001_Boom/v1.0/safety.plc", "data2")

	info, err := svc.CreateFilesBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateFilesBackup: %v", err)
	}
	if info.Type != "files" {
		t.Fatalf("unexpected type %q", info.Type)
	}

	list, err := svc.ListBackups(context.Background())
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(list) != 1 || list[0].Name != info.Name {
		t.Fatalf("unexpected list: %+v", list)
	}

	// empty upload dir is rejected only when missing entirely
	if err := os.RemoveAll(svc.CFG.UploadDir); err != nil {
		t.Fatalf("remove upload dir: %v", err)
	}
	if _, err := svc.CreateFilesBackup(context.Background()); !errors.Is(err, ErrNoUploadDir) {
		t.Fatalf("expected ErrNoUploadDir, got %v", err)
	}
}

func TestRestoreFiles_RoundTrip(t *testing.T) {
	svc := newTestService(t)
	stubDump(t, "-- dump")
	writeUpload(t, svc, "line/a.plc", "original")

	info, err := svc.CreateFilesBackup(context.Background())
	if err != nil {
		t.Fatalf("backup: %v", err)
	}

	// mutate and restore
	writeUpload(t, svc, "line/a.plc", "mutated")
	writeUpload(t, svc, "line/b.plc", "extra")

	rollback, err := svc.RestoreFiles(info.Name)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}
	if rollback == "" {
		t.Fatalf("expected a rollback archive name")
	}
	if _, err := os.Stat(filepath.Join(svc.CFG.BackupDir, rollback)); err != nil {
		t.Fatalf("rollback archive missing: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(svc.CFG.UploadDir, "line/a.plc"))
	if err != nil {
		t.Fatalf("read restored: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("expected restored content, got %q", data)
	}
	if _, err := os.Stat(filepath.Join(svc.CFG.UploadDir, "line/b.plc")); !os.IsNotExist(err) {
		t.Fatalf("file added after backup should be gone")
	}
}

func TestRestoreDatabase_FromFullBackup(t *testing.T) {
	svc := newTestService(t)
	loaded := stubDump(t, "-- full dump")
	writeUpload(t, svc, "line/a.plc", "data")

	info, err := svc.CreateFullBackup(context.Background())
	if err != nil {
		t.Fatalf("full backup: %v", err)
	}
	if info.Type != "full" {
		t.Fatalf("unexpected type %q", info.Type)
	}

	rollback, err := svc.RestoreDatabase(info.Name)
	if err != nil {
		t.Fatalf("restore database: %v", err)
	}
	if rollback == "" {
		t.Fatalf("expected rollback name")
	}
	if len(*loaded) != 1 || (*loaded)[0] != "-- full dump" {
		t.Fatalf("expected the contained dump to be loaded, got %+v", *loaded)
	}
}

func TestRestore_RejectsWrongKind(t *testing.T) {
	svc := newTestService(t)
	stubDump(t, "-- dump")
	writeUpload(t, svc, "a.plc", "x")

	filesInfo, err := svc.CreateFilesBackup(context.Background())
	if err != nil {
		t.Fatalf("files backup: %v", err)
	}
	dbInfo, err := svc.CreateDatabaseBackup(context.Background())
	if err != nil {
		t.Fatalf("db backup: %v", err)
	}

	if _, err := svc.RestoreDatabase(filesInfo.Name); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
	if _, err := svc.RestoreFiles(dbInfo.Name); !errors.Is(err, ErrInvalidBackup) {
		t.Fatalf("expected ErrInvalidBackup, got %v", err)
	}
	if _, err := svc.RestoreDatabase("database_backup_missing.sql"); !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound, got %v", err)
	}
}

func TestDeleteBackup_Traversal(t *testing.T) {
	svc := newTestService(t)

	if err := svc.DeleteBackup(context.Background(), "../escape.sql"); !errors.Is(err, ErrUnsafeName) {
		t.Fatalf("expected ErrUnsafeName, got %v", err)
	}
	if err := svc.DeleteBackup(context.Background(), "missing.sql"); !errors.Is(err, ErrBackupNotFound) {
		t.Fatalf("expected ErrBackupNotFound, got %v", err)
	}
}

// withOffsiteBucket points the GCS client at a local fake server through the
// emulator env var and configures the service to mirror into it.
func withOffsiteBucket(t *testing.T, svc *BackupService) *fakestorage.Server {
	t.Helper()

	srv, err := fakestorage.NewServerWithOptions(fakestorage.Options{Scheme: "http"})
	if err != nil {
		t.Fatalf("start fake gcs: %v", err)
	}
	t.Cleanup(srv.Stop)

	bucket := "crane-backups"
	srv.CreateBucket(bucket)
	svc.CFG.BackupBucket = bucket

	os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimPrefix(srv.URL(), "http://"))
	t.Cleanup(func() { os.Unsetenv("STORAGE_EMULATOR_HOST") })

	return srv
}

func TestDeleteBackup_RemovesOffsiteCopy(t *testing.T) {
	svc := newTestService(t)
	srv := withOffsiteBucket(t, svc)
	stubDump(t, "-- marker dump")

	info, err := svc.CreateDatabaseBackup(context.Background())
	if err != nil {
		t.Fatalf("CreateDatabaseBackup: %v", err)
	}
	if info.OffsiteURL == "" {
		t.Fatalf("backup should carry an offsite URL when a bucket is configured")
	}
	if _, err := srv.GetObject("crane-backups", info.Name); err != nil {
		t.Fatalf("offsite copy missing after create: %v", err)
	}

	if err := svc.DeleteBackup(context.Background(), info.Name); err != nil {
		t.Fatalf("DeleteBackup: %v", err)
	}
	if _, err := srv.GetObject("crane-backups", info.Name); err == nil {
		t.Fatalf("offsite copy should be removed with the backup")
	}
	var count int64
	svc.DB.Model(&BackupRecord{}).Where("name = ?", info.Name).Count(&count)
	if count != 0 {
		t.Fatalf("record should be removed, got %d", count)
	}
}

func TestListBackups_IncludesOffsiteOnlyCopies(t *testing.T) {
	svc := newTestService(t)
	srv := withOffsiteBucket(t, svc)

	srv.CreateObject(fakestorage.Object{
		ObjectAttrs: fakestorage.ObjectAttrs{
			BucketName: "crane-backups",
			Name:       "database_backup_20240101_000000.sql",
		},
		Content: []byte("-- retained offsite"),
	})

	list, err := svc.ListBackups(context.Background())
	if err != nil {
		t.Fatalf("ListBackups: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected the offsite-only copy listed, got %+v", list)
	}
	if list[0].Type != "database" || list[0].OffsiteURL != "gs://crane-backups/database_backup_20240101_000000.sql" {
		t.Fatalf("unexpected entry: %+v", list[0])
	}
}
