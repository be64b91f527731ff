package file

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"crane-program-api/config"
	"crane-program-api/internal/auth"
	"crane-program-api/internal/logs"
	"crane-program-api/internal/lookup"
	"crane-program-api/internal/program"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq uint64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	id := atomic.AddUint64(&testDBSeq, 1)
	dsn := fmt.Sprintf("file:file_test_%d?mode=memory&cache=shared", id)

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

	if err := db.AutoMigrate(
		&auth.User{},
		&lookup.Process{},
		&lookup.ProductionLine{},
		&lookup.VehicleModel{},
		&program.Program{},
		&ProgramFile{},
		&ProgramVersion{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestService(t *testing.T) (*FileService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{UploadDir: t.TempDir()}
	return &FileService{DB: db, CFG: cfg}, db
}

var seedSeq uint64

// seedProgram creates one program with its user, line and vehicle. Codes are
// uniquified so a test can seed more than one program in the same database.
func seedProgram(t *testing.T, db *gorm.DB) program.Program {
	t.Helper()
	n := atomic.AddUint64(&seedSeq, 1)

	user := auth.User{EmployeeID: fmt.Sprintf("E%04d", n), Name: "Operator", Role: "user", Password: "x", Status: "active"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	proc := lookup.Process{Name: "Welding", Code: fmt.Sprintf("WELD-%d", n), Type: "upper"}
	if err := db.Create(&proc).Error; err != nil {
		t.Fatalf("seed process: %v", err)
	}
	line := lookup.ProductionLine{Name: "Upper Weld", Code: fmt.Sprintf("UW%d", n), Type: "upper", ProcessID: proc.ID}
	if err := db.Create(&line).Error; err != nil {
		t.Fatalf("seed line: %v", err)
	}
	vehicle := lookup.VehicleModel{Name: "Crawler 80t", Code: fmt.Sprintf("C80-%d", n)}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("seed vehicle: %v", err)
	}
	p := program.Program{Name: "Boom weld", Code: fmt.Sprintf("P-%03d", n), ProductionLineID: line.ID, VehicleModelID: vehicle.ID}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed program: %v", err)
	}
	return p
}

// fakeHeader builds a detached multipart.FileHeader for service tests; the
// paired save func writes the given content instead of reading the header.
func fakeHeader(name string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: size}
}

func writeContent(content string) SaveFunc {
	return func(fh *multipart.FileHeader, dst string) error {
		return os.WriteFile(dst, []byte(content), 0644)
	}
}

func mockAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.GetHeader("Authorization")) != "Bearer test" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		rawID := strings.TrimSpace(c.GetHeader("X-UserID"))
		if rawID == "" {
			rawID = "1"
		}
		f, _ := strconv.ParseFloat(rawID, 64)
		c.Set("userID", f)
		if role := strings.TrimSpace(c.GetHeader("X-Role")); role != "" {
			c.Set("role", role)
		}
		c.Next()
	}
}

func setupRouterForController(fc *FileController) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	files := r.Group("/api/files")
	files.Use(mockAuthMiddleware())
	{
		files.POST("/upload", fc.UploadFiles)
		files.GET("/program/:program_id", fc.GetProgramFiles)
		files.GET("/download/:id", fc.DownloadFile)
		files.GET("/download/program/:program_id/latest", fc.DownloadProgramLatest)
		files.GET("/download/version/:version", fc.DownloadVersionFiles)
		files.DELETE("/:id", fc.DeleteFile)
	}
	versions := r.Group("/api/versions")
	versions.Use(mockAuthMiddleware())
	{
		versions.GET("/program/:program_id", fc.GetProgramVersions)
		versions.POST("", fc.CreateVersion)
		versions.PUT("/:id/activate", fc.ActivateVersion)
	}
	return r
}

func doReq(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type uploadPart struct {
	Name    string
	Content string
}

func newUploadReq(url string, fields map[string]string, parts []uploadPart) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	for _, p := range parts {
		fw, _ := w.CreateFormFile("files", p.Name)
		_, _ = fw.Write([]byte(p.Content))
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer test")
	return req
}

// ---- fake log service ----

type fakeLogService struct {
	Calls []logs.SystemLog
	Err   error
}

func (f *fakeLogService) Log(l logs.SystemLog, payload interface{}) error {
	f.Calls = append(f.Calls, l)
	return f.Err
}
