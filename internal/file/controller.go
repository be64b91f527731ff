package file

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"crane-program-api/internal/logs"
	"crane-program-api/internal/util"

	"github.com/gin-gonic/gin"
)

type LogServicePort interface {
	Log(entry logs.SystemLog, payload interface{}) error
}

type FileController struct {
	FileService *FileService
	LS          LogServicePort
}

// UploadFiles accepts a multipart form with repeated parts under "files" plus
// program_id, version and description fields. The response's isNewVersion
// flag tells the client whether a version was created or appended to.
func (ctrl *FileController) UploadFiles(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse multipart form"})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No files submitted"})
		return
	}

	programID, err := strconv.ParseUint(c.PostForm("program_id"), 10, 32)
	if err != nil || programID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program_id"})
		return
	}
	version := c.PostForm("version")
	if version == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Version label is required"})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user context"})
		return
	}

	result, err := ctrl.FileService.SaveUpload(UploadInput{
		ProgramID:   uint(programID),
		Version:     version,
		Description: c.PostForm("description"),
		UploadedBy:  userID,
		Files:       files,
	}, c.SaveUploadedFile)
	if err != nil {
		switch {
		case errors.Is(err, ErrProgramNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
		case errors.Is(err, ErrUnsafePath):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsafe file path"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store files"})
		}
		return
	}

	action := "REUPLOAD_VERSION"
	if result.IsNewVersion {
		action = "UPLOAD_NEW_VERSION"
	}
	ctrl.audit(c, action, fmt.Sprintf("Uploaded %d file(s) to program %d version %s", len(result.Files), programID, version), result)

	c.JSON(http.StatusOK, gin.H{
		"message":      "Files uploaded",
		"files":        result.Files,
		"isNewVersion": result.IsNewVersion,
	})
}

// GetProgramFiles returns the version browser payload for one program.
func (ctrl *FileController) GetProgramFiles(c *gin.Context) {
	programID, err := strconv.ParseUint(c.Param("program_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program_id"})
		return
	}

	views, err := ctrl.FileService.GetProgramVersionView(uint(programID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch versions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"versions":       views,
		"total_versions": len(views),
	})
}

func (ctrl *FileController) DownloadFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	file, err := ctrl.FileService.GetFile(uint(id))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch file"})
		return
	}

	path, err := ctrl.FileService.AbsolutePath(file)
	if err != nil {
		switch {
		case errors.Is(err, ErrFileMissing):
			c.JSON(http.StatusNotFound, gin.H{"error": "File has been moved or deleted"})
		case errors.Is(err, ErrUnsafePath):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsafe file path"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve file"})
		}
		return
	}

	c.FileAttachment(path, file.FileName)
}

func (ctrl *FileController) DeleteFile(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	if err := ctrl.FileService.DeleteFile(uint(id)); err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete file"})
		return
	}

	ctrl.audit(c, "DELETE_FILE", fmt.Sprintf("Deleted file %d", id), nil)
	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

func (ctrl *FileController) GetProgramVersions(c *gin.Context) {
	programID, err := strconv.ParseUint(c.Param("program_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program_id"})
		return
	}

	versions, err := ctrl.FileService.GetVersions(uint(programID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch versions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": versions})
}

func (ctrl *FileController) CreateVersion(c *gin.Context) {
	var version ProgramVersion
	if err := c.ShouldBindJSON(&version); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if version.ProgramID == 0 || version.Version == "" || version.FileID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "program_id, version and file_id are required"})
		return
	}

	if userID, ok := currentUserID(c); ok {
		version.UploadedBy = userID
	}

	if err := ctrl.FileService.CreateVersion(&version); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create version"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": version})
}

func (ctrl *FileController) ActivateVersion(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return
	}

	version, err := ctrl.FileService.ActivateVersion(uint(id))
	if err != nil {
		if errors.Is(err, ErrVersionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Version not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate version"})
		return
	}

	ctrl.audit(c, "ACTIVATE_VERSION", fmt.Sprintf("Activated version %s on program %d", version.Version, version.ProgramID), version)
	c.JSON(http.StatusOK, gin.H{"data": version})
}

// DownloadProgramLatest streams the latest version's files as one archive.
func (ctrl *FileController) DownloadProgramLatest(c *gin.Context) {
	programID, err := strconv.ParseUint(c.Param("program_id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid program_id"})
		return
	}

	code, err := ctrl.FileService.ProgramCode(uint(programID))
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch program"})
		return
	}

	version, files, err := ctrl.FileService.LatestVersionFiles(uint(programID))
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program has no files"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	ctrl.streamZip(c, files, fmt.Sprintf("%s_%s.zip", code, version))
}

// DownloadVersionFiles streams every file of one version as an archive.
func (ctrl *FileController) DownloadVersionFiles(c *gin.Context) {
	version := c.Param("version")
	programID, err := strconv.ParseUint(c.Query("program_id"), 10, 32)
	if err != nil || programID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing program_id parameter"})
		return
	}

	code, err := ctrl.FileService.ProgramCode(uint(programID))
	if err != nil {
		if errors.Is(err, ErrProgramNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Program not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch program"})
		return
	}

	files, err := ctrl.FileService.VersionFiles(uint(programID), version)
	if err != nil {
		if errors.Is(err, ErrFileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Version has no files"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch files"})
		return
	}

	ctrl.streamZip(c, files, fmt.Sprintf("%s_%s.zip", code, version))
}

// streamZip writes the archive straight into the response body. Entries are
// prefixed with the file id when the set holds more than one file, so two
// uploads of the same name never collide inside the archive.
func (ctrl *FileController) streamZip(c *gin.Context, files []ProgramFile, zipName string) {
	c.Header("Content-Type", "application/zip")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", zipName))

	zw := zip.NewWriter(c.Writer)
	defer zw.Close()

	for _, f := range files {
		path := filepath.Join(ctrl.FileService.CFG.UploadDir, f.FilePath)
		if !util.IsSafePath(ctrl.FileService.CFG.UploadDir, path) || !util.FileExists(path) {
			continue
		}

		entryName := f.FileName
		if len(files) > 1 {
			entryName = fmt.Sprintf("%d_%s", f.ID, f.FileName)
		}

		src, err := os.Open(path)
		if err != nil {
			continue
		}
		entry, err := zw.Create(entryName)
		if err != nil {
			src.Close()
			continue
		}
		_, _ = io.Copy(entry, src)
		src.Close()
	}
}

func (ctrl *FileController) audit(c *gin.Context, action, message string, payload interface{}) {
	if ctrl.LS == nil {
		return
	}
	var actor *uint
	if raw, ok := c.Get("userID"); ok {
		if f, ok := raw.(float64); ok {
			id := uint(f)
			actor = &id
		}
	}
	if err := ctrl.LS.Log(logs.SystemLog{
		Level:   "info",
		Service: "file",
		UserID:  actor,
		Action:  action,
		Message: message,
	}, payload); err != nil {
		fmt.Printf("Failed to insert log: %v\n", err)
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	raw, ok := c.Get("userID")
	if !ok {
		return 0, false
	}
	f, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	return uint(f), true
}
