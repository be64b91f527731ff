package util

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)

// SanitizeFilename strips characters that are unsafe in file and directory
// names. Empty results become "unnamed".
func SanitizeFilename(name string) string {
	s := unsafeFilenameChars.ReplaceAllString(name, "_")
	s = strings.Trim(s, " .")
	if len(s) > 255 {
		s = s[:255]
	}
	if s == "" {
		return "unnamed"
	}
	return s
}

// ProgramStoragePath builds the on-disk directory for one version of a
// program: <base>/<vehicle model>/<production line>/<code>_<name>/<version>.
func ProgramStoragePath(baseDir, vehicleModel, productionLine, programCode, programName, version string) string {
	return filepath.Join(
		baseDir,
		SanitizeFilename(vehicleModel),
		SanitizeFilename(productionLine),
		fmt.Sprintf("%s_%s", programCode, SanitizeFilename(programName)),
		SanitizeFilename(version),
	)
}

func EnsureDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}

func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// IsSafePath reports whether targetPath stays inside basePath. Guards the
// download and delete handlers against traversal through stored paths.
func IsSafePath(basePath, targetPath string) bool {
	rel, err := filepath.Rel(basePath, targetPath)
	if err != nil {
		return false
	}
	return !strings.Contains(rel, "..")
}

func RelativePath(basePath, fullPath string) (string, error) {
	return filepath.Rel(basePath, fullPath)
}

// RemoveFile deletes path if it exists. Missing files are not an error.
func RemoveFile(path string) error {
	err := os.Remove(path)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// DirSize walks dir and sums regular file sizes.
func DirSize(dir string) (int64, error) {
	var size int64
	err := filepath.Walk(dir, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size, err
}
