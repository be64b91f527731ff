package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"boom_arm.plc", "boom_arm.plc"},
		{"a/b\\c", "a_b_c"},
		{`v1:0?"x"`, "v1_0__x"},
		{" . ", "unnamed"},
		{"", "unnamed"},
		{"<>|*", "____"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSanitizeFilename_LongNameClamped(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("x", 300))
	if len(got) != 255 {
		t.Fatalf("len=%d want 255", len(got))
	}
}

func TestProgramStoragePath(t *testing.T) {
	got := ProgramStoragePath("./uploads", "QC25", "Boom Line/1", "P001", "Main Boom", "v1.0.0")
	want := filepath.Join("uploads", "QC25", "Boom Line_1", "P001_Main Boom", "v1.0.0")
	if got != want {
		t.Fatalf("got=%q want=%q", got, want)
	}
}

func TestIsSafePath(t *testing.T) {
	base := "/srv/uploads"
	if !IsSafePath(base, "/srv/uploads/QC25/file.plc") {
		t.Fatalf("expected nested path to be safe")
	}
	if IsSafePath(base, "/srv/uploads/../etc/passwd") {
		t.Fatalf("expected traversal path to be unsafe")
	}
	if IsSafePath(base, "/etc/passwd") {
		t.Fatalf("expected external path to be unsafe")
	}
}

func TestEnsureDir_FileExists_DirSize(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "a", "b")

	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}

	p := filepath.Join(dir, "f.bin")
	if FileExists(p) {
		t.Fatalf("file should not exist yet")
	}
	if err := os.WriteFile(p, []byte("12345"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if !FileExists(p) {
		t.Fatalf("file should exist")
	}

	size, err := DirSize(root)
	if err != nil {
		t.Fatalf("DirSize: %v", err)
	}
	if size != 5 {
		t.Fatalf("size=%d want 5", size)
	}
}

func TestRelativePath(t *testing.T) {
	rel, err := RelativePath("/srv/uploads", "/srv/uploads/QC25/file.plc")
	if err != nil {
		t.Fatalf("RelativePath: %v", err)
	}
	if rel != filepath.Join("QC25", "file.plc") {
		t.Fatalf("rel=%q", rel)
	}
}
