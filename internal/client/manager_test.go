package client

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

type routeHit struct {
	count int32
}

func (h *routeHit) inc() { atomic.AddInt32(&h.count, 1) }
func (h *routeHit) n() int32 {
	return atomic.LoadInt32(&h.count)
}

func newOverviewServer(t *testing.T, token string) (*httptest.Server, *routeHit) {
	t.Helper()
	hits := &routeHit{}
	mux := http.NewServeMux()
	authed := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer "+token {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return false
		}
		return true
	}
	mux.HandleFunc("/api/programs", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		hits.inc()
		json.NewEncoder(w).Encode(map[string]any{"data": []Program{
			{ID: 1, Name: "Hoist Control", Code: "P-001", Version: "v2.0"},
			{ID: 2, Name: "Trolley Drive", Code: "P-002", Version: "v1.1"},
		}})
	})
	mux.HandleFunc("/api/production-lines", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		hits.inc()
		json.NewEncoder(w).Encode(map[string]any{"data": []ProductionLine{
			{ID: 1, Name: "Welding Upper", Code: "WELD-U", Type: "upper"},
		}})
	})
	mux.HandleFunc("/api/vehicle-models", func(w http.ResponseWriter, r *http.Request) {
		if !authed(w, r) {
			return
		}
		hits.inc()
		json.NewEncoder(w).Encode(map[string]any{"data": []VehicleModel{
			{ID: 1, Name: "C80 Overhead", Code: "C80"},
		}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, hits
}

func TestLoadOverview_FetchesAllCollections(t *testing.T) {
	srv, hits := newOverviewServer(t, "tok")
	api := NewGateway(srv.URL)
	api.Token = "tok"
	m := NewManager(api)

	overview, err := m.LoadOverview(context.Background())
	if err != nil {
		t.Fatalf("LoadOverview: %v", err)
	}
	if len(overview.Programs) != 2 {
		t.Fatalf("expected 2 programs, got %d", len(overview.Programs))
	}
	if len(overview.ProductionLines) != 1 || overview.ProductionLines[0].Type != "upper" {
		t.Fatalf("unexpected production lines: %+v", overview.ProductionLines)
	}
	if len(overview.VehicleModels) != 1 {
		t.Fatalf("expected 1 vehicle model, got %d", len(overview.VehicleModels))
	}
	if hits.n() != 3 {
		t.Fatalf("expected 3 fetches, got %d", hits.n())
	}
}

func TestLoadOverview_CarriesBearerToken(t *testing.T) {
	srv, _ := newOverviewServer(t, "secret")
	api := NewGateway(srv.URL)
	api.Token = "wrong"
	m := NewManager(api)

	_, err := m.LoadOverview(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
	if apiErr.Message != "Unauthorized" {
		t.Fatalf("expected server message surfaced, got %q", apiErr.Message)
	}
}

func TestSaveProgram_ValidatesBeforeNetwork(t *testing.T) {
	var hit int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hit, 1)
	}))
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	_, err := m.SaveProgram(context.Background(), ProgramInput{Name: "Hoist"})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "code") || !strings.Contains(err.Error(), "production line") {
		t.Fatalf("error should name missing fields, got %q", err.Error())
	}
	if atomic.LoadInt32(&hit) != 0 {
		t.Fatalf("validation failure must not reach the server")
	}
}

func TestSaveProgram_CreateVersusUpdate(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		var payload map[string]any
		json.NewDecoder(r.Body).Decode(&payload)
		if payload["code"] != "P-010" {
			t.Errorf("payload missing code: %v", payload)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": Program{ID: 10, Code: "P-010"}})
	}))
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	input := ProgramInput{Name: "Hoist", Code: "P-010", ProductionLineID: 1}

	if _, err := m.SaveProgram(context.Background(), input); err != nil {
		t.Fatalf("create: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/programs" {
		t.Fatalf("expected POST /api/programs, got %s %s", gotMethod, gotPath)
	}

	input.ID = 10
	if _, err := m.SaveProgram(context.Background(), input); err != nil {
		t.Fatalf("update: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/api/programs/10" {
		t.Fatalf("expected PUT /api/programs/10, got %s %s", gotMethod, gotPath)
	}
}

func TestDeleteProgram_RequiresConfirmation(t *testing.T) {
	var hit int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hit, 1)
		json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	}))
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	p := Program{ID: 3, Name: "Hoist", Code: "P-003"}

	if err := m.DeleteProgram(context.Background(), p, nil); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("nil confirm should abort, got %v", err)
	}
	decline := func(string) bool { return false }
	if err := m.DeleteProgram(context.Background(), p, decline); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("declined confirm should abort, got %v", err)
	}
	if atomic.LoadInt32(&hit) != 0 {
		t.Fatalf("declined delete must not reach the server")
	}

	var prompt string
	accept := func(p string) bool {
		prompt = p
		return true
	}
	if err := m.DeleteProgram(context.Background(), p, accept); err != nil {
		t.Fatalf("accepted delete: %v", err)
	}
	if atomic.LoadInt32(&hit) != 1 {
		t.Fatalf("expected exactly one delete call, got %d", hit)
	}
	if !strings.Contains(prompt, "P-003") {
		t.Fatalf("prompt should name the program, got %q", prompt)
	}
}

func TestActivateVersion_ConfirmGuard(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]string{"message": "activated"})
	}))
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	record := VersionRecord{ID: 42, Version: "v1.3"}

	if err := m.ActivateVersion(context.Background(), record, func(string) bool { return false }); !errors.Is(err, ErrNotConfirmed) {
		t.Fatalf("expected ErrNotConfirmed, got %v", err)
	}
	if gotPath != "" {
		t.Fatalf("declined activation must not reach the server")
	}

	if err := m.ActivateVersion(context.Background(), record, func(string) bool { return true }); err != nil {
		t.Fatalf("ActivateVersion: %v", err)
	}
	if gotPath != "/api/versions/42/activate" {
		t.Fatalf("unexpected path %q", gotPath)
	}
}

func TestSubmitUpload_MultipartFields(t *testing.T) {
	var gotVersion, gotChangeLog string
	var gotFiles []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotVersion = r.FormValue("version")
		gotChangeLog = r.FormValue("description")
		for _, fh := range r.MultipartForm.File["files"] {
			gotFiles = append(gotFiles, fh.Filename)
		}
		json.NewEncoder(w).Encode(UploadResponse{
			Message:      "2 file(s) uploaded",
			IsNewVersion: true,
			Files:        []FileEntry{{ID: 1}, {ID: 2}},
		})
	}))
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))

	if _, err := m.SubmitUpload(context.Background(), 1, "  ", "", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("blank version should fail, got %v", err)
	}
	if _, err := m.SubmitUpload(context.Background(), 1, "v1.0", "", nil); !errors.Is(err, ErrNoFiles) {
		t.Fatalf("empty selection should fail, got %v", err)
	}

	resp, err := m.SubmitUpload(context.Background(), 1, "v1.0", "initial release", []UploadFile{
		{Name: "main.plc", Reader: strings.NewReader("G0 X0")},
		{Name: "params.cfg", Reader: strings.NewReader("speed=2")},
	})
	if err != nil {
		t.Fatalf("SubmitUpload: %v", err)
	}
	if !resp.IsNewVersion || len(resp.Files) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotVersion != "v1.0" || gotChangeLog != "initial release" {
		t.Fatalf("form fields not carried: version=%q description=%q", gotVersion, gotChangeLog)
	}
	if len(gotFiles) != 2 || gotFiles[0] != "main.plc" || gotFiles[1] != "params.cfg" {
		t.Fatalf("unexpected file parts: %v", gotFiles)
	}
}

func TestDownloadVersion_SingleFileUsesFileEndpoint(t *testing.T) {
	fileHits := &routeHit{}
	archiveHits := &routeHit{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/files/download/5", func(w http.ResponseWriter, r *http.Request) {
		fileHits.inc()
		w.Header().Set("Content-Disposition", `attachment; filename="main.plc"`)
		w.Write([]byte("G0 X0 Y0"))
	})
	mux.HandleFunc("/api/files/download/version/", func(w http.ResponseWriter, r *http.Request) {
		archiveHits.inc()
		w.Header().Set("Content-Disposition", `attachment; filename="P-001_v1.0.zip"`)
		zw := zip.NewWriter(w)
		f, _ := zw.Create("5_main.plc")
		f.Write([]byte("G0 X0 Y0"))
		zw.Close()
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	dir := t.TempDir()

	single := VersionEntry{Version: "v1.0", Files: []FileEntry{{ID: 5, FileName: "main.plc"}}}
	dest, err := m.DownloadVersion(context.Background(), 1, single, dir)
	if err != nil {
		t.Fatalf("DownloadVersion single: %v", err)
	}
	if filepath.Base(dest) != "main.plc" {
		t.Fatalf("expected disposition-derived name, got %q", dest)
	}
	if fileHits.n() != 1 || archiveHits.n() != 0 {
		t.Fatalf("single file should use the file endpoint: file=%d archive=%d", fileHits.n(), archiveHits.n())
	}
	data, err := os.ReadFile(dest)
	if err != nil || string(data) != "G0 X0 Y0" {
		t.Fatalf("saved content mismatch: %q err=%v", data, err)
	}

	multi := VersionEntry{Version: "v1.0", Files: []FileEntry{{ID: 5, FileName: "main.plc"}, {ID: 6, FileName: "params.cfg"}}}
	dest, err = m.DownloadVersion(context.Background(), 1, multi, dir)
	if err != nil {
		t.Fatalf("DownloadVersion multi: %v", err)
	}
	if filepath.Base(dest) != "P-001_v1.0.zip" {
		t.Fatalf("expected archive name, got %q", dest)
	}
	if archiveHits.n() != 1 || fileHits.n() != 1 {
		t.Fatalf("multi file should use the archive endpoint exactly once: file=%d archive=%d", fileHits.n(), archiveHits.n())
	}
	payload, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("read archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		t.Fatalf("saved archive is not a zip: %v", err)
	}
	if len(zr.File) != 1 || zr.File[0].Name != "5_main.plc" {
		t.Fatalf("unexpected archive contents: %+v", zr.File)
	}
}

func TestDownloadProgramLatest_PicksNewestVersion(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/files/program/7", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"versions": []VersionEntry{
			{Version: "v2.0", IsCurrent: true, Files: []FileEntry{{ID: 9, FileName: "main_v2.plc"}}},
			{Version: "v1.0", Files: []FileEntry{{ID: 5, FileName: "main.plc"}}},
		}})
	})
	mux.HandleFunc("/api/files/download/9", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="main_v2.plc"`)
		w.Write([]byte("G1 Z5"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	dest, err := m.DownloadProgramLatest(context.Background(), Program{ID: 7, Code: "P-007"}, t.TempDir())
	if err != nil {
		t.Fatalf("DownloadProgramLatest: %v", err)
	}
	if filepath.Base(dest) != "main_v2.plc" {
		t.Fatalf("expected newest version's file, got %q", dest)
	}
}

func TestDownloadFile_StripsUnsafeDispositionPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Disposition", `attachment; filename="../../etc/passwd"`)
		w.Write([]byte("data"))
	}))
	defer srv.Close()

	m := NewManager(NewGateway(srv.URL))
	dir := t.TempDir()
	dest, err := m.DownloadFile(context.Background(), 1, "fallback.bin", dir)
	if err != nil {
		t.Fatalf("DownloadFile: %v", err)
	}
	if filepath.Dir(dest) != dir {
		t.Fatalf("download escaped the destination dir: %q", dest)
	}
	if filepath.Base(dest) != "passwd" {
		t.Fatalf("expected base name only, got %q", dest)
	}
}

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["employee_id"] != "E1001" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"error": "Invalid credentials"})
			return
		}
		fmt.Fprint(w, `{"token":"tok-1","user":{"id":1,"employee_id":"E1001","name":"Admin","role":"admin"}}`)
	}))
	defer srv.Close()

	api := NewGateway(srv.URL)
	if err := api.RequireToken(); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized before login, got %v", err)
	}

	result, err := api.Login(context.Background(), "E1001", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if api.Token != "tok-1" || result.User.Role != "admin" {
		t.Fatalf("unexpected login result: token=%q user=%+v", api.Token, result.User)
	}
	if err := api.RequireToken(); err != nil {
		t.Fatalf("RequireToken after login: %v", err)
	}
}

func TestMenu_FilterByRole(t *testing.T) {
	admin := Menu("admin")
	user := Menu("user")
	if len(admin) <= len(user) {
		t.Fatalf("admin menu should be larger: admin=%d user=%d", len(admin), len(user))
	}
	for _, item := range user {
		if item.Key == "backup" || item.Key == "users" {
			t.Fatalf("user role must not see %q", item.Key)
		}
	}
}
