package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError carries the server-provided message for a failed call so the
// caller can surface it verbatim.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server returned %d", e.Status)
}

// Gateway is the authenticated HTTP surface of the API. Every request after
// login carries the bearer token.
type Gateway struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewGateway(baseURL string) *Gateway {
	return &Gateway{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 60 * time.Second},
	}
}

func (g *Gateway) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, g.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}
	return req, nil
}

// doJSON issues a request with an optional JSON body and decodes the JSON
// response into out (when out is non-nil).
func (g *Gateway) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := g.newRequest(ctx, method, path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Error != "" {
			apiErr.Message = body.Error
		} else {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// ---- typed calls ----

type LoginResult struct {
	Token string `json:"token"`
	User  struct {
		ID         uint   `json:"id"`
		EmployeeID string `json:"employee_id"`
		Name       string `json:"name"`
		Department string `json:"department"`
		Role       string `json:"role"`
	} `json:"user"`
}

func (g *Gateway) Login(ctx context.Context, employeeID, password string) (*LoginResult, error) {
	var result LoginResult
	err := g.doJSON(ctx, http.MethodPost, "/api/login", map[string]string{
		"employee_id": employeeID,
		"password":    password,
	}, &result)
	if err != nil {
		return nil, err
	}
	g.Token = result.Token
	return &result, nil
}

type Program struct {
	ID               uint   `json:"id"`
	Name             string `json:"name"`
	Code             string `json:"code"`
	ProductionLineID uint   `json:"production_line_id"`
	VehicleModelID   uint   `json:"vehicle_model_id"`
	Version          string `json:"version"`
	Description      string `json:"description"`
	Status           string `json:"status"`
	ProductionLine   struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"production_line"`
	VehicleModel struct {
		Name string `json:"name"`
		Code string `json:"code"`
	} `json:"vehicle_model"`
}

type ProductionLine struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
	Type string `json:"type"`
}

type VehicleModel struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type FileEntry struct {
	ID       uint   `json:"id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	Version  string `json:"version"`
}

type VersionEntry struct {
	Version   string      `json:"version"`
	ChangeLog string      `json:"change_log"`
	IsCurrent bool        `json:"is_current"`
	CreatedAt time.Time   `json:"created_at"`
	Files     []FileEntry `json:"files"`
	FileCount int         `json:"file_count"`
}

type VersionRecord struct {
	ID        uint   `json:"id"`
	ProgramID uint   `json:"program_id"`
	Version   string `json:"version"`
	IsCurrent bool   `json:"is_current"`
}

func (g *Gateway) ListPrograms(ctx context.Context) ([]Program, error) {
	var resp struct {
		Data []Program `json:"data"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/api/programs", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (g *Gateway) ListProductionLines(ctx context.Context) ([]ProductionLine, error) {
	var resp struct {
		Data []ProductionLine `json:"data"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/api/production-lines", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (g *Gateway) ListVehicleModels(ctx context.Context) ([]VehicleModel, error) {
	var resp struct {
		Data []VehicleModel `json:"data"`
	}
	if err := g.doJSON(ctx, http.MethodGet, "/api/vehicle-models", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (g *Gateway) CreateProgram(ctx context.Context, input map[string]any) (*Program, error) {
	var resp struct {
		Data Program `json:"data"`
	}
	if err := g.doJSON(ctx, http.MethodPost, "/api/programs", input, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (g *Gateway) UpdateProgram(ctx context.Context, id uint, input map[string]any) (*Program, error) {
	var resp struct {
		Data Program `json:"data"`
	}
	if err := g.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/programs/%d", id), input, &resp); err != nil {
		return nil, err
	}
	return &resp.Data, nil
}

func (g *Gateway) DeleteProgram(ctx context.Context, id uint) error {
	return g.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/api/programs/%d", id), nil, nil)
}

func (g *Gateway) ProgramVersions(ctx context.Context, programID uint) ([]VersionEntry, error) {
	var resp struct {
		Versions []VersionEntry `json:"versions"`
	}
	if err := g.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/files/program/%d", programID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Versions, nil
}

func (g *Gateway) VersionRecords(ctx context.Context, programID uint) ([]VersionRecord, error) {
	var resp struct {
		Data []VersionRecord `json:"data"`
	}
	if err := g.doJSON(ctx, http.MethodGet, fmt.Sprintf("/api/versions/program/%d", programID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Data, nil
}

func (g *Gateway) ActivateVersion(ctx context.Context, versionID uint) error {
	return g.doJSON(ctx, http.MethodPut, fmt.Sprintf("/api/versions/%d/activate", versionID), nil, nil)
}

// UploadFile names one local part of a multipart upload.
type UploadFile struct {
	Name   string
	Reader io.Reader
}

type UploadResponse struct {
	Message      string      `json:"message"`
	Files        []FileEntry `json:"files"`
	IsNewVersion bool        `json:"isNewVersion"`
}

// Upload submits all files under the shared "files" field together with the
// program id, version label and change log.
func (g *Gateway) Upload(ctx context.Context, programID uint, version, changeLog string, files []UploadFile) (*UploadResponse, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	_ = w.WriteField("program_id", fmt.Sprint(programID))
	_ = w.WriteField("version", version)
	if changeLog != "" {
		_ = w.WriteField("description", changeLog)
	}
	for _, f := range files {
		part, err := w.CreateFormFile("files", f.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, f.Reader); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := g.newRequest(ctx, http.MethodPost, "/api/files/upload", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, decodeAPIError(resp)
	}
	var result UploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Fetch streams a binary endpoint. The caller owns the returned body.
func (g *Gateway) Fetch(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req, err := g.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		return nil, "", decodeAPIError(resp)
	}
	return resp.Body, resp.Header.Get("Content-Disposition"), nil
}

func (g *Gateway) FileDownloadPath(fileID uint) string {
	return fmt.Sprintf("/api/files/download/%d", fileID)
}

func (g *Gateway) ProgramLatestArchivePath(programID uint) string {
	return fmt.Sprintf("/api/files/download/program/%d/latest", programID)
}

func (g *Gateway) VersionArchivePath(programID uint, version string) string {
	return fmt.Sprintf("/api/files/download/version/%s?program_id=%d", url.PathEscape(version), programID)
}

var ErrUnauthorized = errors.New("not authenticated")

// RequireToken guards calls that need a session.
func (g *Gateway) RequireToken() error {
	if g.Token == "" {
		return ErrUnauthorized
	}
	return nil
}
