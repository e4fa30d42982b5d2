package apihandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"triage/internal/app"
	"triage/internal/config"
	"triage/internal/models"
	"triage/internal/services"
	"triage/pkg/categorizer"
)

type stubTransport struct {
	text  string
	err   error
	calls int
}

func (s *stubTransport) Name() string { return "stub" }

func (s *stubTransport) Generate(ctx context.Context, req categorizer.Request) (categorizer.Response, error) {
	s.calls++
	if s.err != nil {
		return categorizer.Response{}, s.err
	}
	return categorizer.Response{Text: s.text}, nil
}

func setupRouter(t *testing.T, apiKey string, transport *stubTransport) (*gin.Engine, *app.App) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Categorization.Provider = config.ProviderGemini
	cfg.Categorization.GoogleApiKey = apiKey
	cfg.Server.Port = "8080"
	cfg.Log.Level = "info"

	a, err := app.NewAppWithTransport(cfg, transport)
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router, NewAPIHandler(a))
	return router, a
}

func doJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func addFiles(t *testing.T, router *gin.Engine, names ...string) {
	t.Helper()
	files := make([]FileHandleRequest, len(names))
	for i, n := range names {
		files[i] = FileHandleRequest{Name: n, Size: 2048, LastModified: 1700000000000 + int64(i)}
	}
	w := doJSON(router, http.MethodPost, "/api/v1/files", AddFilesRequest{Files: files})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestAddFilesHandler(t *testing.T) {
	router, a := setupRouter(t, "key", &stubTransport{})

	body := AddFilesRequest{Files: []FileHandleRequest{
		{Name: "a.pdf", Size: 10, LastModified: 1000},
		{Name: "a.pdf", Size: 10, LastModified: 1000},
		{Name: "b.png", Size: 20, LastModified: 2000},
	}}
	w := doJSON(router, http.MethodPost, "/api/v1/files", body)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			Added int `json:"added"`
			Total int `json:"total"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Data.Added)
	assert.Equal(t, 2, resp.Data.Total)
	assert.Equal(t, 2, a.Registry.Len())

	t.Run("missing name", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/files", AddFilesRequest{Files: []FileHandleRequest{{Size: 1}}})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "bad_request", decodeError(t, w).Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/files", bytes.NewBufferString("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestScanHandler(t *testing.T) {
	router, a := setupRouter(t, "key", &stubTransport{})

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("x"), 0o644))

	w := doJSON(router, http.MethodPost, "/api/v1/scan", ScanRequest{Dir: dir})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, a.Registry.Len())

	t.Run("missing dir", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/scan", ScanRequest{})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("nonexistent dir", func(t *testing.T) {
		w := doJSON(router, http.MethodPost, "/api/v1/scan", ScanRequest{Dir: filepath.Join(dir, "nope")})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListAndGetFiles(t *testing.T) {
	transport := &stubTransport{text: `[{"fileName":"a.pdf","category":"Document","summary":"A PDF."}]`}
	router, _ := setupRouter(t, "key", transport)
	addFiles(t, router, "a.pdf", "b.png")

	w := doJSON(router, http.MethodPost, "/api/v1/analyze", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var list struct {
		Items []FileResponse `json:"items"`
		Total int            `json:"total"`
	}

	w = doJSON(router, http.MethodGet, "/api/v1/files", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "2 KB", list.Items[0].SizeHuman)
	assert.Equal(t, "Unknown", list.Items[0].TypeLabel)

	w = doJSON(router, http.MethodGet, "/api/v1/files?category=Document", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "a.pdf", list.Items[0].Name)
	assert.Equal(t, "A PDF.", list.Items[0].Summary)

	w = doJSON(router, http.MethodGet, "/api/v1/files?category="+url.QueryEscape(models.CategoryUncategorized), nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "b.png", list.Items[0].Name)
	assert.Equal(t, models.SummaryNotAnalyzed, list.Items[0].Summary)

	w = doJSON(router, http.MethodGet, "/api/v1/files?limit=1&offset=1", nil)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "b.png", list.Items[0].Name)

	w = doJSON(router, http.MethodGet, "/api/v1/files?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	t.Run("get by id", func(t *testing.T) {
		id := list.Items[0].ID
		w := doJSON(router, http.MethodGet, "/api/v1/files/"+url.PathEscape(id), nil)
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Data FileResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "b.png", resp.Data.Name)
	})

	t.Run("get missing", func(t *testing.T) {
		w := doJSON(router, http.MethodGet, "/api/v1/files/nope-1", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "not_found", decodeError(t, w).Code)
	})
}

func TestCategoriesAndClear(t *testing.T) {
	transport := &stubTransport{text: `[{"fileName":"a.pdf","category":"Document","summary":"A."},{"fileName":"b.png","category":"Image","summary":"B."}]`}
	router, a := setupRouter(t, "key", transport)
	addFiles(t, router, "a.pdf", "b.png")
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/v1/analyze", nil).Code)

	w := doJSON(router, http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Items []models.CategoryCount `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 3)
	assert.Equal(t, models.CategoryAll, resp.Items[0].Name)
	assert.Equal(t, 2, resp.Items[0].Count)
	assert.Equal(t, "Document", resp.Items[1].Name)
	assert.Equal(t, "Image", resp.Items[2].Name)

	w = doJSON(router, http.MethodDelete, "/api/v1/files", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, a.Registry.Len())
}

func TestAnalyzeHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		apiKey     string
		transport  *stubTransport
		files      []string
		wantStatus int
		wantCode   string
		wantCalls  int
	}{
		{
			name:       "no files",
			apiKey:     "key",
			transport:  &stubTransport{},
			wantStatus: http.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "missing credential",
			apiKey:     "",
			transport:  &stubTransport{text: `[]`},
			files:      []string{"a.txt"},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "configuration_error",
		},
		{
			name:       "transport failure",
			apiKey:     "key",
			transport:  &stubTransport{err: errors.New("connection refused")},
			files:      []string{"a.txt"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "transport_error",
			wantCalls:  1,
		},
		{
			name:       "unreadable response",
			apiKey:     "key",
			transport:  &stubTransport{text: "not json"},
			files:      []string{"a.txt"},
			wantStatus: http.StatusBadGateway,
			wantCode:   "categorization_error",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := setupRouter(t, tt.apiKey, tt.transport)
			if len(tt.files) > 0 {
				addFiles(t, router, tt.files...)
			}

			w := doJSON(router, http.MethodPost, "/api/v1/analyze", nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			apiErr := decodeError(t, w)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.NotEmpty(t, apiErr.Message)
			assert.Equal(t, tt.wantCalls, tt.transport.calls)
		})
	}
}

func TestAnalyzeHandler_AllAnalyzed(t *testing.T) {
	transport := &stubTransport{text: `[{"fileName":"a.txt","category":"Document","summary":"A."}]`}
	router, _ := setupRouter(t, "key", transport)
	addFiles(t, router, "a.txt")

	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/v1/analyze", nil).Code)

	w := doJSON(router, http.MethodPost, "/api/v1/analyze", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "All files have already been analyzed.", decodeError(t, w).Message)
	assert.Equal(t, 1, transport.calls)
}

func TestAnalysisStatusAndUsage(t *testing.T) {
	router, _ := setupRouter(t, "", &stubTransport{})
	addFiles(t, router, "a.txt")
	doJSON(router, http.MethodPost, "/api/v1/analyze", nil)

	w := doJSON(router, http.MethodGet, "/api/v1/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Data struct {
			State         string `json:"state"`
			LastCycle     string `json:"lastCycle"`
			Error         string `json:"error"`
			Uncategorized int    `json:"uncategorized"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, string(models.AnalysisStateIdle), status.Data.State)
	assert.Equal(t, models.CycleStatusFailed, status.Data.LastCycle)
	assert.Contains(t, status.Data.Error, "API key not found")
	assert.Equal(t, 1, status.Data.Uncategorized)

	w = doJSON(router, http.MethodGet, "/api/v1/usage", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalCostUsd":0`)

	w = doJSON(router, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearFilesHandler_ResetsAnalysisError(t *testing.T) {
	router, _ := setupRouter(t, "", &stubTransport{})
	addFiles(t, router, "a.txt")
	require.Equal(t, http.StatusServiceUnavailable, doJSON(router, http.MethodPost, "/api/v1/analyze", nil).Code)

	w := doJSON(router, http.MethodDelete, "/api/v1/files", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodGet, "/api/v1/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Data struct {
			LastCycle     string `json:"lastCycle"`
			Error         string `json:"error"`
			Uncategorized int    `json:"uncategorized"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Empty(t, status.Data.Error)
	assert.Empty(t, status.Data.LastCycle)
	assert.Zero(t, status.Data.Uncategorized)
}

func TestFileResponse_LastModifiedInMilliseconds(t *testing.T) {
	router, _ := setupRouter(t, "key", &stubTransport{})
	body := AddFilesRequest{Files: []FileHandleRequest{{Name: "a.txt", Size: 3, LastModified: 1700000000123}}}
	require.Equal(t, http.StatusOK, doJSON(router, http.MethodPost, "/api/v1/files", body).Code)

	w := doJSON(router, http.MethodGet, "/api/v1/files", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"lastModified":1700000000123`)

	var list struct {
		Items []FileResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	assert.Equal(t, "a.txt-1700000000123", list.Items[0].ID)
	assert.Equal(t, int64(1700000000123), list.Items[0].LastModified)
}

func TestAnalysisError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"no files", models.ErrNoFiles, http.StatusBadRequest, "bad_request"},
		{"all analyzed", models.ErrAllAnalyzed, http.StatusBadRequest, "bad_request"},
		{"in progress", models.ErrAnalysisInProgress, http.StatusConflict, "conflict"},
		{"configuration", categorizer.ErrConfiguration, http.StatusServiceUnavailable, "configuration_error"},
		{"transport", fmt.Errorf("%w: timeout", categorizer.ErrTransport), http.StatusBadGateway, "transport_error"},
		{"categorization", fmt.Errorf("%w: bad json", categorizer.ErrCategorization), http.StatusBadGateway, "categorization_error"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			AnalysisError(c, tt.err)

			assert.Equal(t, tt.wantStatus, w.Code)
			apiErr := decodeError(t, w)
			assert.Equal(t, tt.wantCode, apiErr.Code)
			assert.Equal(t, services.UserMessage(tt.err), apiErr.Message)
			assert.True(t, c.IsAborted())
		})
	}
}
