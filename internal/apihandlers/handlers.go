package apihandlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"triage/internal/app"
	"triage/internal/clix"
	"triage/internal/fileingest"
	"triage/internal/models"
	"triage/internal/services"
	"triage/internal/store"
	"triage/internal/util"
)

type APIHandler struct {
	App *app.App
}

func NewAPIHandler(app *app.App) *APIHandler {
	return &APIHandler{App: app}
}

// FileHandleRequest is one entry of a browser selection. lastModified is in
// milliseconds since the epoch, as browsers report it.
type FileHandleRequest struct {
	Name         string `json:"name"`
	RelativePath string `json:"relativePath"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mimeType"`
	LastModified int64  `json:"lastModified"`
}

type AddFilesRequest struct {
	Files []FileHandleRequest `json:"files"`
}

type ScanRequest struct {
	Dir           string `json:"dir"`
	IncludeHidden *bool  `json:"includeHidden,omitempty"`
	MaxFiles      *int   `json:"maxFiles,omitempty"`
}

// FileResponse is a tracked file as the browser sees it. lastModified is in
// milliseconds since the epoch, the same unit AddFilesHandler accepts.
type FileResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	SizeHuman    string `json:"sizeHuman"`
	MimeType     string `json:"mimeType"`
	TypeLabel    string `json:"typeLabel"`
	LastModified int64  `json:"lastModified"`
	Category     string `json:"category"`
	Summary      string `json:"summary"`
}

func newFileResponse(f *models.TrackedFile) FileResponse {
	return FileResponse{
		ID:           f.ID,
		Name:         f.Name,
		Path:         f.Path,
		Size:         f.Size,
		SizeHuman:    util.FormatBytes(f.Size, 2),
		MimeType:     f.MimeType,
		TypeLabel:    util.TypeOrUnknown(f.MimeType),
		LastModified: f.LastModified.UnixMilli(),
		Category:     f.Category,
		Summary:      f.Summary,
	}
}

// AddFilesHandler registers a selection event sent by a browser.
func (h *APIHandler) AddFilesHandler(c *gin.Context) {
	var req AddFilesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	handles := make([]models.FileHandle, 0, len(req.Files))
	for i, f := range req.Files {
		if f.Name == "" {
			BadRequest(c, fmt.Sprintf("files[%d]: name is required", i))
			return
		}
		handles = append(handles, models.FileHandle{
			Name:         f.Name,
			RelativePath: f.RelativePath,
			Size:         f.Size,
			MimeType:     f.MimeType,
			LastModified: time.UnixMilli(f.LastModified),
		})
	}

	added := h.App.AnalysisService.AddFiles(handles)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"added": added, "total": h.App.Registry.Len()}})
}

// ScanHandler selects a folder on the machine running the server.
func (h *APIHandler) ScanHandler(c *gin.Context) {
	var req ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.Dir == "" {
		BadRequest(c, "missing required field: dir")
		return
	}

	opts := h.App.ScanOptions()
	if req.IncludeHidden != nil {
		opts.IncludeHidden = *req.IncludeHidden
	}
	if req.MaxFiles != nil {
		if *req.MaxFiles < 0 {
			BadRequest(c, "maxFiles must not be negative")
			return
		}
		opts.MaxFiles = *req.MaxFiles
	}

	handles, err := fileingest.DiscoverFiles(c.Request.Context(), req.Dir, opts)
	if err != nil {
		BadRequest(c, fmt.Sprintf("Failed to scan directory: %v", err))
		return
	}

	added := h.App.AnalysisService.AddFiles(handles)
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"discovered": len(handles),
		"added":      added,
		"total":      h.App.Registry.Len(),
	}})
}

// ListFilesHandler lists tracked files, optionally filtered by ?category=.
func (h *APIHandler) ListFilesHandler(c *gin.Context) {
	pagination, err := parsePagination(c)
	if err != nil {
		BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	category := c.DefaultQuery("category", models.CategoryAll)
	files := h.App.Registry.FilterBy(category)
	total := len(files)
	files = clix.Page(files, pagination)

	items := make([]FileResponse, len(files))
	for i, f := range files {
		items[i] = newFileResponse(f)
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total})
}

// GetFileHandler returns the details of one tracked file.
func (h *APIHandler) GetFileHandler(c *gin.Context) {
	id := c.Param("id")
	f, err := h.App.Registry.Get(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			NotFound(c, fmt.Sprintf("File not found with ID: %s", id))
		} else {
			Internal(c, fmt.Sprintf("GetFileHandler: failed to retrieve file: %v", err))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": newFileResponse(f)})
}

// ClearFilesHandler drops every tracked file and the last analysis error.
func (h *APIHandler) ClearFilesHandler(c *gin.Context) {
	h.App.AnalysisService.Clear()
	c.Status(http.StatusNoContent)
}

// CategoriesHandler lists "All" and the categories present with counts.
func (h *APIHandler) CategoriesHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.App.Registry.CategoryCounts()})
}

// AnalyzeHandler runs one analysis cycle. The cycle is not cancelled when
// the client goes away.
func (h *APIHandler) AnalyzeHandler(c *gin.Context) {
	ctx := context.WithoutCancel(c.Request.Context())
	outcome, err := h.App.AnalysisService.Analyze(ctx)
	if err != nil {
		AnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": outcome})
}

// AnalysisStatusHandler reports whether a cycle is running and the last error.
func (h *APIHandler) AnalysisStatusHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"state":         h.App.AnalysisService.State(),
		"lastCycle":     h.App.AnalysisService.LastCycleStatus(),
		"error":         services.UserMessage(h.App.AnalysisService.LastError()),
		"uncategorized": len(h.App.Registry.Uncategorized()),
	}})
}

// UsageHandler reports the AI usage recorded during this process.
func (h *APIHandler) UsageHandler(c *gin.Context) {
	ctx := c.Request.Context()
	total, err := h.App.CostTracker.TotalCost(ctx)
	if err != nil {
		Internal(c, fmt.Sprintf("UsageHandler: failed to compute total cost: %v", err))
		return
	}
	events, err := h.App.CostTracker.Events(ctx)
	if err != nil {
		Internal(c, fmt.Sprintf("UsageHandler: failed to list usage: %v", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"totalCostUsd": total, "events": events}})
}

func parsePagination(c *gin.Context) (clix.PaginationParams, error) {
	var p clix.PaginationParams
	if l := c.Query("limit"); l != "" {
		parsed, err := strconv.Atoi(l)
		if err != nil || parsed < 0 {
			return p, fmt.Errorf("invalid limit: %s", l)
		}
		p.Limit = parsed
	}
	if o := c.Query("offset"); o != "" {
		parsed, err := strconv.Atoi(o)
		if err != nil || parsed < 0 {
			return p, fmt.Errorf("invalid offset: %s", o)
		}
		p.Offset = parsed
	}
	return p, nil
}
