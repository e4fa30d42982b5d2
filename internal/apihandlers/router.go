package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the API under /api/v1 plus /health.
func RegisterRoutes(router *gin.Engine, h *APIHandler) {
	v1 := router.Group("/api/v1")
	{
		files := v1.Group("/files")
		{
			files.POST("", h.AddFilesHandler)
			files.GET("", h.ListFilesHandler)
			files.GET("/:id", h.GetFileHandler)
			files.DELETE("", h.ClearFilesHandler)
		}

		v1.POST("/scan", h.ScanHandler)
		v1.GET("/categories", h.CategoriesHandler)

		v1.POST("/analyze", h.AnalyzeHandler)
		v1.GET("/analysis", h.AnalysisStatusHandler)

		v1.GET("/usage", h.UsageHandler)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
