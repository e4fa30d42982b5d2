package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"triage/internal/models"
	"triage/internal/services"
	"triage/pkg/categorizer"
)

// APIError is the body of every failed request. Message is meant to be shown
// to the user as is.
// Example: { "error": { "code": "configuration_error", "message": "API key not found. ..." } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

const (
	codeBadRequest     = "bad_request"
	codeNotFound       = "not_found"
	codeConflict       = "conflict"
	codeInternal       = "internal_error"
	codeConfiguration  = "configuration_error"
	codeTransport      = "transport_error"
	codeCategorization = "categorization_error"
)

// JSONError aborts the request with the error envelope.
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.AbortWithStatusJSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, codeBadRequest, msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, codeNotFound, msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, codeInternal, msg)
}

func Conflict(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusConflict, codeConflict, msg)
}

// AnalysisError answers a failed analysis trigger. Guard failures are client
// errors, a missing credential makes the service unavailable and anything
// the AI service got wrong is a bad gateway.
func AnalysisError(ctx *gin.Context, err error) {
	msg := services.UserMessage(err)
	switch {
	case errors.Is(err, models.ErrNoFiles), errors.Is(err, models.ErrAllAnalyzed):
		BadRequest(ctx, msg)
	case errors.Is(err, models.ErrAnalysisInProgress):
		Conflict(ctx, msg)
	case errors.Is(err, categorizer.ErrConfiguration):
		JSONError(ctx, http.StatusServiceUnavailable, codeConfiguration, msg)
	case errors.Is(err, categorizer.ErrTransport):
		log.Errorf("Analysis failed: %v", err)
		JSONError(ctx, http.StatusBadGateway, codeTransport, msg)
	case errors.Is(err, categorizer.ErrCategorization):
		log.Errorf("Analysis failed: %v", err)
		JSONError(ctx, http.StatusBadGateway, codeCategorization, msg)
	default:
		log.Errorf("Analysis failed: %v", err)
		Internal(ctx, msg)
	}
}
