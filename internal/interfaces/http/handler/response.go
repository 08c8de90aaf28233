// Package handler contains the HTTP handlers of the REST API.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/hapkiduki/boxspec-go/internal/application/dto"
	"github.com/hapkiduki/boxspec-go/internal/application/port"
	"github.com/hapkiduki/boxspec-go/internal/application/service"
	"github.com/hapkiduki/boxspec-go/internal/domain/calculator"
	"github.com/hapkiduki/boxspec-go/internal/domain/entity"
	"github.com/hapkiduki/boxspec-go/internal/domain/repository"
	"github.com/hapkiduki/boxspec-go/internal/interfaces/http/middleware"
)

// Error codes returned in APIError.Code.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeVersionConflict = "VERSION_CONFLICT"
	CodeUnavailable     = "SERVICE_UNAVAILABLE"
	CodeMethodNotAllow  = "METHOD_NOT_ALLOWED"
	CodeInternal        = "INTERNAL_ERROR"
)

func meta(r *http.Request, version string) *dto.ResponseMeta {
	return &dto.ResponseMeta{
		RequestID: middleware.GetRequestID(r.Context()),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   version,
	}
}

func respond[T any](w http.ResponseWriter, r *http.Request, status int, resp dto.APIResponse[T], version string) {
	resp.Meta = meta(r, version)
	render.Status(r, status)
	render.JSON(w, r, resp)
}

func respondData[T any](w http.ResponseWriter, r *http.Request, status int, data T, version string) {
	respond(w, r, status, dto.NewSuccessResponse(data), version)
}

func respondCode(w http.ResponseWriter, r *http.Request, status int, code, message, version string) {
	respond(w, r, status, dto.NewErrorResponse[any](code, message), version)
}

// respondError maps application errors onto HTTP statuses.
//
// Parameters:
//   - log: receives unexpected errors
//   - err: error returned by the service layer
func respondError(w http.ResponseWriter, r *http.Request, log port.Logger, err error, version string) {
	var verr *calculator.ValidationError
	switch {
	case errors.As(err, &verr):
		respond(w, r, http.StatusBadRequest, dto.NewValidationErrorResponse[any](verr), version)
	case entity.IsValidationError(err):
		respondCode(w, r, http.StatusBadRequest, CodeValidation, err.Error(), version)
	case repository.IsNotFoundError(err):
		respondCode(w, r, http.StatusNotFound, CodeNotFound, err.Error(), version)
	case errors.Is(err, repository.ErrOptimisticLock):
		respondCode(w, r, http.StatusConflict, CodeVersionConflict, "The box template was modified; reload it and retry", version)
	case repository.IsDuplicateError(err):
		respondCode(w, r, http.StatusConflict, CodeConflict, err.Error(), version)
	case errors.Is(err, service.ErrTemplatesUnavailable):
		respondCode(w, r, http.StatusServiceUnavailable, CodeUnavailable, err.Error(), version)
	default:
		log.WithContext(r.Context()).Error("Request failed", "path", r.URL.Path, "error", err)
		respondCode(w, r, http.StatusInternalServerError, CodeInternal, "An unexpected error occurred", version)
	}
}

// NotFound handles 404 responses.
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondCode(w, r, http.StatusNotFound, CodeNotFound, "The requested resource was not found", "")
}

// MethodNotAllowed handles 405 responses.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondCode(w, r, http.StatusMethodNotAllowed, CodeMethodNotAllow, "The requested method is not allowed for this resource", "")
}
