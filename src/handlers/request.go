package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/username/tradewhatif/src/logger"
	"github.com/username/tradewhatif/src/processors"
	"github.com/username/tradewhatif/src/security/validation"
	"github.com/username/tradewhatif/src/services"
	"github.com/username/tradewhatif/src/utils"
)

var errEmptyBody = errors.New("request body is empty")

// decodeJSONBody reads a single JSON document from the request body into dst.
func decodeJSONBody(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errEmptyBody
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return err
	}
	return nil
}

// sendDecodeError answers a body that could not be decoded.
func sendDecodeError(w http.ResponseWriter, r *http.Request, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		logger.FromContext(r.Context()).Warn("Request body too large", "path", r.URL.Path, "limit", maxBytesErr.Limit)
		utils.SendJSONError(w, fmt.Sprintf("Request body too large (max %d bytes)", maxBytesErr.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	logger.FromContext(r.Context()).Warn("Invalid JSON request body", "path", r.URL.Path, "error", err)
	utils.SendJSONError(w, fmt.Sprintf("Invalid request body: %v", err), http.StatusBadRequest)
}

// sendServiceError maps service-layer failures onto HTTP status codes.
func sendServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidRequest), errors.Is(err, validation.ErrValidationFailed), errors.Is(err, processors.ErrInvalidPrice):
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, services.ErrNoAnalysis):
		utils.SendJSONError(w, "No analysed trades found. Parse emails first.", http.StatusNotFound)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		logger.FromContext(r.Context()).Warn("Request aborted before completion", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "Request cancelled or timed out", http.StatusServiceUnavailable)
	case errors.Is(err, services.ErrPriceUnavailable):
		utils.SendJSONError(w, "Current prices are temporarily unavailable", http.StatusServiceUnavailable)
	default:
		logger.FromContext(r.Context()).Error("Internal error handling request", "path", r.URL.Path, "error", err)
		utils.SendJSONError(w, "An internal error occurred. Please try again later.", http.StatusInternalServerError)
	}
}
