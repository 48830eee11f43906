package controllers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"cyclesafe-be/middlewares"
	"cyclesafe-be/models"

	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code   string              `json:"code"`
	Error  string              `json:"error"`
	Fields []models.FieldError `json:"fields,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeError(c *gin.Context, status int, code, message string, fields []models.FieldError) {
	c.AbortWithStatusJSON(status, errorResponse{Code: code, Error: message, Fields: fields})
}

// handleError maps a service error onto a status code. resource names what
// was looked up, for the 404 message.
func handleError(c *gin.Context, logger *slog.Logger, err error, resource string) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		logger.Debug("validation failed",
			slog.String("request_id", middlewares.RequestID(c)),
			slog.Any("fields", verr.FieldNames()))
		writeError(c, http.StatusBadRequest, "validation_error", verr.Error(), verr.Fields)
	case errors.Is(err, models.ErrUnauthorized):
		msg := "User not authenticated"
		if resource == "User" {
			msg = "Invalid credentials"
		}
		writeError(c, http.StatusUnauthorized, "unauthorized", msg, nil)
	case errors.Is(err, models.ErrNotFound):
		writeError(c, http.StatusNotFound, "not_found", resource+" not found", nil)
	case errors.Is(err, models.ErrConflict):
		writeError(c, http.StatusConflict, "conflict", resource+" already exists", nil)
	default:
		logger.Error("request failed",
			slog.String("request_id", middlewares.RequestID(c)),
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()))
		writeError(c, http.StatusInternalServerError, "internal_error", "Something went wrong", nil)
	}
}

// bindJSON decodes the body into dst. It writes the error response itself and
// reports whether the handler should go on.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &tooLarge):
		writeError(c, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", nil)
	case errors.As(err, &typeErr) && typeErr.Field != "":
		writeError(c, http.StatusBadRequest, "validation_error", typeErr.Field+" has the wrong type",
			[]models.FieldError{{Field: typeErr.Field, Message: "has the wrong type"}})
	case errors.Is(err, io.EOF):
		writeError(c, http.StatusBadRequest, "invalid_json", "request body is required", nil)
	default:
		writeError(c, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
	}
	return false
}
