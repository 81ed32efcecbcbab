package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fxamacker/cbor/v2"
	"github.com/gin-gonic/gin"
	apperrors "github.com/ironsheep/image-stats/internal/errors"
	"github.com/ironsheep/image-stats/internal/logger"
	"github.com/sirupsen/logrus"
)

// MIMECBOR is the media type of CBOR-encoded responses.
const MIMECBOR = "application/cbor"

type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

// render writes v as JSON, or as CBOR when the client prefers it.
func render(c *gin.Context, code int, v any) {
	if c.NegotiateFormat(gin.MIMEJSON, MIMECBOR) != MIMECBOR {
		c.JSON(code, v)
		return
	}

	data, err := cbor.Marshal(v)
	if err != nil {
		respondError(c, "failed to encode response", apperrors.NewInternalError("cbor encoding failed", err))
		return
	}
	c.Data(code, MIMECBOR, data)
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &appErr):
		return appErr.StatusCode
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// bodyError classifies a failure to read or bind the request body.
func bodyError(err error) error {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return err
	}
	return apperrors.NewValidationError("invalid request format", err)
}

func newErrorResponse(code int, message string, err error) *ErrorResponse {
	resp := &ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Type = string(appErr.Type)
	}
	return resp
}

func respondError(c *gin.Context, message string, err error) {
	code := determineStatusCode(err)

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
		"request_id":  c.GetString(requestIDKey),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, newErrorResponse(code, message, err))
}
