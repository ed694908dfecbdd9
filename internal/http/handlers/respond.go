package handlers

import (
	"net/http"

	"github.com/geocoder89/designhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

type errorEnvelope struct {
	Error APIError `json:"error"`
}

func requestIDFrom(ctx *gin.Context) string {
	if id := ctx.GetString(middlewares.CtxRequestID); id != "" {
		return id
	}
	// handlers mounted without RequestID
	return ctx.GetHeader("X-Request-Id")
}

// RespondError writes the shared error envelope. Messages are client-safe;
// causes go through ctx.Error to the request log.
func RespondError(ctx *gin.Context, status int, code, message string, details any) {
	ctx.JSON(status, errorEnvelope{Error: APIError{
		Code:      code,
		Message:   message,
		RequestID: requestIDFrom(ctx),
		Details:   details,
	}})
}

func RespondBadRequest(ctx *gin.Context, message string, details any) {
	RespondError(ctx, http.StatusBadRequest, "invalid_request", message, details)
}

func RespondUnAuthorized(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusUnauthorized, code, message, nil)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, "not_found", message, nil)
}

func RespondConflict(ctx *gin.Context, code, message string) {
	RespondError(ctx, http.StatusConflict, code, message, nil)
}

func RespondPayloadTooLarge(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusRequestEntityTooLarge, "payload_too_large", message, nil)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, "internal_error", message, nil)
}

// RespondInternalErr records err for the request logger, then answers 500.
func RespondInternalErr(ctx *gin.Context, err error, message string) {
	if err != nil {
		_ = ctx.Error(err)
	}
	RespondInternal(ctx, message)
}
