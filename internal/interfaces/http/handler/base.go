package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stocktrack/backend/internal/domain/shared"
	"github.com/stocktrack/backend/internal/interfaces/http/dto"
	"github.com/stocktrack/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a 200 success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// BindingError converts a gin binding failure into a validation response
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.FormatValidationErrors(err, getRequestID(c)))
}

// HandleError maps engine and domain errors to HTTP responses:
// unknown product -> 404, malformed request -> 400, business rejection
// (insufficient stock, sale cap) -> 422 with quantities in the details,
// storage and ledger failures -> 500 with a stable code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var stockErr *shared.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponseWithDetails(
			dto.ErrCodeInsufficientStock,
			stockErr.Error(),
			requestID,
			stockErr,
		))
		return
	}

	var persistErr *shared.PersistenceError
	if errors.As(err, &persistErr) {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodePersistence,
			"Storage rejected the operation, no changes were applied",
			requestID,
		))
		return
	}

	var ledgerErr *shared.LedgerError
	if errors.As(err, &ledgerErr) {
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeLedger,
			"Transaction record could not be written, stock and ledger need reconciliation",
			requestID,
		))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		c.JSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, domainErr.Message, requestID))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal,
		"An unexpected error occurred",
		requestID,
	))
}
