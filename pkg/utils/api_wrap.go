package utils

import (
	"errors"
	"github.com/gin-gonic/gin"
	"log"
	"net/http"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func traceID(c *gin.Context) string {
	if v, ok := c.Get("trace_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondAccepted(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusAccepted, APIResponse{
		Status:  "accepted",
		Code:    http.StatusAccepted,
		Message: message,
		TraceID: traceID(c),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: traceID(c),
	})
}

func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAlreadyPlaced):
		RespondError(c, http.StatusConflict, "Distributor is already placed in the matrix")
	case errors.Is(err, ErrMatrixFull):
		// The distributor keeps a friendly message; placement is queued by ops.
		RespondAccepted(c, nil, "Your signup is being placed in the next available position")
	case errors.Is(err, ErrDistributorNotFound):
		RespondError(c, http.StatusNotFound, "Distributor not found")
	case errors.Is(err, ErrOrderNotFound):
		RespondError(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, ErrNoCommissionableItems):
		RespondError(c, http.StatusUnprocessableEntity, "Order has no commissionable items")
	case errors.Is(err, ErrPaymentNotFound):
		RespondError(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, ErrEmptyPayoutBatch):
		RespondError(c, http.StatusUnprocessableEntity, "No approved commissions to pay out")
	case errors.Is(err, ErrPaymentNotRetryable):
		RespondError(c, http.StatusConflict, "Payment is not in a retryable state")
	case errors.Is(err, ErrAutoshipNotFound):
		RespondError(c, http.StatusNotFound, "Autoship not found")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
