package response

import (
	"errors"
	"net/http"
	"time"

	"gyro-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SuccessResponse is the envelope every successful ledger read or write
// returns. Handlers put the DTO under Data; the request id ties the reply
// back to the access log.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse carries the stable error code (LGR_, REG_, SEC_, VAL_, SYS_)
// that clients branch on. Message is human-readable and may change; the
// code is contract.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 with the success envelope.
func OK(c *gin.Context, data interface{}) {
	writeSuccess(c, http.StatusOK, data)
}

// Created sends a 201 with the success envelope.
func Created(c *gin.Context, data interface{}) {
	writeSuccess(c, http.StatusCreated, data)
}

func writeSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Error maps an *apperror.AppError to its HTTP status and error code.
// Anything else is masked as an opaque 500 so internal detail never
// reaches a client.
func Error(c *gin.Context, err error) {
	code, message, status := "SYS_000", "Internal server error", http.StatusInternalServerError

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		code, message, status = appErr.Code, appErr.Message, appErr.HTTPStatus
	}

	c.JSON(status, ErrorResponse{
		ErrorCode: code,
		Message:   message,
		RequestID: getRequestID(c),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func getRequestID(c *gin.Context) string {
	if id, exists := c.Get("request_id"); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
