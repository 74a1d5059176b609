package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/ikkim/variant-editor/internal/app/service"
)

// ErrorInfo is the client-facing form of an error.
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError maps a service error to a status, code and message without
// leaking internals. context names the failed action ("export", "import").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{
			Status:  http.StatusInternalServerError,
			Code:    InternalServerError,
			Message: "Something went wrong",
		}
	}

	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return ErrorInfo{Status: http.StatusNotFound, Code: SessionNotFound, Message: "Session not found"}
	case errors.Is(err, service.ErrInvalidOptionSheet):
		return ErrorInfo{Status: http.StatusBadRequest, Code: ImportInvalidSheet, Message: "The file is not a valid option sheet"}
	case errors.Is(err, service.ErrExportStorageDisabled):
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: ExportStorageDisabled, Message: "Export storage is not configured"}
	}

	errLower := strings.ToLower(err.Error())
	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{
			Status:  http.StatusBadGateway,
			Code:    InternalExternalAPI,
			Message: "Could not reach object storage. Please try again later",
		}
	}

	return ErrorInfo{
		Status:  http.StatusInternalServerError,
		Code:    defaultCode(context),
		Message: defaultMessage(context),
	}
}

func defaultCode(context string) string {
	if strings.Contains(strings.ToLower(context), "export") {
		return ExportFailed
	}
	return InternalServerError
}

func defaultMessage(context string) string {
	contextLower := strings.ToLower(context)

	if strings.Contains(contextLower, "export") {
		return "Export failed. Please try again later"
	}
	if strings.Contains(contextLower, "import") {
		return "Import failed. Please try again later"
	}
	return "Something went wrong. Please try again later"
}

// ParseAndRespond writes the parsed error to c.
func ParseAndRespond(c interface{ JSON(int, interface{}) }, err error, context string) {
	errorInfo := ParseError(err, context)
	c.JSON(errorInfo.Status, ErrorResponse{
		Error:   errorInfo.Code,
		Message: errorInfo.Message,
	})
}
