package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeRateLimited        ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"

	CodeOK      = ErrorCode("OK")
	CodeUnknown = ErrorCode("UNKNOWN")
)

// Substituent table error codes
const (
	ErrCodeSubstituentMalformedLine    ErrorCode = "SUB_001"
	ErrCodeSubstituentSourceNotFound   ErrorCode = "SUB_002"
	ErrCodeSubstituentSourceUnreadable ErrorCode = "SUB_003"
	ErrCodeSubstituentPositionUnknown  ErrorCode = "SUB_004"
)

// Template / derivative error codes
const (
	ErrCodeTemplatePlaceholderInvalid  ErrorCode = "TPL_001"
	ErrCodeTemplateEmpty               ErrorCode = "TPL_002"
	ErrCodeDerivativeLimitExceeded     ErrorCode = "DRV_001"
	ErrCodeDerivativeWriteFailed       ErrorCode = "DRV_002"
	ErrCodeDerivativeFormatUnsupported ErrorCode = "DRV_003"
)

// Docking workspace error codes
const (
	ErrCodeScoreReportInvalid ErrorCode = "DOCK_001"
	ErrCodeWorkspaceLayout    ErrorCode = "DOCK_002"
	ErrCodeReceptorInvalid    ErrorCode = "DOCK_003"
	ErrCodeBoxConfigInvalid   ErrorCode = "DOCK_004"
)

// Structure file error codes
const (
	ErrCodeStructureFileNotFound     ErrorCode = "STRUCT_001"
	ErrCodeStructureParseFailed      ErrorCode = "STRUCT_002"
	ErrCodeStructureModelNotFound    ErrorCode = "STRUCT_003"
	ErrCodeStructureConversionFailed ErrorCode = "STRUCT_004"
)

// Infrastructure error codes
const (
	ErrCodeStorageError      ErrorCode = "STO_001"
	ErrCodeMessageQueueError ErrorCode = "STO_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeRateLimited:        http.StatusTooManyRequests,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusBadGateway,

	ErrCodeSubstituentMalformedLine:    http.StatusUnprocessableEntity,
	ErrCodeSubstituentSourceNotFound:   http.StatusNotFound,
	ErrCodeSubstituentSourceUnreadable: http.StatusInternalServerError,
	ErrCodeSubstituentPositionUnknown:  http.StatusBadRequest,

	ErrCodeTemplatePlaceholderInvalid:  http.StatusBadRequest,
	ErrCodeTemplateEmpty:               http.StatusBadRequest,
	ErrCodeDerivativeLimitExceeded:     http.StatusUnprocessableEntity,
	ErrCodeDerivativeWriteFailed:       http.StatusInternalServerError,
	ErrCodeDerivativeFormatUnsupported: http.StatusBadRequest,

	ErrCodeScoreReportInvalid: http.StatusUnprocessableEntity,
	ErrCodeWorkspaceLayout:    http.StatusConflict,
	ErrCodeReceptorInvalid:    http.StatusBadRequest,
	ErrCodeBoxConfigInvalid:   http.StatusBadRequest,

	ErrCodeStructureFileNotFound:     http.StatusNotFound,
	ErrCodeStructureParseFailed:      http.StatusUnprocessableEntity,
	ErrCodeStructureModelNotFound:    http.StatusNotFound,
	ErrCodeStructureConversionFailed: http.StatusInternalServerError,

	ErrCodeStorageError:      http.StatusInternalServerError,
	ErrCodeMessageQueueError: http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeRateLimited:        "rate limit exceeded",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",

	ErrCodeSubstituentMalformedLine:    "malformed substituent definition line",
	ErrCodeSubstituentSourceNotFound:   "substituent definition source not found",
	ErrCodeSubstituentSourceUnreadable: "substituent definition source unreadable",
	ErrCodeSubstituentPositionUnknown:  "unknown substituent position",

	ErrCodeTemplatePlaceholderInvalid:  "invalid placeholder token",
	ErrCodeTemplateEmpty:               "template must not be empty",
	ErrCodeDerivativeLimitExceeded:     "derivative count exceeds configured limit",
	ErrCodeDerivativeWriteFailed:       "failed to persist derivative",
	ErrCodeDerivativeFormatUnsupported: "unsupported derivative output format",

	ErrCodeScoreReportInvalid: "invalid score report",
	ErrCodeWorkspaceLayout:    "unexpected workspace layout",
	ErrCodeReceptorInvalid:    "invalid receptor file",
	ErrCodeBoxConfigInvalid:   "invalid docking box configuration",

	ErrCodeStructureFileNotFound:     "structure file not found",
	ErrCodeStructureParseFailed:      "failed to parse structure file",
	ErrCodeStructureModelNotFound:    "structure model not found",
	ErrCodeStructureConversionFailed: "structure format conversion failed",

	ErrCodeStorageError:      "object storage error",
	ErrCodeMessageQueueError: "message queue error",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
