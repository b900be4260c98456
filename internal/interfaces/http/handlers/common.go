package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// ErrorResponse is the standard error response body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// writeAppError maps an error to the HTTP status of its code.  Server-side
// failures are logged and masked.
func writeAppError(w http.ResponseWriter, logger logging.Logger, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", logging.Err(err), logging.String("code", code.String()))
		writeJSON(w, status, ErrorResponse{
			Code:    errors.ErrCodeInternal.String(),
			Message: "internal server error",
		})
		return
	}

	resp := ErrorResponse{Code: code.String(), Message: err.Error()}
	var ae *errors.AppError
	if errors.As(err, &ae) {
		resp.Message = ae.Message
		resp.Detail = ae.Detail
	}
	writeJSON(w, status, resp)
}

// decodeJSON reads a JSON body of at most maxBytes into dst.
func decodeJSON(r *http.Request, maxBytes int64, dst interface{}) error {
	body := io.Reader(r.Body)
	if maxBytes > 0 {
		body = io.LimitReader(r.Body, maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return errors.InvalidParam("failed to read request body").WithCause(err)
	}
	if maxBytes > 0 && int64(len(data)) > maxBytes {
		return errors.InvalidParam("request body too large")
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return errors.InvalidParam("invalid request body").WithCause(err)
	}
	return nil
}

//Personal.AI order the ending
