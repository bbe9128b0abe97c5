package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/sukraa/prescription-ai-backend/pkg/errors"
)

// ErrorBody is the error response shape returned to API clients.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSON sends a JSON response
func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// Error sends an error response. AppErrors carry their own status code;
// anything else becomes a 500 with a generic message.
func Error(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.StatusCode, ErrorBody{Detail: appErr.Message})
		return
	}

	JSON(w, http.StatusInternalServerError, ErrorBody{Detail: "an unexpected error occurred"})
}

// DecodeJSON decodes the request body into the provided struct
func DecodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.BadRequest("invalid JSON body")
	}
	return nil
}
