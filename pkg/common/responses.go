package common

import (
	"encoding/json"
	"net/http"
)

// ErrorResponse is the standard error wire format
type ErrorResponse struct {
	Error   bool                   `json:"error"`
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// RespondError sends an error response in the standard shape
func RespondError(w http.ResponseWriter, status int, errType, message string) {
	RespondJSON(w, status, ErrorResponse{
		Error:   true,
		Type:    errType,
		Message: message,
	})
}

// ParseJSONBody parses a JSON request body with a size limit and rejects
// unknown fields
func ParseJSONBody(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	return decoder.Decode(v)
}
