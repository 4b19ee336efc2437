package api

import (
	"encoding/json"
	"net/http"
)

// Fixed messages for responses that do not come from a pipeline.
const (
	MessageInternalError = "Internal Server Error"
	MessageIPUpstream    = "Failed to fetch IP"
)

// respondJSON writes a JSON response with the given status code and data.
// If data is nil, only the status code and Content-Type header are written.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondMessage writes {"message": message} with the given status code.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}
