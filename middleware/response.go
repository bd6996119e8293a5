package middleware

import (
	"encoding/json"
	"net/http"
)

// writeSecurityJSON renders a rejection payload: the message plus any
// extra fields, flattened into a single JSON object.
func writeSecurityJSON(w http.ResponseWriter, status int, message string, extra map[string]any) {
	payload := make(map[string]any, len(extra)+1)
	payload["message"] = message
	for k, v := range extra {
		payload[k] = v
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	// Encoding a flat string map cannot fail; the error is ignored the
	// same way the response writer's own short-write would be.
	_ = json.NewEncoder(w).Encode(payload)
}
