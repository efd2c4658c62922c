package handlers

import (
	"encoding/json"
	"net/http"
)

// Healthcheck answers liveness checks. It touches no dependency.
func Healthcheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Method not available: " + r.Method})
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "alive", "service": "api"})
}
