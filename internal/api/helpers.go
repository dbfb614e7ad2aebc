package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/eletters/backend/internal/auth"
)

// GetPrincipalFromContext extracts the acting principal's id from context
// and writes a 401 when it is missing. Returns (principalID, true) on
// success. Shared across handlers to keep the error handling consistent.
func GetPrincipalFromContext(ctx context.Context, w http.ResponseWriter) (string, bool) {
	principalID, ok := auth.GetPrincipalIDFromContext(ctx)
	if !ok {
		log.Println("API: No principal in context")
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return "", false
	}

	return principalID, true
}

// WriteJSON encodes v as the JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("API: Failed to encode response: %v", err)
	}
}
