package auth

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type contextKey string

// PrincipalIDKey is the context key used to store the acting principal's id.
const PrincipalIDKey contextKey = "principal_id"

// RequirePrincipal middleware checks for a valid bearer token in the
// Authorization header. It resolves the token to the acting principal's
// opaque id and stores it in the request context for downstream handlers.
// Returns 401 Unauthorized if authentication fails.
func RequirePrincipal(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")

		if authHeader == "" {
			log.Println("Auth: No Authorization header present")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		// Parse Authorization header: "Bearer <token>" (RFC 7235)
		// Use strings.Fields to handle multiple spaces and trim whitespace
		// Bearer scheme is case-insensitive per RFC 7235
		fields := strings.Fields(authHeader)
		if len(fields) < 2 {
			log.Println("Auth: Invalid Authorization header format")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		if !strings.EqualFold(fields[0], "Bearer") {
			log.Println("Auth: Invalid Authorization header format")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		token := strings.TrimSpace(strings.Join(fields[1:], " "))
		if token == "" {
			log.Println("Auth: Empty token after Bearer")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		principalID, err := ValidateToken(token)
		if err != nil {
			log.Printf("Auth: Token validation failed: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalIDKey, principalID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetPrincipalIDFromContext returns the acting principal's id from the context.
func GetPrincipalIDFromContext(ctx context.Context) (string, bool) {
	principalID, ok := ctx.Value(PrincipalIDKey).(string)
	return principalID, ok
}

// ValidateToken resolves a token to the acting principal's opaque id.
// Identity is an external capability: the token is issued by the identity
// service and this backend only needs the principal id it encodes.
// In test mode (ELETTERS_TEST_MODE=true), tokens of the form
// "principal:<id>" resolve to <id> directly.
func ValidateToken(token string) (string, error) {
	if strings.TrimSpace(token) == "" || strings.TrimSpace(token) == "principal:" {
		return "", fmt.Errorf("token is empty")
	}

	if os.Getenv("ELETTERS_TEST_MODE") == "true" {
		if strings.HasPrefix(token, "principal:") {
			id := strings.TrimPrefix(token, "principal:")
			if id != "" {
				return id, nil
			}
		}
	}

	// TODO: Call the identity service's verification endpoint once it is
	// reachable from this backend. Until then the token is treated as the
	// opaque principal id itself.
	return token, nil
}
