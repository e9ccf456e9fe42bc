package middleware

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
)

// Sentinel errors for token extraction failures.
// These can be used for logging but are never exposed in responses.
var (
	ErrMissingAuthHeader = errors.New("missing authorization header")
	ErrInvalidAuthScheme = errors.New("invalid authorization scheme: expected Bearer")
	ErrEmptyToken        = errors.New("empty bearer token")
)

// ExtractBearerToken extracts the token from an "Authorization: Bearer <token>" header.
func ExtractBearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", ErrMissingAuthHeader
	}

	const prefix = "Bearer "
	if !strings.HasPrefix(authHeader, prefix) {
		return "", ErrInvalidAuthScheme
	}

	raw := strings.TrimPrefix(authHeader, prefix)
	if raw == "" {
		return "", ErrEmptyToken
	}

	return raw, nil
}

// APIError is the JSON error envelope shared across the API.
type APIError struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error message and type.
type ErrorDetail struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// WriteJSONError writes a JSON error response.
func WriteJSONError(w http.ResponseWriter, status int, message, errorType string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(APIError{
		Error: ErrorDetail{
			Message: message,
			Type:    errorType,
		},
	}); err != nil {
		log.Printf("failed to write JSON error response: %v", err)
	}
}

// WriteUnauthorized writes a 401 Unauthorized JSON response.
// Use when the Authorization header is missing or malformed.
func WriteUnauthorized(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusUnauthorized, "unauthorized", "authentication_error")
}

// WriteForbidden writes a 403 Forbidden JSON response.
// Use when the token is invalid or the role is insufficient.
func WriteForbidden(w http.ResponseWriter) {
	WriteJSONError(w, http.StatusForbidden, "forbidden", "authorization_error")
}
