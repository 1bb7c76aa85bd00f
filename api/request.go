package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/mail"
	"strings"
)

const MimeTypeJSON = "application/json"

// minPasswordLength matches the registration and reset complexity check.
const minPasswordLength = 8

// ValidateEmail checks if an email address is valid according to RFC 5322
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// validContentType reports whether the request declares the allowed media
// type, ignoring parameters like charset.
func validContentType(r *http.Request, allowedType string) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType := strings.TrimSpace(strings.Split(contentType, ";")[0])
	return mediaType == allowedType
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
