package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// GenerateOpaqueToken returns a 32-character alphanumeric token used
// for email verification and password reset links.
func GenerateOpaqueToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// TokenValid reports whether a stored token matches and has not
// expired yet.
func TokenValid(stored *string, expiry *time.Time, presented string) bool {
	if stored == nil || expiry == nil || presented == "" {
		return false
	}
	if *stored != presented {
		return false
	}
	return time.Now().Before(*expiry)
}
