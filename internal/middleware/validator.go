package middleware

import (
	"fmt"
	"regexp"

	"github.com/google/uuid"
)

// Input validation for path parameters.

var userIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateUserID checks the {user} path segment: identity mechanics live
// with the external auth provider, so only the shape is enforced here.
func ValidateUserID(id string) error {
	if id == "" {
		return fmt.Errorf("user id cannot be empty")
	}
	if !userIDRe.MatchString(id) {
		return fmt.Errorf("invalid user id: must be 1-64 chars of [a-zA-Z0-9_-]")
	}
	return nil
}

// ValidateAnalysisID checks that an analysis id is a well-formed UUID.
func ValidateAnalysisID(id string) error {
	if id == "" {
		return fmt.Errorf("analysis id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid analysis id: %w", err)
	}
	return nil
}
