package project

import (
	"fmt"
	"strings"
)

// ValidateCreate checks creation inputs before any network call is made.
func ValidateCreate(req CreateRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(req.Email) == "" {
		return fmt.Errorf("%w: alert email is required", ErrInvalidInput)
	}
	if req.Limit < 1 {
		return fmt.Errorf("%w: alert limit must be a positive integer", ErrInvalidInput)
	}
	return nil
}
