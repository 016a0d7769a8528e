// Package validation holds input rules shared by services and handlers.
package validation

import (
	"errors"
	"regexp"
	"strings"
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9._]{3,20}$`)

// ErrInvalidUsername is returned for handles outside the allowed alphabet or length.
var ErrInvalidUsername = errors.New("username must be 3-20 characters and contain only lowercase letters, numbers, dots, and underscores")

// NormalizeUsername trims and lowercases raw, then checks the handle format.
func NormalizeUsername(raw string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if !usernameRegex.MatchString(name) {
		return "", ErrInvalidUsername
	}
	return name, nil
}
