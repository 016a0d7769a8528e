package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// LivePostText trims raw and checks its length in characters against [min, max].
func LivePostText(raw string, min, max int) (string, error) {
	text := strings.TrimSpace(raw)
	n := utf8.RuneCountInString(text)
	if n < min || n > max {
		return "", fmt.Errorf("text must be between %d and %d characters", min, max)
	}
	return text, nil
}
