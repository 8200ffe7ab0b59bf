package utils

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLength      = 200
	MaxAuthorNameLength = 50
	MaxCommentLength    = 2000
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RequireText trims s and rejects it when blank or longer than max runes.
// max <= 0 means unlimited.
func RequireText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: field, Message: field + " is required"}
	}
	if max > 0 && utf8.RuneCountInString(s) > max {
		return "", &ValidationError{Field: field, Message: field + " is too long"}
	}
	return s, nil
}

// Truncate cuts s to at most max runes.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
