package services

import "errors"

var (
	ErrEntryNotFound     = errors.New("diary entry not found")
	ErrForbidden         = errors.New("access denied")
	ErrEntryRequired     = errors.New("entry text is required")
	ErrTitleRequired     = errors.New("title is required")
	ErrInvalidVisibility = errors.New("visibility must be private or shared")
	ErrContentRequired   = errors.New("comment content is required")
	ErrUserNotFound      = errors.New("user not found")
	ErrInvalidSession    = errors.New("invalid or expired session")
	ErrGenerationFailed  = errors.New("text generation failed")
)
