package profiles

import (
	"errors"
	"strings"
	"unicode/utf8"
)

const maxHandleLength = 64

var (
	ErrEmptyHandle   = errors.New("profile handle cannot be empty")
	ErrInvalidHandle = errors.New("profile handle is invalid")
)

// NormalizeHandle trims and lowercases a user-chosen handle.
func NormalizeHandle(raw string) (string, error) {
	handle := strings.ToLower(strings.TrimSpace(raw))
	if handle == "" {
		return "", ErrEmptyHandle
	}
	if strings.Contains(handle, "/") || utf8.RuneCountInString(handle) > maxHandleLength {
		return "", ErrInvalidHandle
	}
	return handle, nil
}
