package common

import (
	"regexp"
	"strings"
)

var (
	emailRegex  = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	handleRegex = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
)

const MaxMessageText = 4000

func ValidateHandle(handle string) error {
	handle = strings.TrimSpace(handle)
	if len(handle) < 3 || len(handle) > 50 {
		return Invalid("handle must be between 3 and 50 characters")
	}
	if !handleRegex.MatchString(handle) {
		return Invalid("handle can only contain letters, numbers, and underscores")
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < 6 {
		return Invalid("password must be at least 6 characters long")
	}
	if len(password) > 72 {
		return Invalid("password must be at most 72 characters long")
	}
	return nil
}

func ValidateEmail(email string) error {
	if email == "" {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return Invalid("invalid email format")
	}
	return nil
}

// ValidateMessageText checks text that is present. Blank text counts as absent, not invalid.
func ValidateMessageText(text string) error {
	if len([]rune(text)) > MaxMessageText {
		return Invalid("message text must be at most %d characters", MaxMessageText)
	}
	return nil
}

func HasText(text *string) bool {
	return text != nil && strings.TrimSpace(*text) != ""
}
