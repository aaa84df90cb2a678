/*
Package validate contains the pure input validation rules for accounts and tasks.

Every function takes a raw string and returns nil when the value is acceptable,
or a *errs.CustomError carrying a human-readable message (HTTP 400). The functions
perform no I/O and are safe to call from any goroutine.
*/
package validate

import (
	"unicode"
	"unicode/utf8"

	"taskhub/internal/pkg/errs"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 20

	PasswordMinLen = 6
	PasswordMaxLen = 50

	TaskTitleMaxLen       = 100
	TaskDescriptionMaxLen = 500
)

// Username checks the registration username: 3-20 runes, each either an ASCII
// letter, digit, underscore, or a CJK ideograph.
func Username(v string) *errs.CustomError {
	if v == "" {
		return errs.NewValidation("Username must not be empty.")
	}

	n := utf8.RuneCountInString(v)
	if n < UsernameMinLen {
		return errs.NewValidation("Username must be at least 3 characters.")
	}
	if n > UsernameMaxLen {
		return errs.NewValidation("Username must not exceed 20 characters.")
	}

	for _, r := range v {
		if !isUsernameRune(r) {
			return errs.NewValidation("Username may only contain letters, digits, underscores, and CJK characters.")
		}
	}

	return nil
}

func isUsernameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z':
		return true
	case r >= 'A' && r <= 'Z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '_':
		return true
	}
	return unicode.Is(unicode.Han, r)
}

// Password checks the account password: 6-50 runes containing at least one
// letter and at least one digit.
func Password(v string) *errs.CustomError {
	if v == "" {
		return errs.NewValidation("Password must not be empty.")
	}

	n := utf8.RuneCountInString(v)
	if n < PasswordMinLen {
		return errs.NewValidation("Password must be at least 6 characters.")
	}
	if n > PasswordMaxLen {
		return errs.NewValidation("Password must not exceed 50 characters.")
	}

	var hasLetter, hasDigit bool
	for _, r := range v {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			hasLetter = true
		case r >= '0' && r <= '9':
			hasDigit = true
		}
	}

	if !hasLetter || !hasDigit {
		return errs.NewValidation("Password must contain at least one letter and one digit.")
	}

	return nil
}

// TaskTitle checks a task title: required, at most 100 runes.
func TaskTitle(v string) *errs.CustomError {
	if v == "" {
		return errs.NewValidation("Task title must not be empty.")
	}

	if utf8.RuneCountInString(v) > TaskTitleMaxLen {
		return errs.NewValidation("Task title must not exceed 100 characters.")
	}

	return nil
}

// TaskDescription checks a task description: optional, at most 500 runes when present.
func TaskDescription(v string) *errs.CustomError {
	if v == "" {
		return nil
	}

	if utf8.RuneCountInString(v) > TaskDescriptionMaxLen {
		return errs.NewValidation("Task description must not exceed 500 characters.")
	}

	return nil
}
