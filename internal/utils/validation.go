package utils

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

var (
	// Entry ids are UUIDs.
	validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

	validUsernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,32}$`)

	// One @, something on both sides, a dot in the domain.
	validEmailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

// DateLayout is the YYYY-MM-DD format used for diary days.
const DateLayout = "2006-01-02"

func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}
	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}
	return nil
}

// ValidateQuery validates free-text search input. Empty queries are allowed.
func ValidateQuery(query string) error {
	if query == "" {
		return nil
	}
	if utf8.RuneCountInString(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}
	if dangerousPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}
	return nil
}

// ValidateDate validates YYYY-MM-DD. Empty dates are allowed and mean today.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}
	return nil
}

func ValidateUsername(username string) error {
	if !validUsernamePattern.MatchString(username) {
		return errors.New("username must be 3-32 letters, digits, dots, dashes or underscores")
	}
	return nil
}

func ValidateEmail(email string) error {
	if len(email) > 254 || !validEmailPattern.MatchString(email) {
		return errors.New("invalid email address")
	}
	return nil
}

// ValidateFoodName checks a diary entry name after sanitizing.
func ValidateFoodName(name string) error {
	if name == "" {
		return errors.New("name is required")
	}
	if utf8.RuneCountInString(name) > 200 {
		return errors.New("name too long (max 200 characters)")
	}
	return nil
}

// SanitizeInput strips HTML tags and surrounding whitespace.
func SanitizeInput(input string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(input, ""))
}

func ValidateAndSanitizeQuery(query string) (string, error) {
	if err := ValidateQuery(query); err != nil {
		return "", err
	}
	return SanitizeInput(query), nil
}
