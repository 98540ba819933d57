package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	// ErrInvalidInput indicates the input failed validation
	ErrInvalidInput = errors.New("invalid input")

	// Building name must be alphanumeric with hyphens/underscores, 3-128 chars
	buildingNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]{2,127}$`)

	// Region codes follow the market operator convention, e.g. NSW1, QLD1
	regionRegex = regexp.MustCompile(`^[A-Z]{2,10}[0-9]?$`)
)

// SanitizeString removes potentially dangerous characters and trims whitespace
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	var builder strings.Builder
	for _, r := range input {
		if !unicode.IsControl(r) || r == '\n' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// ValidateBuildingName checks if a building name is valid
func ValidateBuildingName(name string) error {
	name = SanitizeString(name)

	if name == "" {
		return errors.New("building name cannot be empty")
	}
	if len(name) < 3 {
		return errors.New("building name must be at least 3 characters")
	}
	if len(name) > 128 {
		return errors.New("building name must not exceed 128 characters")
	}
	if !buildingNameRegex.MatchString(name) {
		return errors.New("building name must start with alphanumeric and contain only letters, numbers, hyphens, and underscores")
	}

	reserved := []string{"admin", "root", "system", "default", "test"}
	lowerName := strings.ToLower(name)
	for _, r := range reserved {
		if lowerName == r {
			return errors.New("building name is reserved")
		}
	}
	return nil
}

// ValidateRegion checks a market region code
func ValidateRegion(region string) error {
	region = SanitizeString(region)
	if region == "" {
		return errors.New("region cannot be empty")
	}
	if !regionRegex.MatchString(region) {
		return errors.New("region must be an uppercase market code, e.g. NSW1")
	}
	return nil
}

// ValidateUsername checks if a username is valid
func ValidateUsername(username string) error {
	username = SanitizeString(username)

	if username == "" {
		return errors.New("username cannot be empty")
	}
	if len(username) < 3 {
		return errors.New("username must be at least 3 characters")
	}
	if len(username) > 50 {
		return errors.New("username must not exceed 50 characters")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 128 {
		return errors.New("password must not exceed 128 characters")
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasNumber = true
		}
	}

	if !hasUpper || !hasLower || !hasNumber {
		return errors.New("password must contain upper and lower case letters and a number")
	}
	return nil
}
