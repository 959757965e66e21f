package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Classroom join code pattern - 6 uppercase alphanumerics
	JoinCodePattern = `^[A-Z0-9]{6}$`

	// Password min length
	PasswordMinLength = 8

	// Name validation min/max length
	NameMinLength = 2
	NameMaxLength = 100
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email    *regexp.Regexp
	JoinCode *regexp.Regexp
}{
	Email:    regexp.MustCompile(EmailPattern),
	JoinCode: regexp.MustCompile(JoinCodePattern),
}

// IsValidEmail reports whether the value matches the email pattern
func IsValidEmail(value string) bool {
	return CompiledPatterns.Email.MatchString(value)
}

// IsValidJoinCode reports whether the value is a well-formed classroom join code
func IsValidJoinCode(value string) bool {
	return CompiledPatterns.JoinCode.MatchString(value)
}

// IsValidPriority reports whether the value is a legal task priority level
func IsValidPriority(level int) bool {
	return level >= 0 && level <= 3
}
