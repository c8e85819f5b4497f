// Package redact strips sensitive material from strings before they reach
// logs or error responses: connection strings, tokens, secrets, and file
// paths that tend to ride along inside wrapped errors.
package redact

import "regexp"

// Redaction placeholders
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
)

var (
	// Database connection strings with inline credentials
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// Passphrases and secrets in key=value or key: value form
	secretRegex = regexp.MustCompile(
		`(?i)(password|passphrase|secret|api[_-]?key|token)([=:]\s*['"]?)[^'"&\s]{3,}`,
	)

	// JWT tokens (three base64url segments starting with eyJ)
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Filesystem paths
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{secretRegex, RedactedCredentialPlaceholder},
		{jwtTokenRegex, RedactedKeyPlaceholder},
		{unixPathRegex, RedactedPathPlaceholder},
	}
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, p := range patternPlaceholders {
		result = p.pattern.ReplaceAllString(result, p.placeholder)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
