package logger

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MaxPathLength caps URL paths in log output.
	MaxPathLength = 500
	// MaxGeneralStringLength caps other request-derived strings.
	MaxGeneralStringLength = 2000
)

// SanitizePath makes a request path safe to log: invalid UTF-8 and control
// characters are stripped and the result is truncated. Paths come straight
// off the wire and are a log injection vector otherwise.
func SanitizePath(path string) string {
	return SanitizeString(path, MaxPathLength)
}

// SanitizeString strips invalid UTF-8 and control characters and truncates
// to maxLength.
func SanitizeString(s string, maxLength int) string {
	if s == "" {
		return ""
	}
	if maxLength <= 0 {
		maxLength = MaxGeneralStringLength
	}

	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}

	var builder strings.Builder
	builder.Grow(len(s))
	for _, r := range s {
		if unicode.IsPrint(r) || r == ' ' || r == '\t' {
			builder.WriteRune(r)
		}
	}
	s = builder.String()

	if len(s) > maxLength {
		s = s[:maxLength] + "..."
	}
	return s
}
