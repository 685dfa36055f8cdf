package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// DefaultMaxCodeLength is the default ceiling on layout code length.
const DefaultMaxCodeLength = 256

// ValidateLayoutCode performs the cheap checks every layout code must pass
// before it reaches the tokenizer:
//   - No empty (or whitespace-only) codes
//   - No codes longer than maxLen bytes
//   - No control characters other than newline, tab and carriage return
//
// A maxLen of zero or less means DefaultMaxCodeLength.
func ValidateLayoutCode(code string, maxLen int) error {
	if maxLen <= 0 {
		maxLen = DefaultMaxCodeLength
	}

	if strings.TrimSpace(code) == "" {
		return New(ErrCodeEmptyLayout, "layout code cannot be empty")
	}

	if len(code) > maxLen {
		return New(ErrCodeInputTooLong, "layout code too long (%d bytes, max %d)", len(code), maxLen).At(maxLen)
	}

	for i, r := range code {
		if r == '\n' || r == '\t' || r == '\r' {
			continue
		}
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidCharacter, "layout code contains a control character").At(i)
		}
	}

	return nil
}

// templateNameRegex matches valid template names.
var templateNameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// ValidateTemplateName validates a layout template name.
// Names are lowercase identifiers so they can appear in URLs unescaped.
func ValidateTemplateName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidInput, "template name cannot be empty")
	}
	if len(name) > 64 {
		return New(ErrCodeInvalidInput, "template name too long (max 64 characters)")
	}
	if !templateNameRegex.MatchString(name) {
		return New(ErrCodeInvalidInput, "invalid template name: %q", name)
	}
	return nil
}

// ValidateFormat checks that format is one of the allowed output formats.
func ValidateFormat(format string, allowed []string) error {
	for _, f := range allowed {
		if f == format {
			return nil
		}
	}
	return New(ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)", format, strings.Join(allowed, ", "))
}
