// Package errors provides structured error types for panelgrid.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the parser, CLI and API
//   - Machine-readable error codes for programmatic handling
//   - Character offsets into the layout code when derivable
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Every code belongs to a [Category]:
//   - syntax: the tokenizer could not split the input
//   - parse: the token stream does not match the grammar
//   - structural: labels, rows or compositions do not fit together
//   - range: numeric limits (inset fractions, depth, input length)
//   - service: request handling outside the core
//   - internal: programmer errors
//
// Syntax and parse errors are fail-fast. Structural and range errors are
// collected so a single call reports everything it can.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNonRectangular, "panel %q is not a rectangle", "a").WithLabel("a")
//	if errors.Is(err, errors.ErrCodeNonRectangular) {
//	    // Handle structural error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "failed to load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Category groups codes by the pipeline stage that produces them.
type Category string

// Categories of error codes.
const (
	CategorySyntax     Category = "syntax"
	CategoryParse      Category = "parse"
	CategoryStructural Category = "structural"
	CategoryRange      Category = "range"
	CategoryService    Category = "service"
	CategoryInternal   Category = "internal"
)

// Error codes for different error categories.
const (
	// Tokenizer errors
	ErrCodeUnmatchedBracket Code = "UNMATCHED_BRACKET"
	ErrCodeInvalidCharacter Code = "INVALID_CHARACTER"

	// Parser errors
	ErrCodeUnexpectedToken    Code = "UNEXPECTED_TOKEN"
	ErrCodeUnterminatedGroup  Code = "UNTERMINATED_GROUP"
	ErrCodeInvalidDimension   Code = "INVALID_DIMENSION_SPEC"
	ErrCodeEmptyLayout        Code = "EMPTY_LAYOUT"
	ErrCodeInvalidInsetSpec   Code = "INVALID_INSET_SPEC"
	ErrCodeMissingRegionName  Code = "MISSING_REGION_NAME"
	ErrCodeMissingRegionColon Code = "MISSING_REGION_COLON"

	// Structural errors
	ErrCodeRowLengthMismatch   Code = "ROW_LENGTH_MISMATCH"
	ErrCodeNonRectangular      Code = "NON_RECTANGULAR_PANEL"
	ErrCodeDuplicateLabel      Code = "DUPLICATE_LABEL"
	ErrCodeSubpanelMismatch    Code = "SUBPANEL_COUNT_MISMATCH"
	ErrCodeCompositionMismatch Code = "COMPOSITION_MISMATCH"
	ErrCodeTilingGap           Code = "TILING_GAP"
	ErrCodePanelOverlap        Code = "PANEL_OVERLAP"
	ErrCodeUnknownReference    Code = "UNKNOWN_REFERENCE"

	// Structural warnings
	ErrCodeAmbiguousComposition Code = "AMBIGUOUS_COMPOSITION"
	ErrCodeMixedOperators       Code = "MIXED_COMPOSITION_OPERATORS"

	// Range errors
	ErrCodeInsetOutOfBounds Code = "INSET_OUT_OF_BOUNDS"
	ErrCodeMaxDepthExceeded Code = "MAX_DEPTH_EXCEEDED"
	ErrCodeInputTooLong     Code = "INPUT_TOO_LONG"

	// Service errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeNotFound      Code = "NOT_FOUND"

	// Internal errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInternal      Code = "INTERNAL_ERROR"
)

var categories = map[Code]Category{
	ErrCodeUnmatchedBracket: CategorySyntax,
	ErrCodeInvalidCharacter: CategorySyntax,

	ErrCodeUnexpectedToken:    CategoryParse,
	ErrCodeUnterminatedGroup:  CategoryParse,
	ErrCodeInvalidDimension:   CategoryParse,
	ErrCodeEmptyLayout:        CategoryParse,
	ErrCodeInvalidInsetSpec:   CategoryParse,
	ErrCodeMissingRegionName:  CategoryParse,
	ErrCodeMissingRegionColon: CategoryParse,

	ErrCodeRowLengthMismatch:    CategoryStructural,
	ErrCodeNonRectangular:       CategoryStructural,
	ErrCodeDuplicateLabel:       CategoryStructural,
	ErrCodeSubpanelMismatch:     CategoryStructural,
	ErrCodeCompositionMismatch:  CategoryStructural,
	ErrCodeTilingGap:            CategoryStructural,
	ErrCodePanelOverlap:         CategoryStructural,
	ErrCodeUnknownReference:     CategoryStructural,
	ErrCodeAmbiguousComposition: CategoryStructural,
	ErrCodeMixedOperators:       CategoryStructural,

	ErrCodeInsetOutOfBounds: CategoryRange,
	ErrCodeMaxDepthExceeded: CategoryRange,
	ErrCodeInputTooLong:     CategoryRange,

	ErrCodeInvalidInput:  CategoryService,
	ErrCodeInvalidFormat: CategoryService,
	ErrCodeNotFound:      CategoryService,

	ErrCodeInvalidConfig: CategoryInternal,
	ErrCodeInternal:      CategoryInternal,
}

// Category returns the category the code belongs to.
// Unknown codes are reported as internal.
func (c Code) Category() Category {
	if cat, ok := categories[c]; ok {
		return cat
	}
	return CategoryInternal
}

// NoOffset marks an error that cannot be tied to a position in the input.
const NoOffset = -1

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Offset  int    // Byte offset into the layout code, or NoOffset
	Line    int    // 1-based grid row, 0 when not applicable
	Label   string // Offending panel label, if any
	Scope   string // Label namespace the error occurred in, if any
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (offset %d)", msg, e.Offset)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Category returns the category of the error's code.
func (e *Error) Category() Category {
	return e.Code.Category()
}

// At returns the error with its offset set.
func (e *Error) At(offset int) *Error {
	e.Offset = offset
	return e
}

// WithLine returns the error with its grid row set.
func (e *Error) WithLine(line int) *Error {
	e.Line = line
	return e
}

// WithLabel returns the error with its label set.
func (e *Error) WithLabel(label string) *Error {
	e.Label = label
	return e
}

// WithScope returns the error with its namespace set.
func (e *Error) WithScope(scope string) *Error {
	e.Scope = scope
	return e
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  NoOffset,
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Offset:  NoOffset,
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As is errors.As, re-exported so callers importing this package under the
// name "errors" keep access to it.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// CategoryOf returns the category of err, or CategoryInternal for errors
// that are not an *Error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category()
	}
	return CategoryInternal
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
