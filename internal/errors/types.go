package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeRouting  ErrorType = "routing"
	ErrorTypeHistory  ErrorType = "history"
	ErrorTypeContent  ErrorType = "content"
	ErrorTypeIO       ErrorType = "io"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeInternal ErrorType = "internal"
)

// Common error codes.
const (
	ErrCodeInvalidSubpageIndex = "ERR_INVALID_SUBPAGE_INDEX"
	ErrCodeHistoryUnavailable  = "ERR_HISTORY_UNAVAILABLE"
	ErrCodeInvalidIntent       = "ERR_INVALID_INTENT"
	ErrCodeContentLoad         = "ERR_CONTENT_LOAD"
	ErrCodeConfigInvalid       = "ERR_CONFIG_INVALID"
	ErrCodeFileNotFound        = "ERR_FILE_NOT_FOUND"
	ErrCodeInternalError       = "ERR_INTERNAL"
)

// SiteError is a structured error type with context.
type SiteError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *SiteError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Is matches another SiteError with the same type and code.
func (e *SiteError) Is(target error) bool {
	var t *SiteError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *SiteError) WithContext(key string, value interface{}) *SiteError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *SiteError) WithComponent(component string) *SiteError {
	e.Component = component

	return e
}

// Error creation functions

// NewRoutingError creates a recoverable routing error.
func NewRoutingError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:        ErrorTypeRouting,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewHistoryError creates a recoverable history error.
func NewHistoryError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:        ErrorTypeHistory,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewContentError creates a content loading error.
func NewContentError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:        ErrorTypeContent,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// ErrRender reports a view that failed to render.
func ErrRender(view string, cause error) *SiteError {
	return NewInternalError(ErrCodeInternalError, "failed to render "+view, cause).
		WithContext("view", view)
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *SiteError {
	return &SiteError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *SiteError {
	return &SiteError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Helper functions for common errors

// ErrInvalidSubpageIndex reports a sub-page path segment that is not a
// usable index.
func ErrInvalidSubpageIndex(segment string, cause error) *SiteError {
	return NewRoutingError(
		ErrCodeInvalidSubpageIndex,
		fmt.Sprintf("invalid subpage index %q", segment),
		cause,
	).WithContext("segment", segment)
}

// ErrHistoryUnavailable reports that the history service cannot be reached.
func ErrHistoryUnavailable(cause error) *SiteError {
	return NewHistoryError(
		ErrCodeHistoryUnavailable,
		"history service unavailable",
		cause,
	)
}

// ErrInvalidIntent reports a message that is not a navigation intent.
func ErrInvalidIntent(msg fmt.Stringer) *SiteError {
	return NewRoutingError(
		ErrCodeInvalidIntent,
		"not a navigation intent: "+msg.String(),
		nil,
	)
}

// ErrContentLoad wraps a failure to load or render site content.
func ErrContentLoad(path string, cause error) *SiteError {
	return NewContentError(
		ErrCodeContentLoad,
		"failed to load content: "+path,
		cause,
	).WithContext("path", path)
}

// ErrFileNotFound reports a content or configuration file that does not
// exist.
func ErrFileNotFound(path string, cause error) *SiteError {
	return NewIOError(ErrCodeFileNotFound, "file not found: "+path, cause).
		WithContext("path", path)
}

// Predicates

// hasCode walks every SiteError in err's chain, so a code wrapped by
// another SiteError is still found.
func hasCode(err error, code string) bool {
	for err != nil {
		var se *SiteError
		if !errors.As(err, &se) {
			return false
		}
		if se.Code == code {
			return true
		}
		err = se.Cause
	}

	return false
}

// IsInvalidSubpageIndex reports whether err is an invalid sub-page error.
func IsInvalidSubpageIndex(err error) bool {
	return hasCode(err, ErrCodeInvalidSubpageIndex)
}

// IsHistoryUnavailable reports whether err is a history availability error.
func IsHistoryUnavailable(err error) bool {
	return hasCode(err, ErrCodeHistoryUnavailable)
}

// IsInvalidIntent reports whether err is an invalid intent error.
func IsInvalidIntent(err error) bool {
	return hasCode(err, ErrCodeInvalidIntent)
}

// IsFileNotFound reports whether err is, or wraps, a missing file error.
func IsFileNotFound(err error) bool {
	return hasCode(err, ErrCodeFileNotFound)
}

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var se *SiteError
	if errors.As(err, &se) {
		return se.Recoverable
	}

	return false
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs err at a level chosen by its type. Recoverable errors are
// warnings; everything else is an error.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var se *SiteError
	if !errors.As(err, &se) {
		h.logger.Error(ctx, err, "Unhandled error occurred")

		return
	}

	fields := []interface{}{
		"type", se.Type,
		"code", se.Code,
		"component", se.Component,
	}
	if !IsRecoverable(se) {
		h.logger.Error(ctx, se, "Error occurred", fields...)

		return
	}

	if se.Type == ErrorTypeHistory {
		h.logger.Warn(ctx, se, "History error occurred", fields...)
	} else {
		h.logger.Warn(ctx, se, "Routing error occurred", fields...)
	}
}
