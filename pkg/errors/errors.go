package errors

import (
	"fmt"
)

// ParseError represents a descriptor document decoding failure with optional line metadata.
type ParseError struct {
	Path    string
	Line    int
	Message string
	Err     error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &ParseError{Path: path, Line: line, Message: message, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}

	if e.Line > 0 {
		return fmt.Sprintf("parse error: %s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("parse error: %s: %s", e.Path, e.Message)
}

// Unwrap exposes the underlying error.
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError captures descriptor validation issues.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// Unwrap exposes the underlying error.
func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CompileError reports a failure while compiling the script for one setting.
type CompileError struct {
	Setting string
	Err     error
}

// NewCompileError constructs a CompileError.
func NewCompileError(setting string, err error) error {
	return &CompileError{Setting: setting, Err: err}
}

func (e *CompileError) Error() string {
	if e == nil {
		return ""
	}
	if e.Setting != "" {
		return fmt.Sprintf("compile error on setting %s: %v", e.Setting, e.Err)
	}
	return fmt.Sprintf("compile error: %v", e.Err)
}

// Unwrap exposes the root error.
func (e *CompileError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// HookError indicates a filter attached to a hook failed or could not be loaded.
type HookError struct {
	Hook    string
	Filter  string
	Message string
	Err     error
}

// NewHookError constructs a HookError for the named hook and filter.
func NewHookError(hook, filter string, err error) error {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &HookError{Hook: hook, Filter: filter, Message: message, Err: err}
}

func (e *HookError) Error() string {
	if e == nil {
		return ""
	}
	if e.Filter != "" {
		return fmt.Sprintf("hook error [%s/%s]: %s", e.Hook, e.Filter, e.Message)
	}
	return fmt.Sprintf("hook error [%s]: %s", e.Hook, e.Message)
}

// Unwrap exposes the underlying error.
func (e *HookError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
