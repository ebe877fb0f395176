package main

import "fmt"

type commandError struct {
	Operation  string
	Context    string
	Cause      error
	Suggestion string
}

func (e *commandError) Error() string {
	if e == nil {
		return ""
	}
	msg := fmt.Sprintf("Failed to %s: %s", e.Operation, e.Context)
	if e.Cause != nil {
		msg += fmt.Sprintf("\n\nError: %v", e.Cause)
	}
	if e.Suggestion != "" {
		msg += "\n\nSuggestion: " + e.Suggestion
	}
	return msg
}

func (e *commandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func newCommandError(operation, context string, cause error, suggestion string) error {
	return &commandError{
		Operation:  operation,
		Context:    context,
		Cause:      cause,
		Suggestion: suggestion,
	}
}
