package errors

import (
	"fmt"
	"strings"
)

// DomainErrorType represents the category of domain error
type DomainErrorType string

const (
	// DomainValidationError indicates input validation failure
	DomainValidationError DomainErrorType = "VALIDATION_ERROR"

	// DomainBusinessRuleError indicates a business rule violation
	DomainBusinessRuleError DomainErrorType = "BUSINESS_RULE_ERROR"

	// DomainIntegrityError indicates a broken structural reference
	DomainIntegrityError DomainErrorType = "INTEGRITY_ERROR"
)

// DomainError represents a domain-specific error with rich context
type DomainError struct {
	Type    DomainErrorType        `json:"type"`
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// NewDomainError creates a new domain error
func NewDomainError(errorType DomainErrorType, code string, message string) *DomainError {
	return &DomainError{
		Type:    errorType,
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Type, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Type, e.Code, e.Message)
}

// WithCause adds a cause to the error
func (e *DomainError) WithCause(cause error) *DomainError {
	e.Cause = cause
	return e
}

// WithDetail adds a detail to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	e.Details[key] = value
	return e
}

// Is reports whether target carries the same type and code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Integrity issue codes reported by the diagram validator
const (
	CodeDanglingConnector   = "DANGLING_CONNECTOR"
	CodeDuplicateItemID     = "DUPLICATE_ITEM_ID"
	CodeNetOverfull         = "NET_OVERFULL"
	CodeNetMultipleOut      = "NET_MULTIPLE_OUT"
	CodePortalOverconnected = "PORTAL_OVERCONNECTED"
	CodePortalDirection     = "PORTAL_INVALID_DIRECTION"
	CodeMirrorDiverged      = "MIRROR_DIVERGED"
)

// ValidationErrors aggregates multiple validation errors
type ValidationErrors struct {
	Errors []*DomainError `json:"errors"`
}

// NewValidationErrors creates a new validation errors collection
func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors: make([]*DomainError, 0),
	}
}

// AddError adds a pre-existing domain error
func (v *ValidationErrors) AddError(err *DomainError) {
	v.Errors = append(v.Errors, err)
}

// HasErrors returns true if there are validation errors
func (v *ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Codes returns the issue codes in report order
func (v *ValidationErrors) Codes() []string {
	codes := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		codes[i] = err.Code
	}
	return codes
}

// Error implements the error interface
func (v *ValidationErrors) Error() string {
	if len(v.Errors) == 0 {
		return ""
	}

	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Message
	}
	return fmt.Sprintf("Validation failed: %s", strings.Join(messages, "; "))
}

// ByCode groups issue messages under their codes
func (v *ValidationErrors) ByCode() map[string][]string {
	result := make(map[string][]string)
	for _, err := range v.Errors {
		result[err.Code] = append(result[err.Code], err.Message)
	}
	return result
}
