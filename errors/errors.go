package errors

import "fmt"

// Code classifies an application error for transport mapping.
type Code string

const (
	CodeValidation       Code = "validation_error"
	CodeUnauthorized     Code = "unauthorized"
	CodeNotFound         Code = "not_found"
	CodeConflict         Code = "conflict"
	CodeGenerationFailed Code = "generation_failed"
	CodeInternal         Code = "internal_error"
)

// Error is the application-level error carried from services to the HTTP
// boundary. The Description is safe to return to callers; internal causes
// are logged server-side only.
type Error struct {
	Code        Code   `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// Is makes errors.Is match on the code, so sentinel comparisons work for
// errors constructed with a custom description.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func NewValidation(description string) *Error {
	return &Error{Code: CodeValidation, Description: description}
}

func NewNotFound(description string) *Error {
	return &Error{Code: CodeNotFound, Description: description}
}

func NewUnauthorized(description string) *Error {
	return &Error{Code: CodeUnauthorized, Description: description}
}

func NewConflict(description string) *Error {
	return &Error{Code: CodeConflict, Description: description}
}

func NewGenerationFailed(description string) *Error {
	return &Error{Code: CodeGenerationFailed, Description: description}
}

// Sentinels for the common failure modes. Services may return these
// directly or wrap a more specific description around the same code.
var (
	ErrValidation           = &Error{Code: CodeValidation, Description: "Missing or malformed fields"}
	ErrNotFound             = &Error{Code: CodeNotFound, Description: "Record not found"}
	ErrUnauthorized         = &Error{Code: CodeUnauthorized, Description: "Unauthorized"}
	ErrConflict             = &Error{Code: CodeConflict, Description: "Record was modified concurrently"}
	ErrGenerationFailed     = &Error{Code: CodeGenerationFailed, Description: "Failed to generate content"}
	ErrInvalidCredentials   = &Error{Code: CodeUnauthorized, Description: "Invalid email or password"}
	ErrAccountNotConfigured = &Error{Code: CodeUnauthorized, Description: "Account not configured for credentials login"}
	ErrSignInDenied         = &Error{Code: CodeUnauthorized, Description: "Sign in denied"}
	ErrEmailTaken           = &Error{Code: CodeValidation, Description: "User with this email already exists"}
)
