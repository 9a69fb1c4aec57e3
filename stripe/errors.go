package stripe

import (
	"errors"
	"fmt"
)

// Error codes, used by the API layer to pick the HTTP status of a failed
// call: configuration and integrity errors are the deployment's fault
// (internal error), authentication errors reject the inbound request
// (forbidden).
const (
	CodeConfiguration  = "configuration"
	CodeAuthentication = "authentication"
	CodeIntegrity      = "integrity"
)

// Error is an adapter-specific error carrying a classification code.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("stripe error [%s]: %s - %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("stripe error [%s]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Common adapter errors
var (
	ErrNoWebhookSecret   = &Error{Code: CodeConfiguration, Message: "no webhook secret configured"}
	ErrInvalidConnection = &Error{Code: CodeConfiguration, Message: "connection must provide a Stripe client"}
	ErrNoRedirectURL     = &Error{Code: CodeIntegrity, Message: "checkout session response has no redirect URL"}
)

// NewError creates a new Error with the given code, message, and underlying error
func NewError(code, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func hasCode(err error, code string) bool {
	var adapterErr *Error
	if errors.As(err, &adapterErr) {
		return adapterErr.Code == code
	}
	return false
}

// IsConfiguration reports whether err is a configuration error, caused by
// missing or invalid adapter setup.
func IsConfiguration(err error) bool {
	return hasCode(err, CodeConfiguration)
}

// IsAuthentication reports whether err is a webhook verification failure.
func IsAuthentication(err error) bool {
	return hasCode(err, CodeAuthentication)
}

// IsIntegrity reports whether err was caused by a remote response missing
// an expected field.
func IsIntegrity(err error) bool {
	return hasCode(err, CodeIntegrity)
}
