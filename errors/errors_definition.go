//nolint:lll
package errors

import (
	"fmt"
	"net/http"
)

// Error codes in the 40001-49999 range are the caller's fault and map to
// 4xx statuses; codes in the 50001-59999 range are the server's fault and
// map to 5xx statuses. Codes are stable: never change or reuse one, only
// append after the current last 4XXX or 5XXX.
var (
	// Authentication errors (401/403)
	ErrUnauthorized     = Error{Code: 40001, HTTPstatus: http.StatusUnauthorized, Err: fmt.Errorf("authentication required")}
	ErrWebhookForbidden = Error{Code: 40002, HTTPstatus: http.StatusForbidden, Err: fmt.Errorf("webhook signature verification failed")}

	// Validation errors (400)
	ErrMalformedBody     = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid JSON request body")}
	ErrMalformedURLParam = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid URL parameter")}
	ErrInvalidUserData   = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("invalid user information provided")}

	// Not found errors (404)
	ErrUserNotFound        = Error{Code: 40006, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("user not found")}
	ErrProductNotFound     = Error{Code: 40007, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("product not found")}
	ErrTransactionNotFound = Error{Code: 40008, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("transaction not found")}

	// Server errors (500)
	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: failed to process response")}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: operation failed")}
	ErrPaymentProviderError       = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: payment processing failed")}
	ErrInternalStorageError       = Error{Code: 50004, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("server error: storage operation failed")}
)
