package engine

import "time"

// WebhookHandler receives the outcome of a verified provider webhook event.
// The provider delivers events at least once, so implementations must be
// idempotent against repeated delivery of the same session or invoice id.
type WebhookHandler interface {
	// Completed is invoked when a checkout session has been completed and
	// paid. customerID is the provider-side customer reference minted for
	// the user and sessionID the stable checkout session reference.
	Completed(userID, productID int64, customerID string, amountTotal int64, sessionID string) error
	// Paid is invoked for every paid invoice of a running subscription.
	Paid(customerID string, amountPaid int64, invoiceID string, periodStart, periodEnd time.Time) error
	// Failed is invoked when an invoice payment failed and the customer
	// should be notified to update their payment method.
	Failed(customerID string) error
}

// Parameters provides access to stored connection and call configuration
// values, e.g. api_key, client_id, webhook_secret or session_id.
type Parameters interface {
	Get(key string) string
}

// MapParameters is a Parameters implementation backed by a plain map.
type MapParameters map[string]string

func (m MapParameters) Get(key string) string {
	return m[key]
}

// Provider is the payment-provider extension point. One implementation
// exists per remote payment service.
type Provider interface {
	// Checkout creates a provider-hosted checkout session for the product
	// and user and returns the redirect URL.
	Checkout(product *Product, user *User, checkout *CheckoutContext) (string, error)
	// Portal returns a URL to the provider's self-service billing portal,
	// or an empty string if the user has no billing identity yet.
	Portal(user *User, returnURL, configurationID string) (string, error)
	// Webhook verifies an inbound webhook request and dispatches at most
	// one call on the handler.
	Webhook(body []byte, signatureHeader string, handler WebhookHandler) error
	// Prepare creates a one-shot payment session for the transaction and
	// returns the payment URL. The transaction is stamped with the remote
	// session reference and its initial status.
	Prepare(product *Product, tx *Transaction, checkout *CheckoutContext) (string, error)
	// Execute re-fetches the session referenced by the session_id
	// parameter and re-stamps the transaction status.
	Execute(tx *Transaction, params Parameters) error
}
