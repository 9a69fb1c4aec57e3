// Package engine defines the host platform model consumed by payment
// provider adapters: the product, user and transaction entities, the
// checkout context, and the extension-point interfaces (payment provider,
// webhook handler, configuration parameters).
//
// Persistence of these entities is owned by the host; adapters only read
// them and report state changes back through the interfaces below.
package engine

// Product is a purchasable item of the host platform.
type Product struct {
	ID   int64
	Name string
	// Price is expressed in the smallest currency unit (e.g. cents).
	Price int64
	// Interval is the recurring billing interval ("month", "year").
	// Empty for one-time products.
	Interval string
	// ExternalID is a provider-side price reference. When set, checkout
	// sessions use it instead of inline price data.
	ExternalID string
}

// User is an account of the host platform.
type User struct {
	ID    int64
	Email string
	// ExternalID is the provider-side customer id linking the user to the
	// provider's billing objects. Empty until the first completed checkout.
	ExternalID string
}

// CheckoutContext carries the request-scoped settings of a checkout.
type CheckoutContext struct {
	Currency  string
	ReturnURL string
	CancelURL string
	// Domain tags the checkout session so webhook events can be matched
	// to the tenant which created them. Optional.
	Domain string
}
