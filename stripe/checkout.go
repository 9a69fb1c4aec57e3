package stripe

import (
	"fmt"
	"strconv"

	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/apiforge/stripe-adapter/engine"
)

// Checkout creates a checkout session for the product and user and returns
// the redirect URL of the provider-hosted payment page.
func (p *Provider) Checkout(product *engine.Product, user *engine.User, checkout *engine.CheckoutContext) (string, error) {
	api, err := p.client()
	if err != nil {
		return "", err
	}

	session, err := api.CheckoutSessions.New(checkoutSessionParams(product, user, checkout))
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	if session.URL == "" {
		return "", ErrNoRedirectURL
	}
	return session.URL, nil
}

// checkoutSessionParams builds the session creation request. The session
// metadata carries the host user and product ids plus the tenant domain,
// which the webhook processor reads back when reconciling the completed
// checkout.
func checkoutSessionParams(product *engine.Product, user *engine.User, checkout *engine.CheckoutContext) *stripeapi.CheckoutSessionParams {
	mode := stripeapi.CheckoutSessionModePayment
	if product.Interval != "" {
		mode = stripeapi.CheckoutSessionModeSubscription
	}

	metadata := map[string]string{
		"user_id":    strconv.FormatInt(user.ID, 10),
		"product_id": strconv.FormatInt(product.ID, 10),
	}
	if checkout.Domain != "" {
		metadata["domain"] = checkout.Domain
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:              stripeapi.String(string(mode)),
		LineItems:         []*stripeapi.CheckoutSessionLineItemParams{lineItemParams(product, checkout.Currency)},
		ClientReferenceID: stripeapi.String(strconv.FormatInt(user.ID, 10)),
		// The session id placeholder is replaced by Stripe on redirect, so
		// the host can fetch the session outcome without waiting for the
		// webhook.
		SuccessURL: stripeapi.String(checkout.ReturnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripeapi.String(checkout.CancelURL),
		Metadata:   metadata,
	}

	// Prefer the stored customer reference; fall back to the email as a
	// hint so Stripe can match or create the customer. An anonymous
	// session is created when neither is known.
	switch {
	case user.ExternalID != "":
		params.Customer = stripeapi.String(user.ExternalID)
	case user.Email != "":
		params.CustomerEmail = stripeapi.String(user.Email)
	}

	return params
}

// lineItemParams prices the single line item of a session: by reference
// when the product carries an external price id, inline otherwise. Product
// prices are already expressed in the smallest currency unit, no scaling
// happens here.
func lineItemParams(product *engine.Product, currency string) *stripeapi.CheckoutSessionLineItemParams {
	item := &stripeapi.CheckoutSessionLineItemParams{
		Quantity: stripeapi.Int64(1),
	}
	if product.ExternalID != "" {
		item.Price = stripeapi.String(product.ExternalID)
		return item
	}
	item.PriceData = &stripeapi.CheckoutSessionLineItemPriceDataParams{
		Currency: stripeapi.String(currency),
		ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripeapi.String(product.Name),
		},
		UnitAmount: stripeapi.Int64(product.Price),
	}
	return item
}
