package stripe

import (
	"encoding/json"
	"strconv"
	"time"

	stripeapi "github.com/stripe/stripe-go/v81"
	stripewebhook "github.com/stripe/stripe-go/v81/webhook"
	"go.vocdoni.io/dvote/log"

	"github.com/apiforge/stripe-adapter/engine"
)

// Webhook verifies an inbound webhook request against the configured
// secret, classifies the event and dispatches at most one call on the
// handler.
//
// A partially populated event (missing customer reference, missing amount,
// empty metadata) is treated as non-actionable and dropped without error,
// since Stripe may send preliminary events before all fields are set. The
// same applies to events tagged with a different tenant domain. Delivery
// is not deduplicated here: Stripe redelivers events at least once and the
// handler is expected to be idempotent on the session and invoice ids it
// receives.
func (p *Provider) Webhook(body []byte, signatureHeader string, handler engine.WebhookHandler) error {
	if p.secret == "" {
		return ErrNoWebhookSecret
	}

	// Events are accepted from endpoints pinned to any API version; only
	// the signature, payload shape and timestamp tolerance are enforced.
	event, err := stripewebhook.ConstructEventWithOptions(body, signatureHeader, p.secret,
		stripewebhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return NewError(CodeAuthentication, "webhook signature verification failed", err)
	}

	switch event.Type {
	case stripeapi.EventTypeCheckoutSessionCompleted:
		return p.checkoutCompleted(&event, handler)
	case stripeapi.EventTypeInvoicePaid:
		return p.invoicePaid(&event, handler)
	case stripeapi.EventTypeInvoicePaymentFailed:
		return p.invoicePaymentFailed(&event, handler)
	default:
		// Forward compatible with event types we do not handle yet.
		log.Debugf("stripe webhook: ignoring event type %s (id %s)", event.Type, event.ID)
		return nil
	}
}

// checkoutCompleted reconciles a completed checkout session: the payment
// succeeded and the subscription, if any, was created. The handler should
// provision the product and store the customer id for the user. A zero
// amount_total is indistinguishable from an absent one after decoding and
// is treated as an incomplete payload, so zero-total sessions are dropped.
func (p *Provider) checkoutCompleted(event *stripeapi.Event, handler engine.WebhookHandler) error {
	var session stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		log.Warnf("stripe webhook: event %s carries no checkout session object: %v", event.ID, err)
		return nil
	}

	if p.domain != "" {
		if domain, ok := session.Metadata["domain"]; ok && domain != p.domain {
			// The checkout belongs to a different tenant.
			log.Debugf("stripe webhook: session %s tagged for domain %s, dropping", session.ID, domain)
			return nil
		}
	}

	if len(session.Metadata) == 0 {
		return nil
	}
	userID, _ := strconv.ParseInt(session.Metadata["user_id"], 10, 64)
	productID, _ := strconv.ParseInt(session.Metadata["product_id"], 10, 64)

	if session.Customer == nil || session.Customer.ID == "" {
		return nil
	}
	if session.AmountTotal == 0 {
		return nil
	}

	return handler.Completed(userID, productID, session.Customer.ID, session.AmountTotal, session.ID)
}

// invoicePaid records a recurring payment so the host can keep provisioning
// the subscription without polling the provider.
func (p *Provider) invoicePaid(event *stripeapi.Event, handler engine.WebhookHandler) error {
	var invoice stripeapi.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		log.Warnf("stripe webhook: event %s carries no invoice object: %v", event.ID, err)
		return nil
	}

	if invoice.Customer == nil || invoice.Customer.ID == "" {
		return nil
	}
	if invoice.ID == "" {
		return nil
	}

	periodStart, periodEnd := invoicePeriod(&invoice)
	return handler.Paid(invoice.Customer.ID, invoice.AmountPaid, invoice.ID, periodStart, periodEnd)
}

// invoicePaymentFailed signals that the customer has no valid payment
// method and the subscription became past due.
func (p *Provider) invoicePaymentFailed(event *stripeapi.Event, handler engine.WebhookHandler) error {
	var invoice stripeapi.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		log.Warnf("stripe webhook: event %s carries no invoice object: %v", event.ID, err)
		return nil
	}

	if invoice.Customer == nil || invoice.Customer.ID == "" {
		return nil
	}

	return handler.Failed(invoice.Customer.ID)
}

// invoicePeriod extracts the billing period covered by the invoice from
// its line items, defaulting to now when the lines carry no period.
func invoicePeriod(invoice *stripeapi.Invoice) (time.Time, time.Time) {
	periodStart := time.Now()
	periodEnd := time.Now()
	if invoice.Lines == nil {
		return periodStart, periodEnd
	}
	for _, line := range invoice.Lines.Data {
		if line.Period == nil {
			continue
		}
		if line.Period.Start != 0 {
			periodStart = time.Unix(line.Period.Start, 0)
		}
		if line.Period.End != 0 {
			periodEnd = time.Unix(line.Period.End, 0)
		}
	}
	return periodStart, periodEnd
}
