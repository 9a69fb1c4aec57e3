package stripe

import (
	"fmt"
	"strconv"

	stripeapi "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/apiforge/stripe-adapter/engine"
)

// Provider implements the host's payment-provider extension point on top
// of a Stripe connection. The webhook secret and the optional tenant
// domain are read from the adapter parameters at construction time.
type Provider struct {
	conn   *Connection
	secret string
	domain string
}

var _ engine.Provider = (*Provider)(nil)

// New creates a Stripe payment provider bound to the given connection.
// Recognized parameters: webhook_secret (required for webhook processing)
// and domain (optional tenant tag validated against webhook metadata).
func New(conn *Connection, params engine.Parameters) *Provider {
	return &Provider{
		conn:   conn,
		secret: params.Get("webhook_secret"),
		domain: params.Get("domain"),
	}
}

// client resolves the connection to a usable Stripe SDK client.
func (p *Provider) client() (*client.API, error) {
	if p.conn == nil || p.conn.api == nil {
		return nil, ErrInvalidConnection
	}
	return p.conn.api, nil
}

// Prepare creates a one-shot payment-mode checkout session for the
// transaction and stamps the transaction with the resulting session state.
func (p *Provider) Prepare(product *engine.Product, tx *engine.Transaction, checkout *engine.CheckoutContext) (string, error) {
	api, err := p.client()
	if err != nil {
		return "", err
	}

	params := &stripeapi.CheckoutSessionParams{
		Mode:              stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		LineItems:         []*stripeapi.CheckoutSessionLineItemParams{lineItemParams(product, checkout.Currency)},
		ClientReferenceID: stripeapi.String(strconv.FormatInt(tx.ID, 10)),
		SuccessURL:        stripeapi.String(checkout.ReturnURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripeapi.String(checkout.CancelURL),
	}
	session, err := api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}

	applySession(tx, session)

	if session.URL == "" {
		return "", ErrNoRedirectURL
	}
	return session.URL, nil
}

// Execute re-fetches the checkout session referenced by the session_id
// parameter and re-stamps the transaction status from it.
func (p *Provider) Execute(tx *engine.Transaction, params engine.Parameters) error {
	api, err := p.client()
	if err != nil {
		return err
	}

	sessionID := params.Get("session_id")
	if sessionID == "" {
		return NewError(CodeConfiguration, "no session_id parameter provided", nil)
	}

	session, err := api.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return fmt.Errorf("failed to retrieve checkout session %s: %w", sessionID, err)
	}

	applySession(tx, session)
	return nil
}

// applySession stamps the transaction with the session status and the
// stable session reference.
func applySession(tx *engine.Transaction, session *stripeapi.CheckoutSession) {
	tx.Status = mapSessionStatus(session.Status)
	tx.RemoteID = session.ID
}

// mapSessionStatus maps a remote checkout session status to the host's
// transaction status.
func mapSessionStatus(status stripeapi.CheckoutSessionStatus) engine.TransactionStatus {
	switch status {
	case stripeapi.CheckoutSessionStatusOpen:
		return engine.TransactionCreated
	case stripeapi.CheckoutSessionStatusComplete:
		return engine.TransactionApproved
	case stripeapi.CheckoutSessionStatusExpired:
		return engine.TransactionFailed
	default:
		return engine.TransactionUnknown
	}
}
