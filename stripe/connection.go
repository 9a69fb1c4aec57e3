// Package stripe plugs the Stripe payment service into the host platform's
// connection and payment-provider extension points: checkout session
// creation, billing portal redirection and webhook event handling for the
// subscription and invoice lifecycle.
package stripe

import (
	"sync"

	stripeapi "github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"

	"github.com/apiforge/stripe-adapter/engine"
)

const (
	appName    = "stripe-adapter"
	appVersion = "1.0.0"
	appURL     = "https://github.com/apiforge/stripe-adapter"
)

var appInfoOnce sync.Once

// Connection wraps a Stripe SDK client built from stored connection
// credentials.
type Connection struct {
	api      *client.API
	clientID string
}

// Connect builds a Stripe client from the connection parameters. The
// api_key may be empty so a connection can be configured in sandbox mode
// before real credentials exist; only remote calls would fail in that case.
func Connect(params engine.Parameters) *Connection {
	appInfoOnce.Do(func() {
		stripeapi.SetAppInfo(&stripeapi.AppInfo{
			Name:    appName,
			Version: appVersion,
			URL:     appURL,
		})
	})
	return &Connection{
		api:      client.New(params.Get("api_key"), nil),
		clientID: params.Get("client_id"),
	}
}

// ClientID returns the optional platform client id stored with the
// connection credentials.
func (c *Connection) ClientID() string {
	return c.clientID
}
