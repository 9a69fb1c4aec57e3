package stripe

import (
	"fmt"

	stripeapi "github.com/stripe/stripe-go/v81"

	"github.com/apiforge/stripe-adapter/engine"
)

// Portal creates a billing portal session for the user and returns its
// URL. A user without an external customer id never checked out and has no
// billing identity, so there is no portal for them: the result is an empty
// string, not an error.
func (p *Provider) Portal(user *engine.User, returnURL, configurationID string) (string, error) {
	api, err := p.client()
	if err != nil {
		return "", err
	}

	if user.ExternalID == "" {
		return "", nil
	}

	session, err := api.BillingPortalSessions.New(portalSessionParams(user, returnURL, configurationID))
	if err != nil {
		return "", fmt.Errorf("failed to create portal session: %w", err)
	}
	return session.URL, nil
}

func portalSessionParams(user *engine.User, returnURL, configurationID string) *stripeapi.BillingPortalSessionParams {
	params := &stripeapi.BillingPortalSessionParams{
		Customer:  stripeapi.String(user.ExternalID),
		ReturnURL: stripeapi.String(returnURL),
	}
	if configurationID != "" {
		params.Configuration = stripeapi.String(configurationID)
	}
	return params
}
