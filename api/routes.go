package api

const (
	// auth routes

	// POST /auth/login to login and get a JWT token
	authLoginEndpoint = "/auth/login"

	// payment routes

	// POST /payment/checkout to create a provider checkout session
	paymentCheckoutEndpoint = "/payment/checkout"
	// GET /payment/portal to create a billing portal session
	paymentPortalEndpoint = "/payment/portal"
	// POST /payment/prepare to create a one-shot payment transaction
	paymentPrepareEndpoint = "/payment/prepare"
	// POST /payment/execute/{transactionID} to settle a prepared transaction
	paymentExecuteEndpoint = "/payment/execute/{transactionID}"
	// POST /payment/webhook to receive provider events
	paymentWebhookEndpoint = "/payment/webhook"
)
