package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.vocdoni.io/dvote/log"

	"github.com/apiforge/stripe-adapter/db"
	"github.com/apiforge/stripe-adapter/engine"
	"github.com/apiforge/stripe-adapter/errors"
	"github.com/apiforge/stripe-adapter/stripe"
)

// maxWebhookBodyBytes bounds the webhook payload size.
const maxWebhookBodyBytes = int64(65536)

// CheckoutRequest asks for a provider-hosted checkout session for a product.
type CheckoutRequest struct {
	ProductID uint64 `json:"productID"`
	ReturnURL string `json:"returnURL"`
	CancelURL string `json:"cancelURL"`
}

// CheckoutResponse carries the redirect URL of the payment page.
type CheckoutResponse struct {
	CheckoutURL string `json:"checkoutURL"`
}

// PortalResponse carries the redirect URL of the billing portal.
type PortalResponse struct {
	PortalURL string `json:"portalURL"`
}

// PrepareRequest asks for a one-shot payment transaction for a product.
type PrepareRequest struct {
	ProductID uint64 `json:"productID"`
	ReturnURL string `json:"returnURL"`
	CancelURL string `json:"cancelURL"`
}

// PrepareResponse carries the created transaction and the payment URL the
// user must be redirected to.
type PrepareResponse struct {
	TransactionID uint64 `json:"transactionID"`
	PaymentURL    string `json:"paymentURL"`
}

// TransactionResponse reports the settled state of a transaction.
type TransactionResponse struct {
	TransactionID uint64 `json:"transactionID"`
	Status        string `json:"status"`
	RemoteID      string `json:"remoteID"`
}

// checkoutContext fills the session URLs, falling back to the configured
// web app URL when the request doesn't override them.
func (a *API) checkoutContext(returnURL, cancelURL string) *engine.CheckoutContext {
	if returnURL == "" {
		returnURL = a.webAppURL
	}
	if cancelURL == "" {
		cancelURL = a.webAppURL
	}
	return &engine.CheckoutContext{
		Currency:  a.currency,
		ReturnURL: returnURL,
		CancelURL: cancelURL,
		Domain:    a.domain,
	}
}

// checkoutHandler creates a provider checkout session for the authenticated
// user and returns the redirect URL of the hosted payment page.
func (a *API) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := a.userFromRequest(r)
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &CheckoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	product, err := a.db.Product(req.ProductID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrProductNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	checkoutURL, err := a.provider.Checkout(engineProduct(product), engineUser(user),
		a.checkoutContext(req.ReturnURL, req.CancelURL))
	if err != nil {
		log.Warnw("failed to create checkout session", "error", err)
		errors.ErrPaymentProviderError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &CheckoutResponse{CheckoutURL: checkoutURL})
}

// portalHandler creates a billing portal session for the authenticated user.
func (a *API) portalHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := a.userFromRequest(r)
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	returnURL := r.URL.Query().Get("returnURL")
	if returnURL == "" {
		returnURL = a.webAppURL
	}
	portalURL, err := a.provider.Portal(engineUser(user), returnURL, r.URL.Query().Get("configuration"))
	if err != nil {
		log.Warnw("failed to create portal session", "error", err)
		errors.ErrPaymentProviderError.WithErr(err).Write(w)
		return
	}
	if portalURL == "" {
		errors.ErrInvalidUserData.Withf("user has no billing identity yet").Write(w)
		return
	}
	httpWriteJSON(w, &PortalResponse{PortalURL: portalURL})
}

// prepareHandler creates a one-shot payment transaction and the provider
// session that settles it. The transaction is stored with the remote session
// reference so executeHandler and the webhook can settle it later.
func (a *API) prepareHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := a.userFromRequest(r)
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	req := &PrepareRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		errors.ErrMalformedBody.Write(w)
		return
	}
	product, err := a.db.Product(req.ProductID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrProductNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	// store the transaction first so its id can be referenced by the
	// provider session
	tx := &db.Transaction{
		UserID:    user.ID,
		ProductID: product.ID,
		Status:    engine.TransactionCreated,
		Amount:    product.Price,
	}
	txID, err := a.db.SetTransaction(tx)
	if err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	etx := &engine.Transaction{ID: int64(txID)}
	paymentURL, err := a.provider.Prepare(engineProduct(product), etx,
		a.checkoutContext(req.ReturnURL, req.CancelURL))
	if err != nil {
		log.Warnw("failed to prepare payment", "error", err, "transactionID", txID)
		errors.ErrPaymentProviderError.WithErr(err).Write(w)
		return
	}
	// stamp the remote session reference and initial status back
	tx.RemoteID = etx.RemoteID
	tx.Status = etx.Status
	if _, err := a.db.SetTransaction(tx); err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &PrepareResponse{TransactionID: txID, PaymentURL: paymentURL})
}

// executeHandler settles a prepared transaction after the user returned from
// the payment page, re-fetching the provider session outcome.
func (a *API) executeHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := a.userFromRequest(r)
	if !ok {
		errors.ErrUnauthorized.Write(w)
		return
	}
	txID, err := strconv.ParseUint(chi.URLParam(r, "transactionID"), 10, 64)
	if err != nil {
		errors.ErrMalformedURLParam.Withf("invalid transaction id").Write(w)
		return
	}
	tx, err := a.db.Transaction(txID)
	if err != nil {
		if err == db.ErrNotFound {
			errors.ErrTransactionNotFound.Write(w)
			return
		}
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	if tx.UserID != user.ID {
		errors.ErrUnauthorized.Withf("transaction belongs to another user").Write(w)
		return
	}
	etx := &engine.Transaction{ID: int64(tx.ID), Status: tx.Status, RemoteID: tx.RemoteID}
	params := engine.MapParameters{"session_id": r.URL.Query().Get("session_id")}
	if err := a.provider.Execute(etx, params); err != nil {
		if stripe.IsConfiguration(err) {
			errors.ErrMalformedURLParam.WithErr(err).Write(w)
			return
		}
		log.Warnw("failed to execute transaction", "error", err, "transactionID", txID)
		errors.ErrPaymentProviderError.WithErr(err).Write(w)
		return
	}
	tx.Status = etx.Status
	tx.RemoteID = etx.RemoteID
	if _, err := a.db.SetTransaction(tx); err != nil {
		errors.ErrInternalStorageError.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, &TransactionResponse{
		TransactionID: tx.ID,
		Status:        tx.Status.String(),
		RemoteID:      tx.RemoteID,
	})
}

// webhookHandler receives provider events, verifies their signature and
// dispatches them to the configured webhook handler. Verified events that
// the processor drops still get a 200 so the provider stops retrying them.
func (a *API) webhookHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes)
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		errors.ErrMalformedBody.Withf("error reading request body").Write(w)
		return
	}
	signatureHeader := r.Header.Get("Stripe-Signature")
	if signatureHeader == "" {
		errors.ErrWebhookForbidden.Withf("missing Stripe-Signature header").Write(w)
		return
	}
	if err := a.provider.Webhook(payload, signatureHeader, a.webhook); err != nil {
		if stripe.IsAuthentication(err) {
			errors.ErrWebhookForbidden.Write(w)
			return
		}
		log.Warnw("failed to process webhook event", "error", err)
		errors.ErrPaymentProviderError.WithErr(err).Write(w)
		return
	}
	httpWriteOK(w)
}
