package db

import (
	"fmt"
	"time"

	"go.vocdoni.io/dvote/log"

	"github.com/apiforge/stripe-adapter/engine"
)

// BillingHandler reconciles payment provider webhook events into storage.
// Every method is idempotent: completed checkouts converge on the
// transaction keyed by session id, paid invoices on the payment keyed by
// invoice id, so redelivered events leave the database unchanged.
type BillingHandler struct {
	storage *MongoStorage
}

var _ engine.WebhookHandler = (*BillingHandler)(nil)

func NewBillingHandler(storage *MongoStorage) *BillingHandler {
	return &BillingHandler{storage: storage}
}

// Completed records a finished checkout: the provider customer id is
// attached to the user and the transaction bound to the session is marked
// approved.
func (h *BillingHandler) Completed(userID, productID int64, customerID string, amountTotal int64, sessionID string) error {
	if err := h.storage.SetUserCustomerID(uint64(userID), customerID); err != nil {
		// the user may have been created outside this adapter, don't
		// lose the payment because of it
		if err != ErrNotFound {
			return fmt.Errorf("could not attach customer to user: %w", err)
		}
		log.Warnw("checkout completed for unknown user", "userID", userID, "customerID", customerID)
	}
	tx, err := h.storage.ApproveTransactionByRemoteID(sessionID, uint64(userID), uint64(productID), amountTotal)
	if err != nil {
		return fmt.Errorf("could not approve transaction: %w", err)
	}
	log.Infow("checkout completed", "transactionID", tx.ID, "sessionID", sessionID,
		"userID", userID, "productID", productID, "amount", amountTotal)
	return nil
}

// Paid records a settled recurring invoice and clears the customer's past
// due flag.
func (h *BillingHandler) Paid(customerID string, amountPaid int64, invoiceID string, periodStart, periodEnd time.Time) error {
	if err := h.storage.SetPayment(&Payment{
		InvoiceID:   invoiceID,
		CustomerID:  customerID,
		Amount:      amountPaid,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
	}); err != nil {
		return fmt.Errorf("could not store payment: %w", err)
	}
	if err := h.storage.SetUserPastDue(customerID, false); err != nil && err != ErrNotFound {
		return fmt.Errorf("could not clear past due state: %w", err)
	}
	log.Infow("invoice paid", "invoiceID", invoiceID, "customerID", customerID, "amount", amountPaid)
	return nil
}

// Failed flags the customer as past due after a failed invoice payment.
func (h *BillingHandler) Failed(customerID string) error {
	if err := h.storage.SetUserPastDue(customerID, true); err != nil {
		if err == ErrNotFound {
			log.Warnw("payment failed for unknown customer", "customerID", customerID)
			return nil
		}
		return fmt.Errorf("could not flag past due state: %w", err)
	}
	log.Infow("invoice payment failed", "customerID", customerID)
	return nil
}
